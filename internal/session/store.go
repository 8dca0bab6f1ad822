// Package session owns the only cross-request shared state the gateway keeps:
// the logged-in user. Written by login/logout, read everywhere else.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ridhambansal/office-booking/internal/entity"
)

type Session struct {
	ID            string      `json:"id"`
	User          entity.User `json:"user"`
	UpstreamToken string      `json:"upstream_token"`
	UnreadCount   int         `json:"unread_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, user entity.User, upstreamToken string) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	SetUnreadCount(ctx context.Context, id string, count int) error
	Delete(ctx context.Context, id string) error
	// ActiveSessions lists live sessions for the notification poller.
	ActiveSessions(ctx context.Context) ([]Session, error)
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

const keyPrefix = "session:"

func (s *RedisStore) Create(ctx context.Context, user entity.User, upstreamToken string) (Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := Session{
		ID:            id.String(),
		User:          user,
		UpstreamToken: upstreamToken,
		CreatedAt:     time.Now().UTC(),
	}

	err = s.save(ctx, sess)
	if err != nil {
		return Session{}, err
	}

	return sess, nil
}

func (s *RedisStore) save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = s.client.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, entity.ErrSessionExpired
	}

	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess Session

	err = json.Unmarshal(data, &sess)
	if err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}

	return sess, nil
}

func (s *RedisStore) SetUnreadCount(ctx context.Context, id string, count int) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.UnreadCount = count

	return s.save(ctx, sess)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	err := s.client.Del(ctx, keyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *RedisStore) ActiveSessions(ctx context.Context) ([]Session, error) {
	var (
		cursor   uint64
		sessions []Session
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}

		for _, key := range keys {
			sess, err := s.Get(ctx, key[len(keyPrefix):])
			if err != nil {
				continue
			}

			sessions = append(sessions, sess)
		}

		cursor = next
		if cursor == 0 {
			return sessions, nil
		}
	}
}

// MemoryStore keeps sessions in process memory. Used when no Redis address is
// configured and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: map[string]Session{},
		ttl:      ttl,
	}
}

func (s *MemoryStore) Create(_ context.Context, user entity.User, upstreamToken string) (Session, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := Session{
		ID:            id.String(),
		User:          user,
		UpstreamToken: upstreamToken,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || time.Since(sess.CreatedAt) > s.ttl {
		return Session{}, entity.ErrSessionExpired
	}

	return sess, nil
}

func (s *MemoryStore) SetUnreadCount(_ context.Context, id string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return entity.ErrSessionExpired
	}

	sess.UnreadCount = count
	s.sessions[id] = sess

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) ActiveSessions(_ context.Context) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sessions []Session

	for _, sess := range s.sessions {
		if time.Since(sess.CreatedAt) > s.ttl {
			continue
		}

		sessions = append(sessions, sess)
	}

	return sessions, nil
}
