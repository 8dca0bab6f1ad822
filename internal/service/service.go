package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ridhambansal/office-booking/internal/clients/authapi"
	"github.com/ridhambansal/office-booking/internal/clients/bookings"
	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/internal/workflow"
	"github.com/ridhambansal/office-booking/pkg/config"
)

type AuthClient interface {
	Register(ctx context.Context, req authapi.RegisterRequest) (entity.User, string, error)
	Login(ctx context.Context, email, password string) (entity.User, string, error)
}

type DirectoryClient interface {
	Rooms(ctx context.Context) ([]entity.Room, error)
	Floors(ctx context.Context) ([]entity.Floor, error)
	AvailableSeats(ctx context.Context, floor int) ([]entity.Seat, error)
	Cafes(ctx context.Context) ([]entity.Cafe, error)
	Users(ctx context.Context) ([]entity.User, error)
}

type BookingsClient interface {
	CheckCafeAvailability(ctx context.Context, cafeName string, at time.Time) (bool, error)
	BookRoom(ctx context.Context, b entity.Booking) (bookings.CreateResult, error)
	BookSeat(ctx context.Context, b entity.Booking) (bookings.CreateResult, error)
	BookCafe(ctx context.Context, b entity.Booking) (bookings.CreateResult, error)
	UpdateSeatBooking(ctx context.Context, id int, b entity.Booking) error
	UpdateCafeBooking(ctx context.Context, id int, b entity.Booking) error
	CancelRoomBooking(ctx context.Context, id int) error
	CancelSeatBooking(ctx context.Context, id int) error
	CancelCafeBooking(ctx context.Context, id, userID int) error
	RoomBookings(ctx context.Context, userID int, date time.Time) ([]entity.Booking, error)
	SeatBookings(ctx context.Context, userID int) ([]entity.Booking, error)
	CafeBookings(ctx context.Context, userID int) ([]entity.Booking, error)
	Events(ctx context.Context) ([]entity.Event, error)
	CreateEvent(ctx context.Context, e entity.Event) (int, error)
	UpdateEvent(ctx context.Context, id int, e entity.Event) error
	DeleteEvent(ctx context.Context, id, userID int) error
}

type NotificationsClient interface {
	Unread(ctx context.Context, userID int) ([]entity.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
}

// Service orchestrates sessions, the per-domain workflow controllers and the
// notification poller. One controller lives per session and domain, so a
// form's draft and editing state survive across requests.
type Service struct {
	cfg           config.Config
	auth          AuthClient
	directory     DirectoryClient
	bookings      BookingsClient
	notifications NotificationsClient
	sessions      session.Store

	mu          sync.Mutex
	controllers map[string]*workflow.Controller
}

func NewService(
	cfg config.Config,
	auth AuthClient,
	directory DirectoryClient,
	bookings BookingsClient,
	notifications NotificationsClient,
	sessions session.Store,
) *Service {
	return &Service{
		cfg:           cfg,
		auth:          auth,
		directory:     directory,
		bookings:      bookings,
		notifications: notifications,
		sessions:      sessions,
		controllers:   map[string]*workflow.Controller{},
	}
}

func (s *Service) Register(ctx context.Context, req authapi.RegisterRequest) (session.Session, string, error) {
	user, upstreamToken, err := s.auth.Register(ctx, req)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("register: %w", err)
	}

	return s.openSession(ctx, user, upstreamToken)
}

func (s *Service) Login(ctx context.Context, email, password string) (session.Session, string, error) {
	user, upstreamToken, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("login: %w", err)
	}

	return s.openSession(ctx, user, upstreamToken)
}

func (s *Service) openSession(ctx context.Context, user entity.User, upstreamToken string) (session.Session, string, error) {
	sess, err := s.sessions.Create(ctx, user, upstreamToken)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("create session: %w", err)
	}

	token, err := session.NewToken(s.cfg.Session.JWTSecret, s.cfg.Session.Issuer, s.cfg.Session.TTL, sess.ID, user.ID)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("mint session token: %w", err)
	}

	slog.InfoContext(ctx, "session opened", "user_id", user.ID, "session_id", sess.ID)

	return sess, token, nil
}

func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	s.mu.Lock()

	for _, domain := range []entity.Domain{entity.DomainRoom, entity.DomainSeat, entity.DomainCafe, entity.DomainEvent} {
		delete(s.controllers, controllerKey(sess.ID, domain))
	}
	s.mu.Unlock()

	err := s.sessions.Delete(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	slog.InfoContext(ctx, "session closed", "session_id", sess.ID)

	return nil
}

// Authenticate resolves a gateway session token to its session record.
func (s *Service) Authenticate(ctx context.Context, token string) (session.Session, error) {
	claims, err := session.ParseToken(s.cfg.Session.JWTSecret, token)
	if err != nil {
		return session.Session{}, err
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return session.Session{}, err
	}

	return sess, nil
}

func controllerKey(sessionID string, domain entity.Domain) string {
	return sessionID + "/" + string(domain)
}

func (s *Service) controller(sess session.Session, domain entity.Domain) (*workflow.Controller, error) {
	desc, err := s.descriptor(domain)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := controllerKey(sess.ID, domain)

	c, ok := s.controllers[key]
	if !ok {
		c = workflow.NewController(desc, sess.User)
		s.controllers[key] = c
	}

	return c, nil
}

// upstreamCtx attaches the session's upstream bearer token so outgoing client
// calls authenticate as the logged-in user.
func upstreamCtx(ctx context.Context, sess session.Session) context.Context {
	if sess.UpstreamToken == "" {
		return ctx
	}

	return entity.CtxWithToken(ctx, sess.UpstreamToken)
}
