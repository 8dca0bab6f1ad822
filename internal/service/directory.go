package service

import (
	"context"
	"fmt"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/session"
)

func (s *Service) Floors(ctx context.Context, sess session.Session) ([]entity.Floor, error) {
	floors, err := s.directory.Floors(upstreamCtx(ctx, sess))
	if err != nil {
		return nil, fmt.Errorf("load floors: %w", err)
	}

	return floors, nil
}

// Participants lists users available as room-booking invitees. The current
// user is excluded; inviting yourself is implicit.
func (s *Service) Participants(ctx context.Context, sess session.Session) ([]entity.User, error) {
	users, err := s.directory.Users(upstreamCtx(ctx, sess))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	out := make([]entity.User, 0, len(users))

	for _, u := range users {
		if u.ID == sess.User.ID {
			continue
		}

		out = append(out, u)
	}

	return out, nil
}
