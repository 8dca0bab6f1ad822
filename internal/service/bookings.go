package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/internal/workflow"
)

// BookingInput is the submitted form for a create or update.
type BookingInput struct {
	ResourceRef  string
	FloorNumber  int
	Date         time.Time
	Details      string
	Participants []int
}

// Resources loads the candidate resource set for a domain, scoped by floor
// where that applies.
func (s *Service) Resources(ctx context.Context, sess session.Session, domain entity.Domain, floor int) ([]entity.Resource, error) {
	c, err := s.controller(sess, domain)
	if err != nil {
		return nil, err
	}

	return c.LoadResources(upstreamCtx(ctx, sess), floor)
}

// Bookings returns the user's booking list for a domain, refreshed from the
// store.
func (s *Service) Bookings(ctx context.Context, sess session.Session, domain entity.Domain) ([]entity.Booking, error) {
	c, err := s.controller(sess, domain)
	if err != nil {
		return nil, err
	}

	err = c.RefreshBookings(upstreamCtx(ctx, sess))
	if err != nil {
		return nil, err
	}

	return c.Bookings(), nil
}

// CheckAvailability probes the store for the drafted resource and time.
func (s *Service) CheckAvailability(ctx context.Context, sess session.Session, domain entity.Domain, ref string, at time.Time) (bool, error) {
	c, err := s.controller(sess, domain)
	if err != nil {
		return false, err
	}

	c.SelectResource(ref)
	c.SetDate(at)

	return c.CheckAvailability(upstreamCtx(ctx, sess))
}

// CreateBooking drives the workflow controller through a create submit.
// Booking is gated on the session's access level before anything leaves the
// gateway; the store enforces independently.
func (s *Service) CreateBooking(ctx context.Context, sess session.Session, domain entity.Domain, in BookingInput) (workflow.Result, error) {
	if err := s.gate(sess, domain); err != nil {
		return workflow.Result{}, err
	}

	c, err := s.controller(sess, domain)
	if err != nil {
		return workflow.Result{}, err
	}

	c.CancelEdit()

	return s.submit(ctx, sess, c, in)
}

// UpdateBooking re-submits an existing booking with a new date and details.
func (s *Service) UpdateBooking(ctx context.Context, sess session.Session, domain entity.Domain, id int, in BookingInput) (workflow.Result, error) {
	if err := s.gate(sess, domain); err != nil {
		return workflow.Result{}, err
	}

	c, err := s.controller(sess, domain)
	if err != nil {
		return workflow.Result{}, err
	}

	c.Edit(entity.Booking{
		ID:          id,
		Domain:      domain,
		ResourceRef: in.ResourceRef,
		FloorNumber: in.FloorNumber,
	})

	return s.submit(ctx, sess, c, in)
}

func (s *Service) submit(ctx context.Context, sess session.Session, c *workflow.Controller, in BookingInput) (workflow.Result, error) {
	c.SelectResource(in.ResourceRef)

	if !in.Date.IsZero() {
		c.SetDate(in.Date)
	}

	c.SetDetails(in.Details)

	if len(in.Participants) > 0 {
		if err := c.SetParticipants(in.Participants); err != nil {
			return workflow.Result{}, err
		}
	}

	return c.Submit(upstreamCtx(ctx, sess))
}

// CancelBooking deletes a booking. A second cancel of the same id surfaces
// the store's error.
func (s *Service) CancelBooking(ctx context.Context, sess session.Session, domain entity.Domain, id int) error {
	if err := s.gate(sess, domain); err != nil {
		return err
	}

	c, err := s.controller(sess, domain)
	if err != nil {
		return err
	}

	return c.Cancel(upstreamCtx(ctx, sess), id)
}

// gate blocks actions the session's access level does not permit, with an
// explanatory error instead of a round trip to the store.
func (s *Service) gate(sess session.Session, domain entity.Domain) error {
	if domain == entity.DomainEvent {
		if !sess.User.CanManageEvents() {
			return fmt.Errorf("%w: managing events requires manager access", entity.ErrForbidden)
		}

		return nil
	}

	if !sess.User.CanBook() {
		return fmt.Errorf("%w: booking requires employee access", entity.ErrForbidden)
	}

	return nil
}
