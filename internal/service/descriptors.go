package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/workflow"
)

// descriptor wires one booking domain's remote operations into the shared
// workflow controller. This is the single place where the four domains
// diverge; everything else runs the same state machine.
func (s *Service) descriptor(domain entity.Domain) (workflow.Descriptor, error) {
	switch domain {
	case entity.DomainRoom:
		return workflow.Descriptor{
			Domain:             entity.DomainRoom,
			AllowsParticipants: true,
			LoadResources: func(ctx context.Context, f workflow.Filter) ([]entity.Resource, error) {
				rooms, err := s.directory.Rooms(ctx)
				if err != nil {
					return nil, err
				}

				out := make([]entity.Resource, 0, len(rooms))

				for _, r := range rooms {
					if f.FloorNumber != 0 && r.FloorNumber != f.FloorNumber {
						continue
					}

					out = append(out, r.AsResource())
				}

				return out, nil
			},
			Create: func(ctx context.Context, b entity.Booking) (workflow.Result, error) {
				res, err := s.bookings.BookRoom(ctx, b)
				if err != nil {
					return workflow.Result{}, err
				}

				return workflow.Result{BookingID: res.BookingID, Status: res.Status}, nil
			},
			Cancel: func(ctx context.Context, id, _ int) error {
				return s.bookings.CancelRoomBooking(ctx, id)
			},
			ListBookings: func(ctx context.Context, f workflow.Filter) ([]entity.Booking, error) {
				return s.bookings.RoomBookings(ctx, f.UserID, f.Date)
			},
		}, nil

	case entity.DomainSeat:
		return workflow.Descriptor{
			Domain:     entity.DomainSeat,
			NeedsFloor: true,
			LoadResources: func(ctx context.Context, f workflow.Filter) ([]entity.Resource, error) {
				if f.FloorNumber == 0 {
					return nil, nil
				}

				seats, err := s.directory.AvailableSeats(ctx, f.FloorNumber)
				if err != nil {
					return nil, err
				}

				out := make([]entity.Resource, 0, len(seats))
				for _, seat := range seats {
					out = append(out, seat.AsResource())
				}

				return out, nil
			},
			Create: func(ctx context.Context, b entity.Booking) (workflow.Result, error) {
				res, err := s.bookings.BookSeat(ctx, b)
				if err != nil {
					return workflow.Result{}, err
				}

				return workflow.Result{BookingID: res.BookingID, Status: res.Status}, nil
			},
			Update: func(ctx context.Context, id int, b entity.Booking) error {
				return s.bookings.UpdateSeatBooking(ctx, id, b)
			},
			Cancel: func(ctx context.Context, id, _ int) error {
				return s.bookings.CancelSeatBooking(ctx, id)
			},
			ListBookings: func(ctx context.Context, f workflow.Filter) ([]entity.Booking, error) {
				return s.bookings.SeatBookings(ctx, f.UserID)
			},
		}, nil

	case entity.DomainCafe:
		return workflow.Descriptor{
			Domain: entity.DomainCafe,
			LoadResources: func(ctx context.Context, f workflow.Filter) ([]entity.Resource, error) {
				cafes, err := s.directory.Cafes(ctx)
				if err != nil {
					return nil, err
				}

				out := make([]entity.Resource, 0, len(cafes))
				for _, c := range cafes {
					out = append(out, c.AsResource())
				}

				return out, nil
			},
			CheckAvailability: func(ctx context.Context, ref string, at time.Time) (bool, error) {
				return s.bookings.CheckCafeAvailability(ctx, ref, at)
			},
			Create: func(ctx context.Context, b entity.Booking) (workflow.Result, error) {
				res, err := s.bookings.BookCafe(ctx, b)
				if err != nil {
					return workflow.Result{}, err
				}

				return workflow.Result{BookingID: res.BookingID, Status: res.Status}, nil
			},
			Update: func(ctx context.Context, id int, b entity.Booking) error {
				return s.bookings.UpdateCafeBooking(ctx, id, b)
			},
			Cancel: func(ctx context.Context, id, userID int) error {
				return s.bookings.CancelCafeBooking(ctx, id, userID)
			},
			ListBookings: func(ctx context.Context, f workflow.Filter) ([]entity.Booking, error) {
				return s.bookings.CafeBookings(ctx, f.UserID)
			},
		}, nil

	case entity.DomainEvent:
		// Events run the same state machine with the drafted ref carrying
		// the event name and details carrying the description.
		return workflow.Descriptor{
			Domain:          entity.DomainEvent,
			DetailsOptional: true,
			Create: func(ctx context.Context, b entity.Booking) (workflow.Result, error) {
				id, err := s.bookings.CreateEvent(ctx, entity.Event{
					Name:        b.ResourceRef,
					Date:        b.Date,
					Description: b.Details,
					CreatorID:   b.UserID,
				})
				if err != nil {
					return workflow.Result{}, err
				}

				return workflow.Result{BookingID: id, Status: "created"}, nil
			},
			Update: func(ctx context.Context, id int, b entity.Booking) error {
				return s.bookings.UpdateEvent(ctx, id, entity.Event{
					Name:        b.ResourceRef,
					Date:        b.Date,
					Description: b.Details,
					CreatorID:   b.UserID,
				})
			},
			Cancel: func(ctx context.Context, id, userID int) error {
				return s.bookings.DeleteEvent(ctx, id, userID)
			},
			ListBookings: func(ctx context.Context, _ workflow.Filter) ([]entity.Booking, error) {
				events, err := s.bookings.Events(ctx)
				if err != nil {
					return nil, err
				}

				out := make([]entity.Booking, 0, len(events))

				for _, e := range events {
					out = append(out, entity.Booking{
						ID:          e.ID,
						Domain:      entity.DomainEvent,
						ResourceRef: e.Name,
						UserID:      e.CreatorID,
						Date:        e.Date,
						Details:     e.Description,
					})
				}

				return out, nil
			},
		}, nil

	default:
		return workflow.Descriptor{}, fmt.Errorf("%w: unknown booking domain %q", entity.ErrValidation, domain)
	}
}
