// Package workflow implements the booking form lifecycle shared by every
// booking domain: load resources, pick resource and time, optionally probe
// availability, submit, refresh from the store. Domain differences live in a
// Descriptor; the state machine is the same for all of them.
package workflow

import (
	"context"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
)

// Filter is the context a resource or booking list is scoped by. A zero
// FloorNumber means unfiltered.
type Filter struct {
	UserID      int
	FloorNumber int
	Date        time.Time
}

// Result is what the store answers to a successful create.
type Result struct {
	BookingID int
	Status    string
}

// Descriptor parameterizes a Controller for one booking domain. Only
// LoadResources, Create, Cancel and ListBookings are mandatory;
// CheckAvailability and Update are nil for domains without them.
type Descriptor struct {
	Domain entity.Domain

	// NeedsFloor marks domains whose resource list is floor-scoped (seats).
	NeedsFloor bool
	// AllowsParticipants marks domains whose bookings carry invitees (rooms).
	AllowsParticipants bool
	// DetailsOptional relaxes the details requirement (events carry a free
	// description instead of mandatory details).
	DetailsOptional bool

	// LoadResources is nil for domains without a resource catalogue (events,
	// where the drafted ref is the event name itself).
	LoadResources     func(ctx context.Context, f Filter) ([]entity.Resource, error)
	CheckAvailability func(ctx context.Context, ref string, at time.Time) (bool, error)
	Create            func(ctx context.Context, b entity.Booking) (Result, error)
	Update            func(ctx context.Context, id int, b entity.Booking) error
	Cancel            func(ctx context.Context, id, userID int) error
	ListBookings      func(ctx context.Context, f Filter) ([]entity.Booking, error)
}

func (d Descriptor) HasAvailability() bool {
	return d.CheckAvailability != nil
}

func (d Descriptor) SupportsUpdate() bool {
	return d.Update != nil
}
