package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
)

// Hint is the advisory result of an availability probe. It is never consulted
// at submit time: the store's answer at submit is authoritative and a stale
// "available" hint must not mask a submit-time rejection.
type Hint int

const (
	HintUnknown Hint = iota
	HintAvailable
	HintUnavailable
)

// State of the form. Editing is tracked separately as the target booking id.
type State int

const (
	StateIdle State = iota
	StateChecked
	StateSubmitting
)

// Controller drives one booking form instance. All state transitions happen
// under the mutex; remote calls run with the lock released, and a generation
// tag makes overlapping resource loads resolve last-applicable-wins instead
// of last-to-arrive-wins.
type Controller struct {
	desc Descriptor
	user entity.User

	mu        sync.Mutex
	state     State
	hint      Hint
	draft     entity.Draft
	editingID int
	filter    Filter
	loadGen   uint64
	resources []entity.Resource
	bookings  []entity.Booking
	lastErr   error
}

func NewController(desc Descriptor, user entity.User) *Controller {
	return &Controller{
		desc:   desc,
		user:   user,
		filter: Filter{UserID: user.ID},
	}
}

// LoadResources fetches the candidate set for the given floor filter. The
// fetched list is returned to the caller either way, but it is only installed
// as the controller's resource list if no newer load started in the meantime.
// Changing the floor clears a selected resource that is no longer in scope.
func (c *Controller) LoadResources(ctx context.Context, floor int) ([]entity.Resource, error) {
	if c.desc.LoadResources == nil {
		return nil, nil
	}

	c.mu.Lock()

	if floor != c.filter.FloorNumber {
		c.filter.FloorNumber = floor
		c.draft.ResourceRef = ""
		c.draft.FloorNumber = floor
		c.hint = HintUnknown
	}

	c.loadGen++
	gen := c.loadGen
	f := c.filter
	c.mu.Unlock()

	resources, err := c.desc.LoadResources(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.loadGen {
		// Superseded by a newer load; do not install.
		return resources, err
	}

	if err != nil {
		c.resources = nil
		c.lastErr = err

		return nil, err
	}

	c.resources = resources
	c.lastErr = nil

	return resources, nil
}

func (c *Controller) SelectResource(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.ResourceRef = ref
	c.hint = HintUnknown
	c.state = StateIdle
}

func (c *Controller) SetDate(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Date = t.UTC()
	c.hint = HintUnknown
	c.state = StateIdle
}

func (c *Controller) SetDetails(details string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Details = details
}

func (c *Controller) SetParticipants(ids []int) error {
	if !c.desc.AllowsParticipants {
		return fmt.Errorf("%w: participants not supported for %s bookings", entity.ErrValidation, c.desc.Domain)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Participants = ids

	return nil
}

// CheckAvailability probes the store for the drafted resource and time. It is
// a local caller error to probe with either missing; nothing is sent upstream
// in that case. The result is advisory only.
func (c *Controller) CheckAvailability(ctx context.Context) (bool, error) {
	if !c.desc.HasAvailability() {
		return false, fmt.Errorf("%w: availability check not supported for %s bookings", entity.ErrValidation, c.desc.Domain)
	}

	c.mu.Lock()
	ref, at := c.draft.ResourceRef, c.draft.Date
	c.mu.Unlock()

	if ref == "" || at.IsZero() {
		return false, fmt.Errorf("%w: resource and date are required before an availability check", entity.ErrValidation)
	}

	available, err := c.desc.CheckAvailability(ctx, ref, at)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.hint = HintUnknown
		return false, err
	}

	if available {
		c.hint = HintAvailable
	} else {
		c.hint = HintUnavailable
	}

	c.state = StateChecked

	return available, nil
}

// Edit enters the editing sub-state: the draft is pre-filled from the booking
// and the target id remembered until update, cancel or CancelEdit.
func (c *Controller) Edit(b entity.Booking) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editingID = b.ID
	c.draft = entity.Draft{
		ResourceRef:  b.ResourceRef,
		FloorNumber:  b.FloorNumber,
		Date:         b.Date,
		Details:      b.Details,
		Participants: b.Participants,
	}
	c.hint = HintUnknown
	c.state = StateIdle
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.editingID = 0
	c.draft = entity.Draft{FloorNumber: c.filter.FloorNumber}
	c.hint = HintUnknown
	c.state = StateIdle
}

// Submit validates the draft, then creates or updates depending on the
// editing state. Validation failures never issue a network call. On success
// the draft is cleared and the booking list re-fetched from the store; on
// failure the draft is retained so the user can correct and resubmit.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()

	if err := c.validateLocked(); err != nil {
		c.mu.Unlock()
		return Result{}, err
	}

	b := entity.Booking{
		Domain:       c.desc.Domain,
		ResourceRef:  c.draft.ResourceRef,
		FloorNumber:  c.draft.FloorNumber,
		UserID:       c.user.ID, // always the session user, never a draft field
		Date:         c.draft.Date,
		Details:      c.draft.Details,
		Participants: c.draft.Participants,
	}
	editingID := c.editingID
	c.state = StateSubmitting
	c.mu.Unlock()

	var (
		res Result
		err error
	)

	if editingID != 0 {
		if !c.desc.SupportsUpdate() {
			err = fmt.Errorf("%w: %s bookings cannot be updated", entity.ErrValidation, c.desc.Domain)
		} else {
			err = c.desc.Update(ctx, editingID, b)
			res = Result{BookingID: editingID, Status: "updated"}
		}
	} else {
		res, err = c.desc.Create(ctx, b)
	}

	c.mu.Lock()
	c.state = StateIdle

	if err != nil {
		// Draft retained verbatim for correction and resubmit.
		c.lastErr = err
		c.mu.Unlock()

		return Result{}, err
	}

	c.draft = entity.Draft{FloorNumber: c.filter.FloorNumber}
	c.editingID = 0
	c.hint = HintUnknown
	c.lastErr = nil
	c.mu.Unlock()

	if refreshErr := c.RefreshBookings(ctx); refreshErr != nil {
		// The mutation itself succeeded; report the refresh failure as the
		// retrievable error state without failing the submit.
		c.mu.Lock()
		c.lastErr = refreshErr
		c.mu.Unlock()
	}

	return res, nil
}

// Cancel deletes a booking. Repeated cancellation of the same id surfaces the
// store's error, it is never a local failure. Success clears an in-progress
// edit of that booking and refreshes the list.
func (c *Controller) Cancel(ctx context.Context, id int) error {
	err := c.desc.Cancel(ctx, id, c.user.ID)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()

		return err
	}

	c.mu.Lock()

	if c.editingID == id {
		c.editingID = 0
		c.draft = entity.Draft{FloorNumber: c.filter.FloorNumber}
	}

	c.hint = HintUnknown
	c.lastErr = nil
	c.mu.Unlock()

	if refreshErr := c.RefreshBookings(ctx); refreshErr != nil {
		c.mu.Lock()
		c.lastErr = refreshErr
		c.mu.Unlock()
	}

	return nil
}

// RefreshBookings re-fetches the user's booking list from the store. The
// local list is never mutated in place; server truth replaces it wholesale.
func (c *Controller) RefreshBookings(ctx context.Context) error {
	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()

	list, err := c.desc.ListBookings(ctx, f)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.bookings = list
	c.mu.Unlock()

	return nil
}

func (c *Controller) validateLocked() error {
	if c.draft.ResourceRef == "" {
		return fmt.Errorf("%w: resource is required", entity.ErrValidation)
	}

	if c.draft.Date.IsZero() {
		return fmt.Errorf("%w: booking date is required", entity.ErrValidation)
	}

	if c.draft.Details == "" && !c.desc.DetailsOptional {
		return fmt.Errorf("%w: details are required", entity.ErrValidation)
	}

	if c.desc.NeedsFloor && c.draft.FloorNumber == 0 {
		return fmt.Errorf("%w: floor is required", entity.ErrValidation)
	}

	return nil
}

func (c *Controller) Resources() []entity.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]entity.Resource(nil), c.resources...)
}

func (c *Controller) Bookings() []entity.Booking {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]entity.Booking(nil), c.bookings...)
}

func (c *Controller) Draft() entity.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.draft
}

func (c *Controller) EditingID() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.editingID
}

func (c *Controller) AvailabilityHint() Hint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hint
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// LastError is the retrievable error state of the form: the most recent load,
// submit, cancel or refresh failure, or nil after a clean operation.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}
