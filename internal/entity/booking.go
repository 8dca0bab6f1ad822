package entity

import (
	"strings"
	"time"
)

type Domain string

const (
	DomainRoom  Domain = "room"
	DomainSeat  Domain = "seat"
	DomainCafe  Domain = "cafe"
	DomainEvent Domain = "event"
)

type Booking struct {
	ID           int       `json:"booking_id"`
	Domain       Domain    `json:"domain"`
	ResourceRef  string    `json:"resource_ref"`
	FloorNumber  int       `json:"floor_number,omitempty"`
	UserID       int       `json:"user_id"`
	Date         time.Time `json:"booking_date"`
	Details      string    `json:"details"`
	Participants []int     `json:"participants,omitempty"`
}

// Draft is the in-form state of a booking before it is submitted. The owner is
// deliberately absent: the session user id is attached at submit time and a
// client-editable owner field is never trusted.
type Draft struct {
	ResourceRef  string
	FloorNumber  int
	Date         time.Time
	Details      string
	Participants []int
}

func (d Draft) Empty() bool {
	return d.ResourceRef == "" && d.Date.IsZero() && d.Details == "" && len(d.Participants) == 0
}

type Event struct {
	ID          int       `json:"event_id"`
	Name        string    `json:"event_name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatorID   int       `json:"creator_id"`
}

const inputDateLayout = "2006-01-02T15:04"

// ParseBookingDate accepts the datetime-local shape the forms produce as well
// as full RFC 3339 instants. Values without an explicit zone are read as UTC.
func ParseBookingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(inputDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return t.UTC(), nil
}

// WireDate is the single canonical serialization used on every outgoing
// request. Display formatting is local-only and never fed back into requests.
func WireDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
