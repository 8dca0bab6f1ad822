package bookings

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ridhambansal/office-booking/internal/entity"
)

type eventRecord struct {
	EventID     int    `json:"event_id"`
	EventName   string `json:"event_name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CreatorID   int    `json:"creator_id"`
}

func (c *Client) Events(ctx context.Context) ([]entity.Event, error) {
	var records []eventRecord

	err := c.do(ctx, http.MethodGet, "/events", nil, &records)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]entity.Event, 0, len(records))

	for _, r := range records {
		date, err := entity.ParseBookingDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("event %d date %q: %w", r.EventID, r.Date, err)
		}

		out = append(out, entity.Event{
			ID:          r.EventID,
			Name:        r.EventName,
			Date:        date,
			Description: r.Description,
			CreatorID:   r.CreatorID,
		})
	}

	return out, nil
}

type EventRequest struct {
	EventName   string `json:"event_name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	CreatorID   int    `json:"creator_id"`
}

type createEventResponse struct {
	EventID int `json:"event_id"`
}

func (c *Client) CreateEvent(ctx context.Context, e entity.Event) (int, error) {
	var out createEventResponse

	err := c.doAdmin(ctx, http.MethodPost, "/events", EventRequest{
		EventName:   e.Name,
		Date:        entity.WireDate(e.Date),
		Description: e.Description,
		CreatorID:   e.CreatorID,
	}, &out, e.CreatorID)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}

	return out.EventID, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int, e entity.Event) error {
	err := c.doAdmin(ctx, http.MethodPatch, fmt.Sprintf("/events/%d", id), EventRequest{
		EventName:   e.Name,
		Date:        entity.WireDate(e.Date),
		Description: e.Description,
		CreatorID:   e.CreatorID,
	}, nil, e.CreatorID)
	if err != nil {
		return fmt.Errorf("update event %d: %w", id, err)
	}

	return nil
}

func (c *Client) DeleteEvent(ctx context.Context, id, userID int) error {
	err := c.doAdmin(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), nil, nil, userID)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}

	return nil
}

// doAdmin adds the x-user-id header the store expects on admin-scoped writes.
func (c *Client) doAdmin(ctx context.Context, method, path string, payload, out any, userID int) error {
	return c.doWithHeaders(ctx, method, path, payload, out, map[string]string{
		"x-user-id": strconv.Itoa(userID),
	})
}
