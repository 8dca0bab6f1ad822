// Package directory reads the bookable-resource catalogue: rooms, floors,
// seats, cafes and the user list for the participant picker. Everything here
// is a read-only GET, so transport-level failures are retried; the booking
// store client deliberately never retries.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ridhambansal/office-booking/internal/entity"
)

const defaultRetryWaitMax = time.Second * 5

type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration, retryAttempts int) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = timeout

	retryClient.Logger = nil

	// Only transport errors are retried. A non-2xx answer is a real answer.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: baseURL,
	}
}

func (c *Client) Rooms(ctx context.Context) ([]entity.Room, error) {
	var rooms []entity.Room

	err := c.getJSON(ctx, "/meeting-rooms", &rooms)
	if err != nil {
		return nil, fmt.Errorf("list meeting rooms: %w", err)
	}

	return rooms, nil
}

func (c *Client) Floors(ctx context.Context) ([]entity.Floor, error) {
	var floors []entity.Floor

	err := c.getJSON(ctx, "/floors", &floors)
	if err != nil {
		return nil, fmt.Errorf("list floors: %w", err)
	}

	return floors, nil
}

func (c *Client) AvailableSeats(ctx context.Context, floor int) ([]entity.Seat, error) {
	var seats []entity.Seat

	err := c.getJSON(ctx, fmt.Sprintf("/floors/%d/seats/available", floor), &seats)
	if err != nil {
		return nil, fmt.Errorf("list available seats: %w", err)
	}

	// The endpoint is floor-scoped and some records omit the floor field.
	for i := range seats {
		seats[i].FloorNumber = floor
	}

	return seats, nil
}

func (c *Client) Cafes(ctx context.Context) ([]entity.Cafe, error) {
	var cafes []entity.Cafe

	err := c.getJSON(ctx, "/cafeteria-booking/cafes", &cafes)
	if err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}

	return cafes, nil
}

func (c *Client) Users(ctx context.Context) ([]entity.User, error) {
	var users []entity.User

	err := c.getJSON(ctx, "/users", &users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	token := entity.TokenFromCtx(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return entity.ErrNotFound
	default:
		var e struct {
			Message string `json:"message"`
		}

		_ = json.Unmarshal(body, &e)

		return &entity.StoreError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
