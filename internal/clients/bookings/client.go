// Package bookings drives every mutation against the remote booking store.
// The store is the single source of truth: availability answers are advisory,
// conflict rejection happens at submit time, and nothing here is retried
// automatically — a retry is always a fresh user gesture.
package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/pkg/transport"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport.NewRequestIDRoundTripper(http.DefaultTransport),
		},
	}
}

// CreateResult mirrors the store's response keys verbatim, capital letters,
// space and all.
type CreateResult struct {
	BookingID int    `json:"Booking ID"`
	Status    string `json:"Status"`
}

type AvailabilityRequest struct {
	CafeName    string `json:"cafe_name"`
	BookingDate string `json:"booking_date"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

func (c *Client) CheckCafeAvailability(ctx context.Context, cafeName string, at time.Time) (bool, error) {
	var out AvailabilityResponse

	err := c.do(ctx, http.MethodPost, "/cafeteria-booking/availability", AvailabilityRequest{
		CafeName:    cafeName,
		BookingDate: entity.WireDate(at),
	}, &out)
	if err != nil {
		return false, fmt.Errorf("check cafe availability: %w", err)
	}

	return out.Available, nil
}

type BookRoomRequest struct {
	UserID       int    `json:"user_id"`
	RoomID       int    `json:"room_id"`
	BookingDate  string `json:"booking_date"`
	Details      string `json:"details"`
	Participants []int  `json:"participants"`
}

func (c *Client) BookRoom(ctx context.Context, b entity.Booking) (CreateResult, error) {
	roomID, err := strconv.Atoi(b.ResourceRef)
	if err != nil {
		return CreateResult{}, fmt.Errorf("room ref %q: %w", b.ResourceRef, entity.ErrValidation)
	}

	var out CreateResult

	err = c.do(ctx, http.MethodPost, "/meeting-rooms/book", BookRoomRequest{
		UserID:       b.UserID,
		RoomID:       roomID,
		BookingDate:  entity.WireDate(b.Date),
		Details:      b.Details,
		Participants: b.Participants,
	}, &out)
	if err != nil {
		return CreateResult{}, fmt.Errorf("book meeting room: %w", err)
	}

	return out, nil
}

type BookSeatRequest struct {
	UserID      int    `json:"user_id"`
	SeatNumber  string `json:"seat_number"`
	FloorNumber int    `json:"floor_number"`
	BookingDate string `json:"booking_date"`
	Details     string `json:"details"`
}

func (c *Client) BookSeat(ctx context.Context, b entity.Booking) (CreateResult, error) {
	var out CreateResult

	err := c.do(ctx, http.MethodPost, "/seat-bookings", BookSeatRequest{
		UserID:      b.UserID,
		SeatNumber:  b.ResourceRef,
		FloorNumber: b.FloorNumber,
		BookingDate: entity.WireDate(b.Date),
		Details:     b.Details,
	}, &out)
	if err != nil {
		return CreateResult{}, fmt.Errorf("book seat: %w", err)
	}

	return out, nil
}

type BookCafeRequest struct {
	UserID      int    `json:"user_id"`
	CafeName    string `json:"cafe_name"`
	BookingDate string `json:"booking_date"`
	Details     string `json:"details"`
}

func (c *Client) BookCafe(ctx context.Context, b entity.Booking) (CreateResult, error) {
	var out CreateResult

	err := c.do(ctx, http.MethodPost, "/cafeteria-booking", BookCafeRequest{
		UserID:      b.UserID,
		CafeName:    b.ResourceRef,
		BookingDate: entity.WireDate(b.Date),
		Details:     b.Details,
	}, &out)
	if err != nil {
		return CreateResult{}, fmt.Errorf("book cafe: %w", err)
	}

	return out, nil
}

type UpdateBookingRequest struct {
	UserID      int    `json:"user_id"`
	BookingDate string `json:"booking_date"`
	Details     string `json:"details"`
}

func (c *Client) UpdateSeatBooking(ctx context.Context, id int, b entity.Booking) error {
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/seat-bookings/%d", id), UpdateBookingRequest{
		UserID:      b.UserID,
		BookingDate: entity.WireDate(b.Date),
		Details:     b.Details,
	}, nil)
	if err != nil {
		return fmt.Errorf("update seat booking %d: %w", id, err)
	}

	return nil
}

func (c *Client) UpdateCafeBooking(ctx context.Context, id int, b entity.Booking) error {
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/cafeteria-booking/%d", id), UpdateBookingRequest{
		UserID:      b.UserID,
		BookingDate: entity.WireDate(b.Date),
		Details:     b.Details,
	}, nil)
	if err != nil {
		return fmt.Errorf("update cafe booking %d: %w", id, err)
	}

	return nil
}

func (c *Client) CancelRoomBooking(ctx context.Context, id int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/meeting-rooms/bookings/%d", id), nil, nil)
	if err != nil {
		return fmt.Errorf("cancel room booking %d: %w", id, err)
	}

	return nil
}

func (c *Client) CancelSeatBooking(ctx context.Context, id int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/seat-bookings/%d", id), nil, nil)
	if err != nil {
		return fmt.Errorf("cancel seat booking %d: %w", id, err)
	}

	return nil
}

type CancelCafeRequest struct {
	UserID int `json:"user_id"`
}

func (c *Client) CancelCafeBooking(ctx context.Context, id, userID int) error {
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cafeteria-booking/%d", id), CancelCafeRequest{UserID: userID}, nil)
	if err != nil {
		return fmt.Errorf("cancel cafe booking %d: %w", id, err)
	}

	return nil
}

type roomBookingRecord struct {
	BookingID    int    `json:"booking_id"`
	RoomID       int    `json:"room_id"`
	RoomName     string `json:"room_name"`
	FloorNumber  int    `json:"floor_number"`
	UserID       int    `json:"user_id"`
	BookingDate  string `json:"booking_date"`
	Details      string `json:"details"`
	Participants []int  `json:"participants"`
}

func (c *Client) RoomBookings(ctx context.Context, userID int, date time.Time) ([]entity.Booking, error) {
	path := "/meeting-rooms/bookings?userId=" + strconv.Itoa(userID)
	if !date.IsZero() {
		path += "&date=" + date.UTC().Format("2006-01-02")
	}

	var records []roomBookingRecord

	err := c.do(ctx, http.MethodGet, path, nil, &records)
	if err != nil {
		return nil, fmt.Errorf("list room bookings: %w", err)
	}

	out := make([]entity.Booking, 0, len(records))

	for _, r := range records {
		date, err := entity.ParseBookingDate(r.BookingDate)
		if err != nil {
			return nil, fmt.Errorf("booking %d date %q: %w", r.BookingID, r.BookingDate, err)
		}

		out = append(out, entity.Booking{
			ID:           r.BookingID,
			Domain:       entity.DomainRoom,
			ResourceRef:  strconv.Itoa(r.RoomID),
			FloorNumber:  r.FloorNumber,
			UserID:       r.UserID,
			Date:         date,
			Details:      r.Details,
			Participants: r.Participants,
		})
	}

	return out, nil
}

type seatBookingRecord struct {
	BookingID   int    `json:"booking_id"`
	SeatNumber  string `json:"seat_number"`
	FloorNumber int    `json:"floor_number"`
	UserID      int    `json:"user_id"`
	BookingDate string `json:"booking_date"`
	Details     string `json:"details"`
}

func (c *Client) SeatBookings(ctx context.Context, userID int) ([]entity.Booking, error) {
	var records []seatBookingRecord

	err := c.do(ctx, http.MethodGet, "/seat-bookings?userId="+strconv.Itoa(userID), nil, &records)
	if err != nil {
		return nil, fmt.Errorf("list seat bookings: %w", err)
	}

	out := make([]entity.Booking, 0, len(records))

	for _, r := range records {
		date, err := entity.ParseBookingDate(r.BookingDate)
		if err != nil {
			return nil, fmt.Errorf("booking %d date %q: %w", r.BookingID, r.BookingDate, err)
		}

		out = append(out, entity.Booking{
			ID:          r.BookingID,
			Domain:      entity.DomainSeat,
			ResourceRef: r.SeatNumber,
			FloorNumber: r.FloorNumber,
			UserID:      r.UserID,
			Date:        date,
			Details:     r.Details,
		})
	}

	return out, nil
}

type cafeBookingRecord struct {
	BookingID   int    `json:"booking_id"`
	CafeName    string `json:"cafe_name"`
	UserID      int    `json:"user_id"`
	BookingDate string `json:"booking_date"`
	Details     string `json:"details"`
}

func (c *Client) CafeBookings(ctx context.Context, userID int) ([]entity.Booking, error) {
	var records []cafeBookingRecord

	err := c.do(ctx, http.MethodGet, "/cafeteria-booking?userId="+strconv.Itoa(userID), nil, &records)
	if err != nil {
		return nil, fmt.Errorf("list cafe bookings: %w", err)
	}

	out := make([]entity.Booking, 0, len(records))

	for _, r := range records {
		date, err := entity.ParseBookingDate(r.BookingDate)
		if err != nil {
			return nil, fmt.Errorf("booking %d date %q: %w", r.BookingID, r.BookingDate, err)
		}

		out = append(out, entity.Booking{
			ID:          r.BookingID,
			Domain:      entity.DomainCafe,
			ResourceRef: r.CafeName,
			UserID:      r.UserID,
			Date:        date,
			Details:     r.Details,
		})
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	return c.doWithHeaders(ctx, method, path, payload, out, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, payload, out any, headers map[string]string) error {
	var reqBody io.Reader

	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := entity.TokenFromCtx(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.ErrNotFound
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		var e struct {
			Message string `json:"message"`
		}

		_ = json.Unmarshal(body, &e)

		return &entity.StoreError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
