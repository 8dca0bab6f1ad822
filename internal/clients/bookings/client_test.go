package bookings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ridhambansal/office-booking/internal/clients/bookings"
	"github.com/ridhambansal/office-booking/internal/entity"
)

var bookingTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBookCafe(t *testing.T) {
	t.Parallel()

	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cafeteria-booking", r.URL.Path)
		require.Equal(t, "Bearer store-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"Booking ID": 42, "Status": "confirmed"}`))
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	ctx := entity.CtxWithToken(context.Background(), "store-token")

	res, err := client.BookCafe(ctx, entity.Booking{
		UserID:      7,
		ResourceRef: "Central",
		Date:        bookingTime,
		Details:     "team lunch",
	})
	require.NoError(t, err)
	require.Equal(t, 42, res.BookingID)
	require.Equal(t, "confirmed", res.Status)

	require.Equal(t, "Central", got["cafe_name"])
	require.Equal(t, float64(7), got["user_id"])
	require.Equal(t, "2025-03-01T12:00:00Z", got["booking_date"], "the wire date is always the canonical serialization")
	require.Equal(t, "team lunch", got["details"])
}

func TestBookRoom_RefMustBeNumeric(t *testing.T) {
	t.Parallel()

	client := bookings.NewClient("http://unreachable.invalid", time.Second)

	_, err := client.BookRoom(context.Background(), entity.Booking{
		UserID:      7,
		ResourceRef: "not-a-number",
		Date:        bookingTime,
	})
	require.ErrorIs(t, err, entity.ErrValidation)
}

func TestBookSeat_ConflictSurfacesStoreMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message": "seat S2-01 is already booked for this date"}`))
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	_, err := client.BookSeat(context.Background(), entity.Booking{
		UserID:      7,
		ResourceRef: "S2-01",
		FloorNumber: 2,
		Date:        bookingTime,
		Details:     "focus day",
	})
	require.Error(t, err)

	var storeErr *entity.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, http.StatusConflict, storeErr.StatusCode)
	require.Equal(t, "seat S2-01 is already booked for this date", storeErr.Message)
}

func TestCheckCafeAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		available bool
	}{
		{name: "free slot", available: true},
		{name: "taken slot", available: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/cafeteria-booking/availability", r.URL.Path)

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				require.Equal(t, "Central", req["cafe_name"])

				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(map[string]bool{"available": tt.available}))
			}))
			defer srv.Close()

			client := bookings.NewClient(srv.URL, time.Second)

			available, err := client.CheckCafeAvailability(context.Background(), "Central", bookingTime)
			require.NoError(t, err)
			require.Equal(t, tt.available, available)
		})
	}
}

func TestUpdateCafeBooking(t *testing.T) {
	t.Parallel()

	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/cafeteria-booking/42", r.URL.Path)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	err := client.UpdateCafeBooking(context.Background(), 42, entity.Booking{
		UserID:  7,
		Date:    bookingTime.Add(time.Hour),
		Details: "moved lunch",
	})
	require.NoError(t, err)
	require.Equal(t, "2025-03-01T13:00:00Z", got["booking_date"])
	require.Equal(t, "moved lunch", got["details"])
}

func TestCancelCafeBooking(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/cafeteria-booking/42", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, float64(7), req["user_id"])

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	require.NoError(t, client.CancelCafeBooking(context.Background(), 42, 7))
}

func TestCancelSeatBooking_GoneIsNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	err := client.CancelSeatBooking(context.Background(), 42)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestRoomBookings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meeting-rooms/bookings", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("userId"))
		require.Equal(t, "2025-03-01", r.URL.Query().Get("date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"booking_id": 11, "room_id": 3, "room_name": "Boardroom", "floor_number": 2,
			 "user_id": 7, "booking_date": "2025-03-01T12:00:00Z", "details": "standup",
			 "participants": [8, 9]}
		]`))
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	list, err := client.RoomBookings(context.Background(), 7, bookingTime)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.Equal(t, 11, list[0].ID)
	require.Equal(t, entity.DomainRoom, list[0].Domain)
	require.Equal(t, "3", list[0].ResourceRef)
	require.Equal(t, 2, list[0].FloorNumber)
	require.Equal(t, bookingTime, list[0].Date)
	require.Equal(t, []int{8, 9}, list[0].Participants)
}

func TestSeatBookings_AcceptsFormDateShape(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"booking_id": 12, "seat_number": "S2-01", "floor_number": 2,
			 "user_id": 7, "booking_date": "2025-03-01T12:00", "details": "focus"}
		]`))
	}))
	defer srv.Close()

	client := bookings.NewClient(srv.URL, time.Second)

	list, err := client.SeatBookings(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, bookingTime, list[0].Date)
}
