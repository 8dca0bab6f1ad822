package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridhambansal/office-booking/internal/clients/authapi"
	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/service"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/internal/workflow"
)

type Service interface {
	Register(ctx context.Context, req authapi.RegisterRequest) (session.Session, string, error)
	Login(ctx context.Context, email, password string) (session.Session, string, error)
	Logout(ctx context.Context, sess session.Session) error

	Floors(ctx context.Context, sess session.Session) ([]entity.Floor, error)
	Participants(ctx context.Context, sess session.Session) ([]entity.User, error)
	Resources(ctx context.Context, sess session.Session, domain entity.Domain, floor int) ([]entity.Resource, error)

	Bookings(ctx context.Context, sess session.Session, domain entity.Domain) ([]entity.Booking, error)
	CheckAvailability(ctx context.Context, sess session.Session, domain entity.Domain, ref string, at time.Time) (bool, error)
	CreateBooking(ctx context.Context, sess session.Session, domain entity.Domain, in service.BookingInput) (workflow.Result, error)
	UpdateBooking(ctx context.Context, sess session.Session, domain entity.Domain, id int, in service.BookingInput) (workflow.Result, error)
	CancelBooking(ctx context.Context, sess session.Session, domain entity.Domain, id int) error

	UnreadNotifications(ctx context.Context, sess session.Session) ([]entity.Notification, error)
	UnreadCount(ctx context.Context, sess session.Session) (int, error)
	MarkNotificationRead(ctx context.Context, sess session.Session, notificationID int) error
}

type Handler struct {
	s Service
}

func NewHandler(s Service) *Handler {
	return &Handler{s: s}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	SendJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type RegisterRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email_id"`
	Password      string `json:"password"`
	Company       string `json:"company"`
	AccessLevelID int    `json:"access_level_id"`
}

type AuthResponse struct {
	UserID      int    `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email_id"`
	Company     string `json:"company"`
	AccessLevel int    `json:"access_level"`
	Token       string `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		SendError(ctx, w, fmt.Errorf("%w: name, email and password are required", entity.ErrValidation))
		return
	}

	sess, token, err := h.s.Register(ctx, authapi.RegisterRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		Company:       req.Company,
		AccessLevelID: req.AccessLevelID,
	})
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusCreated, authResponse(sess, token))
}

type LoginRequest struct {
	Email    string `json:"email_id"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		SendError(ctx, w, fmt.Errorf("%w: email and password are required", entity.ErrValidation))
		return
	}

	sess, token, err := h.s.Login(ctx, req.Email, req.Password)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, authResponse(sess, token))
}

func authResponse(sess session.Session, token string) AuthResponse {
	return AuthResponse{
		UserID:      sess.User.ID,
		FirstName:   sess.User.FirstName,
		LastName:    sess.User.LastName,
		Email:       sess.User.Email,
		Company:     sess.User.Company,
		AccessLevel: sess.User.AccessLevel,
		Token:       token,
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if err := h.s.Logout(ctx, sess); err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) Floors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	floors, err := h.s.Floors(ctx, sess)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, floors)
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	users, err := h.s.Participants(ctx, sess)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, users)
}

// Resources answers the room, seat and cafe catalogues. Seats require the
// floor query parameter; rooms accept it as an optional filter.
func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	domain, err := domainFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	floor := 0

	if v := r.URL.Query().Get("floor"); v != "" {
		floor, err = strconv.Atoi(v)
		if err != nil {
			SendError(ctx, w, fmt.Errorf("%w: floor must be a number", entity.ErrValidation))
			return
		}
	}

	resources, err := h.s.Resources(ctx, sess, domain, floor)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if resources == nil {
		resources = []entity.Resource{}
	}

	SendJSON(ctx, w, http.StatusOK, resources)
}

func (h *Handler) Bookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	domain, err := domainFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	list, err := h.s.Bookings(ctx, sess, domain)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if list == nil {
		list = []entity.Booking{}
	}

	SendJSON(ctx, w, http.StatusOK, list)
}

type BookingRequest struct {
	ResourceRef  string `json:"resource_ref"`
	FloorNumber  int    `json:"floor_number,omitempty"`
	BookingDate  string `json:"booking_date"`
	Details      string `json:"details"`
	Participants []int  `json:"participants,omitempty"`
}

type BookingResponse struct {
	BookingID int    `json:"booking_id"`
	Status    string `json:"status"`
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, domain, in, err := h.bookingInput(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	res, err := h.s.CreateBooking(ctx, sess, domain, in)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusCreated, BookingResponse{BookingID: res.BookingID, Status: res.Status})
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := idFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	sess, domain, in, err := h.bookingInput(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	res, err := h.s.UpdateBooking(ctx, sess, domain, id, in)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, BookingResponse{BookingID: res.BookingID, Status: res.Status})
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	domain, err := domainFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	id, err := idFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if err := h.s.CancelBooking(ctx, sess, domain, id); err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) bookingInput(r *http.Request) (session.Session, entity.Domain, service.BookingInput, error) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		return session.Session{}, "", service.BookingInput{}, err
	}

	domain, err := domainFromURL(r)
	if err != nil {
		return session.Session{}, "", service.BookingInput{}, err
	}

	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return session.Session{}, "", service.BookingInput{}, fmt.Errorf("%w: invalid request body", entity.ErrValidation)
	}

	in := service.BookingInput{
		ResourceRef:  req.ResourceRef,
		FloorNumber:  req.FloorNumber,
		Details:      req.Details,
		Participants: req.Participants,
	}

	if req.BookingDate != "" {
		in.Date, err = entity.ParseBookingDate(req.BookingDate)
		if err != nil {
			return session.Session{}, "", service.BookingInput{}, err
		}
	}

	return sess, domain, in, nil
}

type AvailabilityRequest struct {
	ResourceRef string `json:"resource_ref"`
	BookingDate string `json:"booking_date"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// CheckAvailability probes the store. The result is advisory: the submit-time
// answer always wins over whatever this said.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	domain, err := domainFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "invalid request body")
		return
	}

	if req.ResourceRef == "" || req.BookingDate == "" {
		SendError(ctx, w, fmt.Errorf("%w: resource and date are required", entity.ErrValidation))
		return
	}

	at, err := entity.ParseBookingDate(req.BookingDate)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	available, err := h.s.CheckAvailability(ctx, sess, domain, req.ResourceRef, at)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, AvailabilityResponse{Available: available})
}

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	list, err := h.s.UnreadNotifications(ctx, sess)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if list == nil {
		list = []entity.Notification{}
	}

	SendJSON(ctx, w, http.StatusOK, list)
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

func (h *Handler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	count, err := h.s.UnreadCount(ctx, sess)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, UnreadCountResponse{Count: count})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := sessionFromCtx(ctx)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	id, err := idFromURL(r)
	if err != nil {
		SendError(ctx, w, err)
		return
	}

	if err := h.s.MarkNotificationRead(ctx, sess, id); err != nil {
		SendError(ctx, w, err)
		return
	}

	SendJSON(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}

func domainFromURL(r *http.Request) (entity.Domain, error) {
	switch chi.URLParam(r, "domain") {
	case "rooms":
		return entity.DomainRoom, nil
	case "seats":
		return entity.DomainSeat, nil
	case "cafes":
		return entity.DomainCafe, nil
	case "events":
		return entity.DomainEvent, nil
	default:
		return "", fmt.Errorf("%w: unknown booking domain", entity.ErrValidation)
	}
}

func idFromURL(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive number", entity.ErrValidation)
	}

	return id, nil
}
