package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ridhambansal/office-booking/internal/entity"
)

type ErrorResponse struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		code = http.StatusInternalServerError
		http.Error(w, http.StatusText(code), code)

		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	slog.ErrorContext(ctx, "api error", "error", originErr.Error())
	SendJSON(ctx, w, code, ErrorResponse{Message: msgToSend, Description: originErr.Error()})
}

// SendError maps domain errors to status codes. A StoreError carries the
// remote store's message, surfaced verbatim; everything else falls back to a
// generic message with the detail in the description.
func SendError(ctx context.Context, w http.ResponseWriter, err error) {
	var storeErr *entity.StoreError
	if errors.As(err, &storeErr) {
		code := http.StatusBadGateway
		if storeErr.StatusCode >= http.StatusBadRequest && storeErr.StatusCode < http.StatusInternalServerError {
			code = storeErr.StatusCode
		}

		SendJSONErr(ctx, w, code, err, storeErr.Error())

		return
	}

	switch {
	case errors.Is(err, entity.ErrValidation), errors.Is(err, entity.ErrInvalidDate):
		SendJSONErr(ctx, w, http.StatusBadRequest, err, err.Error())
	case errors.Is(err, entity.ErrUnauthenticated), errors.Is(err, entity.ErrSessionExpired):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "authentication required")
	case errors.Is(err, entity.ErrForbidden):
		SendJSONErr(ctx, w, http.StatusForbidden, err, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "not found")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "request failed")
	}
}
