package api

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/pkg/logger"
)

var skipLogging = map[string]struct{}{
	"/api/health": {},
}

type SessionService interface {
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

type Middleware struct {
	sessions SessionService
}

func NewMiddleware(sessions SessionService) *Middleware {
	return &Middleware{sessions: sessions}
}

func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx = logger.WithRequestID(ctx, requestID)
		w.Header().Set("X-Request-Id", requestID)

		if _, ok := skipLogging[r.URL.Path]; !ok {
			slog.InfoContext(ctx, "incoming request", "method", r.Method, "url", r.URL.Redacted())
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if err := recover(); err != nil {
				slog.ErrorContext(ctx, "recovered from panic", "error", err, "stack", string(debug.Stack()))
				SendJSON(ctx, w, http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionAuth resolves the bearer token to a session and puts the user on the
// context. No token, an invalid token and an expired session all answer 401.
func (m *Middleware) SessionAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			SendError(ctx, w, entity.ErrUnauthenticated)
			return
		}

		sess, err := m.sessions.Authenticate(ctx, token)
		if err != nil {
			SendError(ctx, w, err)
			return
		}

		ctx = entity.CtxWithUser(ctx, sess.User)
		ctx = ctxWithSession(ctx, sess)
		ctx = logger.WithUserID(ctx, sess.User.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type sessionCtxKey struct{}

func ctxWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sess)
}

func sessionFromCtx(ctx context.Context) (session.Session, error) {
	sess, ok := ctx.Value(sessionCtxKey{}).(session.Session)
	if !ok {
		return session.Session{}, entity.ErrUnauthenticated
	}

	return sess, nil
}
