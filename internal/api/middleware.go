package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

type contextKey string

const userIDKey = contextKey("userID")

// requireToken resolves the X-Token header and stores the user id in the
// request context. Missing, unknown and expired tokens all fail uniformly.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		userID, err := s.tokens.Resolve(r.Context(), token)
		if err != nil {
			s.log.Error("resolve token", "error", err)
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		if userID == "" {
			respondError(w, http.StatusUnauthorized, errUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
