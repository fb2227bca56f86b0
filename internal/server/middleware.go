package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"propertypulse/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyUser contextKey = "user"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth decodes the session cookie, loads the user, and adds it to
// the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.CookieName)
		if err != nil {
			s.respond(w, http.StatusUnauthorized, "authentication required", nil)
			return
		}

		var userID string
		if err := s.cookie.Decode(s.config.CookieName, cookie.Value, &userID); err != nil {
			s.logger.WithError(err).Debug("failed to decode session cookie")
			s.respond(w, http.StatusUnauthorized, "invalid session", nil)
			return
		}

		user, err := s.profile.Profile(r.Context(), userID)
		if err != nil {
			s.respond(w, http.StatusUnauthorized, "invalid session", nil)
			return
		}

		if !user.IsActive {
			s.respond(w, http.StatusUnauthorized, "account is deactivated", nil)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.userFromContext(r.Context())
		if err != nil || user.Role != types.RoleAdmin {
			s.respond(w, http.StatusForbidden, "admin access required", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) userFromContext(ctx context.Context) (*types.User, error) {
	user, ok := ctx.Value(contextKeyUser).(*types.User)
	if !ok {
		return nil, types.NewForbidden("no authenticated user in context")
	}
	return user, nil
}
