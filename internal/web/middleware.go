package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/basel-ax/archrender/internal/service"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request
func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			l.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type contextKey string

const sessionKey contextKey = "session"

// SessionCookie names the cookie carrying the session id
const SessionCookie = "archrender_session"

// withSession attaches the caller's session, opening one when the cookie is
// missing or refers to an unknown session.
func withSession(reg *service.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *service.Session
			if c, err := r.Cookie(SessionCookie); err == nil {
				sess, _ = reg.Get(c.Value)
			}
			if sess == nil {
				var id string
				id, sess = reg.Open()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) *service.Session {
	s, _ := ctx.Value(sessionKey).(*service.Session)
	return s
}
