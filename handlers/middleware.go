package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	apperrors "noto/errors"
	"noto/models"
	"noto/utils"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFromContext returns the session RequireAuth stored on the request.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionKey).(models.Session)
	return session, ok
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified session on the request context.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := utils.BearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		session, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(utils.GetIP(r)) {
			w.Header().Set("Retry-After", "1")
			s.writeError(w, r, apperrors.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// realIP applies chi's RealIP only when the socket peer is a trusted proxy.
// Other requests keep RemoteAddr, forwarding headers included or not.
func (s *Server) realIP(next http.Handler) http.Handler {
	if len(s.proxies) == 0 {
		return next
	}
	viaProxy := middleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.IsTrustedPeer(r, s.proxies) {
			viaProxy.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.WithField("request_id", middleware.GetReqID(r.Context())).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", utils.GetIP(r),
			"user_agent", utils.GetUserAgent(r),
		)
	})
}
