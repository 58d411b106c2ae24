package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/mseboard/internal/core"
	"github.com/JonMunkholm/mseboard/internal/logging"
	"github.com/JonMunkholm/mseboard/internal/unit"
	"github.com/go-chi/chi/v5"
)

// requestMetadata adds the client IP and User-Agent to the request context
// so the service layer can log who asked.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithIPAddress(r.Context(), clientIP(r))
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the host part of RemoteAddr, which TrustedRealIP has
// already resolved.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type scopeKey struct{}

// unitScope resolves the {unit} path parameter against the directory and
// stores it as the acting unit for the nested routes.
func (s *Server) unitScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := s.service.ParseUnit(chi.URLParam(r, "unit"))
		if err != nil {
			respondError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), scopeKey{}, u)
		ctx = logging.WithFields(ctx, "unit", u.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// scopeFrom returns the acting unit set by unitScope. Routes outside the
// scope act as the oversight unit.
func scopeFrom(ctx context.Context) (unit.Unit, bool) {
	u, ok := ctx.Value(scopeKey{}).(unit.Unit)
	if !ok {
		return unit.OMO, false
	}
	return u, true
}
