package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kestrelhq/trackdeck/internal/api/response"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/security"
	"github.com/rs/zerolog/log"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *security.JWTManager
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *security.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate validates the bearer token and puts the acting identity in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(w, "invalid authorization header format")
			return
		}

		claims, err := m.jwtManager.Validate(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		actor := domain.Actor{
			ID:       claims.UserID,
			Username: claims.Username,
			IsAdmin:  claims.IsAdmin,
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests from non-admin actors. Must run after
// Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			response.Unauthorized(w, "unauthorized")
			return
		}
		if !actor.IsAdmin {
			response.Forbidden(w, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetActor gets the acting identity from context
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// loginLimiter counts attempts per key within a fixed window
type loginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LoginRateLimitMiddleware throttles login attempts per client IP
type LoginRateLimitMiddleware struct {
	limiter loginLimiter
}

// NewLoginRateLimitMiddleware creates a new login rate limit middleware
func NewLoginRateLimitMiddleware(limiter loginLimiter) *LoginRateLimitMiddleware {
	return &LoginRateLimitMiddleware{limiter: limiter}
}

// Limit caps login attempts per client IP within a fixed window. The key is
// the bare IP so reconnecting clients keep hitting the same counter. A
// failing limiter lets the request through rather than locking everyone out.
func (m *LoginRateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, err := m.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			log.Warn().Err(err).Msg("Login rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			response.Error(w, http.StatusTooManyRequests, "too many login attempts, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the ephemeral port from RemoteAddr. RealIP already
// rewrote it to the forwarded address when a proxy header was present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestIDHeader exposes the chi request ID to clients
func RequestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}
