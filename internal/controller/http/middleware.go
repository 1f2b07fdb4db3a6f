package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"github.com/vadim/nested-seeder/internal/httpx/response"
)

type ctxKey int

const usernameKey ctxKey = iota

const defaultUsername = "stub"

// BearerAuth rejects requests without a bearer token.
// When expected is set the token must match it exactly; otherwise any token is accepted.
// The token's "sub" claim, if it is a JWT, becomes the author of created posts.
func BearerAuth(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Unauthorized(w, "Authentication failed")
				return
			}

			if expected != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				response.Unauthorized(w, "Invalid credentials")
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, subjectOf(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// subjectOf reads the subject of a JWT without verifying it; the stub trusts the caller
func subjectOf(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return defaultUsername
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return defaultUsername
	}
	return sub
}

// UsernameFrom returns the authenticated username stored by BearerAuth
func UsernameFrom(ctx context.Context) string {
	if u, ok := ctx.Value(usernameKey).(string); ok {
		return u
	}
	return defaultUsername
}

// RateLimit answers 429 once the limiter runs out of tokens.
// A nil limiter disables limiting.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				response.TooManyRequests(w, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
