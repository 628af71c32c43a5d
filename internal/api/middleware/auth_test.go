package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLoginLimiter struct {
	keys    []string
	allowed bool
	err     error
}

func (f *fakeLoginLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allowed, f.err
}

func TestLoginRateLimit_KeyedByIP(t *testing.T) {
	limiter := &fakeLoginLimiter{allowed: true}
	mw := NewLoginRateLimitMiddleware(limiter)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two connections from the same client differ only in ephemeral port
	// and must land on the same counter.
	for _, addr := range []string{"203.0.113.7:49152", "203.0.113.7:49153"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		mw.Limit(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, []string{"203.0.113.7", "203.0.113.7"}, limiter.keys)
}

func TestLoginRateLimit_Exceeded(t *testing.T) {
	limiter := &fakeLoginLimiter{allowed: false}
	mw := NewLoginRateLimitMiddleware(limiter)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:49152"
	rec := httptest.NewRecorder()
	mw.Limit(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, called)
}

func TestLoginRateLimit_LimiterFailureAllows(t *testing.T) {
	limiter := &fakeLoginLimiter{err: assert.AnError}
	mw := NewLoginRateLimitMiddleware(limiter)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = "203.0.113.7:49152"
	rec := httptest.NewRecorder()
	mw.Limit(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
