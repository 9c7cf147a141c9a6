package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// NewRateLimitHandler returns a middleware that limits each client IP to
// requestsPerMinute (with the given burst), answering 429 once exceeded.
// Intended for the login endpoint, where it slows credential guessing.
//
// Wire it after chimiddleware.RealIP so r.RemoteAddr reflects the client
// behind a proxy.
func NewRateLimitHandler(requestsPerMinute, burst int) func(http.Handler) http.Handler {
	limiters := struct {
		sync.Mutex
		byIP map[string]*rate.Limiter
	}{byIP: make(map[string]*rate.Limiter)}

	every := rate.Every(time.Minute / time.Duration(requestsPerMinute))

	limiterFor := func(ip string) *rate.Limiter {
		limiters.Lock()
		defer limiters.Unlock()
		l, ok := limiters.byIP[ip]
		if !ok {
			l = rate.NewLimiter(every, burst)
			limiters.byIP[ip] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiterFor(ip).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				//nolint:errcheck
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "rate_limited", "message": "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
