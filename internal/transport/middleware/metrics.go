package middleware

import (
	"net/http"
	"strconv"
	"time"
)

type httpObserver interface {
	ObserveHTTP(method, route, status string, d time.Duration)
}

// Metrics records request count and latency under a fixed route label.
// route should be the registered pattern, never the raw path.
func Metrics(obs httpObserver, route string) Middleware {
	return func(next http.Handler) http.Handler {
		if obs == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			obs.ObserveHTTP(r.Method, route, strconv.Itoa(sw.status), time.Since(start))
		})
	}
}
