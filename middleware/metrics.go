package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(route, method string, code int, d time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument is a mux middleware that reports each request under its route
// template so ids do not explode label cardinality.
func Instrument(obs RequestObserver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			obs.ObserveRequest(route, r.Method, rec.status, time.Since(start))
		})
	}
}
