package middleware

import (
	"net/http"
	"time"
)

// OtherRoute labels requests to paths that are not registered routes.
const OtherRoute = "other"

// Observer receives request measurements.
type Observer interface {
	ObserveHTTP(method, path string, status int, duration time.Duration)
	InFlight(delta int)
}

// Metrics reports request counts, latency and concurrency.
type Metrics struct {
	observer Observer
	routes   map[string]struct{}
}

// NewMetrics labels requests with their path when it is one of routes and
// with OtherRoute otherwise, so label cardinality stays bounded.
func NewMetrics(observer Observer, routes ...string) *Metrics {
	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route] = struct{}{}
	}
	return &Metrics{observer: observer, routes: known}
}

func (m *Metrics) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.observer.InFlight(1)
		defer m.observer.InFlight(-1)

		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		m.observer.ObserveHTTP(methodLabel(r.Method), m.routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

func (m *Metrics) routeLabel(path string) string {
	if _, ok := m.routes[path]; ok {
		return path
	}
	return OtherRoute
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "OTHER"
}
