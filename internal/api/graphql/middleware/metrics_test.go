package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeObserver struct {
	inFlight    int
	maxInFlight int
	method      string
	path        string
	status      int
}

func (f *fakeObserver) ObserveHTTP(method, path string, status int, _ time.Duration) {
	f.method, f.path, f.status = method, path, status
}

func (f *fakeObserver) InFlight(delta int) {
	f.inFlight += delta
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
}

func TestMetrics_Handle(t *testing.T) {
	t.Parallel()

	obs := &fakeObserver{}
	mw := NewMetrics(obs, "/healthz", "/graphql")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	mw.Handle(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.MethodGet, obs.method)
	assert.Equal(t, "/healthz", obs.path)
	assert.Equal(t, http.StatusTeapot, obs.status)
	assert.Equal(t, 1, obs.maxInFlight)
	assert.Equal(t, 0, obs.inFlight)
}

func TestMetrics_Handle_DefaultStatus(t *testing.T) {
	t.Parallel()

	obs := &fakeObserver{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	NewMetrics(obs).Handle(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, obs.status)
}

func TestMetrics_Handle_UnknownPathsShareOneLabel(t *testing.T) {
	t.Parallel()

	paths := map[string]int{}
	obs := &recordingObserver{paths: paths}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	h := NewMetrics(obs, "/graphql").Handle(next)

	for _, path := range []string{"/a8f3", "/wp-admin/x.php", "/graphql/extra"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PURGE", "/graphql", nil))

	assert.Equal(t, map[string]int{"GET " + OtherRoute: 3, "OTHER /graphql": 1}, paths)
}

type recordingObserver struct {
	paths map[string]int
}

func (r *recordingObserver) ObserveHTTP(method, path string, _ int, _ time.Duration) {
	r.paths[method+" "+path]++
}

func (r *recordingObserver) InFlight(int) {}
