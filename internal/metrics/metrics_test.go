package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_AuthAttempt(t *testing.T) {
	m := New()

	m.AuthAttempt("login", "success")
	m.AuthAttempt("login", "success")
	m.AuthAttempt("login", "rejected")

	assert.Equal(t, 2.0, promtest.ToFloat64(m.AuthAttempts.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.AuthAttempts.WithLabelValues("login", "rejected")))
}

func TestMetrics_ObserveHTTP(t *testing.T) {
	m := New()

	m.ObserveHTTP(http.MethodPost, "/graphql", http.StatusOK, 20*time.Millisecond)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/graphql", "200")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.HTTPDuration))
}

func TestMetrics_InFlight(t *testing.T) {
	m := New()

	m.InFlight(1)
	m.InFlight(1)
	m.InFlight(-1)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.RequestsInFlight))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.AuthAttempt("register", "success")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `roleauth_auth_attempts_total{operation="register",outcome="success"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
