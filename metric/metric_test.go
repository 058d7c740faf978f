package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestGenericServer(t *testing.T) {
	m := NewGenericServer()
	m.Sessions.Add(1)
	m.Sessions.Add(1)
	m.Sessions.Add(-1)
	m.Requests.Add(3)
	m.Bytes.Add(24)

	assert.Equal(t, m.SessionsValue(), float64(1))
	assert.Equal(t, m.RequestsValue(), float64(3))
	assert.Equal(t, m.BytesValue(), float64(24))
}

func TestGenericClient(t *testing.T) {
	m := NewGenericClient()
	for i := 0; i < 10; i++ {
		m.RoundTrip.Observe((time.Millisecond).Seconds())
		m.RoundTrips.Add(1)
	}
	assert.Equal(t, m.RoundTripsValue(), float64(10))
	q := m.RoundTripQuantile(0.5)
	assert.Assert(t, q > 900*time.Microsecond && q < 1100*time.Microsecond, "got %v", q)
}

func TestTee(t *testing.T) {
	a, b := NewGenericServer(), NewGenericServer()
	m := Tee(a.ServerMetrics, b.ServerMetrics)
	m.Requests.Add(2)
	m.Sessions.Set(4)
	assert.Equal(t, a.RequestsValue(), float64(2))
	assert.Equal(t, b.RequestsValue(), float64(2))
	assert.Equal(t, b.SessionsValue(), float64(4))
}

func TestDiscard(t *testing.T) {
	s := NewDiscardServer()
	s.Requests.Add(1)
	s.Sessions.Set(2)
	c := NewDiscardClient()
	c.RoundTrip.Observe(1)
}

func TestPrometheusHandler(t *testing.T) {
	s := NewPrometheusServer()
	s.Requests.Add(3)
	s.Bytes.Add(48)
	s.Sessions.Set(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	assert.NilError(t, err)

	out := string(body)
	assert.Assert(t, strings.Contains(out, "latsweep_server_requests_total 3"), out)
	assert.Assert(t, strings.Contains(out, "latsweep_server_request_bytes_total 48"), out)
	assert.Assert(t, strings.Contains(out, "latsweep_server_sessions 2"), out)
}
