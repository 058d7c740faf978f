// Package metric binds the server and client counters to go-kit metrics so
// the same call sites can feed the in-process UI, tests, or Prometheus.
package metric

import (
	"net/http"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/go-kit/kit/metrics/multi"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "latsweep"

type ServerMetrics struct {
	Sessions metrics.Gauge
	Requests metrics.Counter
	Bytes    metrics.Counter
}

type ClientMetrics struct {
	// RoundTrip is observed in seconds.
	RoundTrip  metrics.Histogram
	RoundTrips metrics.Counter
}

// GenericServer keeps the concrete generic types so readers such as the raw
// UI can poll current values.
type GenericServer struct {
	ServerMetrics
	sessions *generic.Gauge
	requests *generic.Counter
	bytes    *generic.Counter
}

func NewGenericServer() *GenericServer {
	g := &GenericServer{
		sessions: generic.NewGauge("sessions"),
		requests: generic.NewCounter("requests"),
		bytes:    generic.NewCounter("bytes"),
	}
	g.ServerMetrics = ServerMetrics{Sessions: g.sessions, Requests: g.requests, Bytes: g.bytes}
	return g
}

func (g *GenericServer) SessionsValue() float64 { return g.sessions.Value() }
func (g *GenericServer) RequestsValue() float64 { return g.requests.Value() }
func (g *GenericServer) BytesValue() float64    { return g.bytes.Value() }

type GenericClient struct {
	ClientMetrics
	roundTrip  *generic.Histogram
	roundTrips *generic.Counter
}

func NewGenericClient() *GenericClient {
	g := &GenericClient{
		roundTrip:  generic.NewHistogram("round_trip_seconds", 50),
		roundTrips: generic.NewCounter("round_trips"),
	}
	g.ClientMetrics = ClientMetrics{RoundTrip: g.roundTrip, RoundTrips: g.roundTrips}
	return g
}

func (g *GenericClient) RoundTripsValue() float64 { return g.roundTrips.Value() }

// RoundTripQuantile returns the q quantile of observed round trips.
func (g *GenericClient) RoundTripQuantile(q float64) time.Duration {
	return time.Duration(g.roundTrip.Quantile(q) * float64(time.Second))
}

func NewDiscardServer() ServerMetrics {
	return ServerMetrics{
		Sessions: discard.NewGauge(),
		Requests: discard.NewCounter(),
		Bytes:    discard.NewCounter(),
	}
}

func NewDiscardClient() ClientMetrics {
	return ClientMetrics{
		RoundTrip:  discard.NewHistogram(),
		RoundTrips: discard.NewCounter(),
	}
}

// NewPrometheusServer registers the server collectors with the default
// Prometheus registry. It must be called at most once per process.
func NewPrometheusServer() ServerMetrics {
	return ServerMetrics{
		Sessions: kitprometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sessions",
			Help:      "Measurement sessions currently connected.",
		}, nil),
		Requests: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Requests acknowledged.",
		}, nil),
		Bytes: kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "request_bytes_total",
			Help:      "Request bytes received.",
		}, nil),
	}
}

// Tee fans every server observation out to all of ms.
func Tee(ms ...ServerMetrics) ServerMetrics {
	var (
		gauges   []metrics.Gauge
		requests []metrics.Counter
		bytes    []metrics.Counter
	)
	for _, m := range ms {
		gauges = append(gauges, m.Sessions)
		requests = append(requests, m.Requests)
		bytes = append(bytes, m.Bytes)
	}
	return ServerMetrics{
		Sessions: multi.NewGauge(gauges...),
		Requests: multi.NewCounter(requests...),
		Bytes:    multi.NewCounter(bytes...),
	}
}

// Handler exposes the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
