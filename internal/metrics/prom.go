package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives simulation and HTTP events.
type Recorder interface {
	RecordSimulation(mode string, eolReached bool, yearsToEOL int)
	RecordFailure(reason string)
	RecordRequest(method, route string, status int, elapsed time.Duration)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) RecordSimulation(string, bool, int)               {}
func (NopRecorder) RecordFailure(string)                             {}
func (NopRecorder) RecordRequest(string, string, int, time.Duration) {}

// PromRecorder records events in Prometheus collectors.
type PromRecorder struct {
	gatherer    prometheus.Gatherer
	simulations *prometheus.CounterVec
	failures    *prometheus.CounterVec
	yearsToEOL  prometheus.Histogram
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPromRecorder registers collectors on reg. If reg is nil the default
// registry is used. Collectors that are already registered are reused.
func NewPromRecorder(reg *prometheus.Registry) (*PromRecorder, error) {
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	simulations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bess_simulations_total",
		Help: "Completed lifetime simulations",
	}, []string{"mode", "eol_reached"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bess_simulation_failures_total",
		Help: "Rejected or failed simulations",
	}, []string{"reason"})
	yearsToEOL := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bess_years_to_eol",
		Help:    "Years until the EOL threshold was crossed",
		Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 20, 30, 50, 100},
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bess_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bess_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	var err error
	if simulations, err = register(registerer, simulations); err != nil {
		return nil, err
	}
	if failures, err = register(registerer, failures); err != nil {
		return nil, err
	}
	if yearsToEOL, err = register(registerer, yearsToEOL); err != nil {
		return nil, err
	}
	if requests, err = register(registerer, requests); err != nil {
		return nil, err
	}
	if latency, err = register(registerer, latency); err != nil {
		return nil, err
	}
	return &PromRecorder{
		gatherer:    gatherer,
		simulations: simulations,
		failures:    failures,
		yearsToEOL:  yearsToEOL,
		requests:    requests,
		latency:     latency,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSimulation counts a finished run. The years histogram only observes
// runs that reached EOL.
func (r *PromRecorder) RecordSimulation(mode string, eolReached bool, yearsToEOL int) {
	r.simulations.WithLabelValues(mode, strconv.FormatBool(eolReached)).Inc()
	if eolReached {
		r.yearsToEOL.Observe(float64(yearsToEOL))
	}
}

func (r *PromRecorder) RecordFailure(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

func (r *PromRecorder) RecordRequest(method, route string, status int, elapsed time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
