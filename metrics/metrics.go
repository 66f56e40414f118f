// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pollbox"

// Rejection reasons
const (
	ReasonValidation = "validation"
	ReasonCapacity   = "capacity"
	ReasonCollision  = "collision"
	ReasonNotFound   = "not_found"
	ReasonRateLimit  = "rate_limit"
)

// Metrics holds the collectors for one server instance. Each instance has
// its own registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	PollsCreated  prometheus.Counter
	VotesRecorded prometheus.Counter
	Rejections    *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	SaveDuration  *prometheus.HistogramVec
}

// New registers all collectors. pollCount backs the pollbox_polls gauge and
// may be nil.
func New(pollCount func() int) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		PollsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_created_total",
			Help:      "Total number of polls created.",
		}),
		VotesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_recorded_total",
			Help:      "Total number of votes accepted.",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Poll or vote requests refused, by reason.",
		}, []string{"reason"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		SaveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_duration_seconds",
			Help:      "Time spent writing the database file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		}, []string{"result"}),
	}

	if pollCount != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "polls",
			Help:      "Number of polls currently held.",
		}, func() float64 {
			return float64(pollCount())
		})
	}

	return m
}

// Handler serves this instance's registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Reject counts one refused request under reason
func (m *Metrics) Reject(reason string) {
	m.Rejections.WithLabelValues(reason).Inc()
}

// IncRequest counts one HTTP request
func (m *Metrics) IncRequest(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveSave records how long a save took and whether it failed
func (m *Metrics) ObserveSave(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SaveDuration.WithLabelValues(result).Observe(d.Seconds())
}
