// Package metrics provides Prometheus metrics for type builds, resolver
// builds and document parses.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric name.
const Namespace = "schema_bridge"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Collector holds all Prometheus metrics. A nil *Collector records nothing.
type Collector struct {
	// Construction metrics
	TypeBuilds     *prometheus.CounterVec
	ResolverBuilds *prometheus.CounterVec

	// Parse metrics
	DocumentsParsed   *prometheus.CounterVec
	ParseDuration     *prometheus.HistogramVec
	DocumentsInFlight prometheus.Gauge
}

// New creates a collector registered with reg. A nil reg selects the default
// registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Collector{
		TypeBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "type_builds_total",
				Help:      "Total number of write type builds from XML Schema",
			},
			[]string{"result"},
		),
		ResolverBuilds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resolver_builds_total",
				Help:      "Total number of resolver graph builds",
			},
			[]string{"result"},
		),
		DocumentsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "documents_parsed_total",
				Help:      "Total number of parsed documents",
			},
			[]string{"result"},
		),
		ParseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "parse_duration_seconds",
				Help:      "Document parse duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"result"},
		),
		DocumentsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "documents_in_flight",
				Help:      "Number of documents currently being parsed",
			},
		),
	}
}

// Result maps an error to a result label value.
func Result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}

// ObserveTypeBuild counts one write type build.
func (c *Collector) ObserveTypeBuild(err error) {
	if c == nil {
		return
	}

	c.TypeBuilds.WithLabelValues(Result(err)).Inc()
}

// ObserveResolverBuild counts one resolver graph build.
func (c *Collector) ObserveResolverBuild(err error) {
	if c == nil {
		return
	}

	c.ResolverBuilds.WithLabelValues(Result(err)).Inc()
}

// StartParse marks a document parse as in flight. The returned function ends
// it and records its outcome.
func (c *Collector) StartParse() func(err error) {
	if c == nil {
		return func(error) {}
	}

	start := time.Now()

	c.DocumentsInFlight.Inc()

	return func(err error) {
		result := Result(err)

		c.DocumentsInFlight.Dec()
		c.DocumentsParsed.WithLabelValues(result).Inc()
		c.ParseDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
	}
}
