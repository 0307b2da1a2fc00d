// Package metrics exposes Prometheus metrics for the metro router.
// A nil *Collector is valid and records nothing, so metrics can be switched
// off without touching callers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/metro-router/internal/domain"
)

// Route query outcomes used as the "outcome" label.
const (
	OutcomeFound          = "found"
	OutcomeSameStation    = "same_station"
	OutcomeUnknownStation = "unknown_station"
	OutcomeNoRoute        = "no_route"
	OutcomeUnavailable    = "unavailable"
	OutcomeError          = "error"
)

// Collector holds every metric on its own registry. Using a private registry
// instead of the global default lets tests build as many collectors as they
// need without duplicate-registration panics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	routeQueries   *prometheus.CounterVec
	searchDuration prometheus.Histogram

	graphRebuilds *prometheus.CounterVec
	graphNodes    prometheus.Gauge
	graphEdges    *prometheus.GaugeVec
	graphVersion  prometheus.Gauge
}

// New creates a Collector whose metric names are prefixed with namespace.
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		routeQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_queries_total",
			Help:      "Route queries by outcome.",
		}, []string{"outcome"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_search_duration_seconds",
			Help:      "Time spent in route search.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		}),
		graphRebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_rebuilds_total",
			Help:      "Network graph rebuilds by result.",
		}, []string{"result"}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the published network graph.",
		}),
		graphEdges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edge_pairs",
			Help:      "Bidirectional edge pairs in the published network graph.",
		}, []string{"kind"}),
		graphVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_version",
			Help:      "Version of the published network graph.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests, c.httpDuration,
		c.routeQueries, c.searchDuration,
		c.graphRebuilds, c.graphNodes, c.graphEdges, c.graphVersion,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveRouteQuery records a route query outcome and, when a search ran
// (d > 0), how long it took.
func (c *Collector) ObserveRouteQuery(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.routeQueries.WithLabelValues(outcome).Inc()
	if d > 0 {
		c.searchDuration.Observe(d.Seconds())
	}
}

// ObserveRebuild records a successful rebuild and the shape of the new graph.
func (c *Collector) ObserveRebuild(stats domain.NetworkStats, version uint64) {
	if c == nil {
		return
	}
	c.graphRebuilds.WithLabelValues("ok").Inc()
	c.graphNodes.Set(float64(stats.Nodes))
	c.graphEdges.WithLabelValues("ride").Set(float64(stats.RideEdgePairs))
	c.graphEdges.WithLabelValues("transfer").Set(float64(stats.TransferEdgePairs))
	c.graphVersion.Set(float64(version))
}

// ObserveRebuildFailure records a rejected rebuild.
func (c *Collector) ObserveRebuildFailure() {
	if c == nil {
		return
	}
	c.graphRebuilds.WithLabelValues("error").Inc()
}
