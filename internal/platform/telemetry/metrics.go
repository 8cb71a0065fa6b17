// Package telemetry provides Prometheus metric collection and exposure.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metric collection interface used by the service layer.
type Recorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
	RecordAccessRequest(outcome string)
	RecordDonation()
	RecordBloodRequestPosted(bloodGroup string)
	RecordBloodRequestResponse()
	RecordDirectorySearch()
}

// Collector collects Prometheus metrics for the service.
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	accessRequests  *prometheus.CounterVec
	donations       prometheus.Counter
	requestsPosted  *prometheus.CounterVec
	responses       prometheus.Counter
	searches        prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_http_requests_total",
			Help: "HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodlink_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		accessRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_access_requests_total",
			Help: "Contact access requests by outcome (requested, approved, ignored)",
		}, []string{"outcome"}),
		donations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_donations_recorded_total",
			Help: "Donations recorded by donors",
		}),
		requestsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_blood_requests_posted_total",
			Help: "Blood requests posted to the board by blood group",
		}, []string{"blood_group"}),
		responses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_blood_request_responses_total",
			Help: "Donor responses to blood requests",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_directory_searches_total",
			Help: "Donor directory searches",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.accessRequests,
		c.donations,
		c.requestsPosted,
		c.responses,
		c.searches,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (c *Collector) RecordAccessRequest(outcome string) {
	c.accessRequests.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordDonation() {
	c.donations.Inc()
}

func (c *Collector) RecordBloodRequestPosted(bloodGroup string) {
	c.requestsPosted.WithLabelValues(bloodGroup).Inc()
}

func (c *Collector) RecordBloodRequestResponse() {
	c.responses.Inc()
}

func (c *Collector) RecordDirectorySearch() {
	c.searches.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// HTTPMetrics returns echo middleware that records request counts and latency.
// The route pattern is used as the path label so metric cardinality stays bounded.
func HTTPMetrics(rec Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			rec.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start))
			return err
		}
	}
}
