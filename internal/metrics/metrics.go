// Package metrics exposes Prometheus metrics for the HTTP layer and the
// recipe domain.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordRecipeMutation(action string)
	RecordSubscription(action string)
	RecordMembership(kind, action string)
	RecordShoppingListExport(items int)
	RecordImport(kind string, created, existing, skipped int)
}

// Collector implements Recorder with Prometheus metrics
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	recipeMutations *prometheus.CounterVec
	subscriptions   *prometheus.CounterVec
	memberships     *prometheus.CounterVec
	exportItems     prometheus.Histogram
	imported        *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recipeMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_recipe_mutations_total",
			Help: "Recipe creates, updates and deletes",
		}, []string{"action"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_subscription_changes_total",
			Help: "Subscribe and unsubscribe operations",
		}, []string{"action"}),
		memberships: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_membership_changes_total",
			Help: "Favorite and shopping cart changes",
		}, []string{"kind", "action"}),
		exportItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of lines in exported shopping lists",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		}),
		imported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_import_rows_total",
			Help: "Reference data rows processed by imports",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.recipeMutations,
		c.subscriptions,
		c.memberships,
		c.exportItems,
		c.imported,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordRecipeMutation(action string) {
	c.recipeMutations.WithLabelValues(action).Inc()
}

func (c *Collector) RecordSubscription(action string) {
	c.subscriptions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordMembership(kind, action string) {
	c.memberships.WithLabelValues(kind, action).Inc()
}

func (c *Collector) RecordShoppingListExport(items int) {
	c.exportItems.Observe(float64(items))
}

func (c *Collector) RecordImport(kind string, created, existing, skipped int) {
	c.imported.WithLabelValues(kind, "created").Add(float64(created))
	c.imported.WithLabelValues(kind, "existing").Add(float64(existing))
	c.imported.WithLabelValues(kind, "skipped").Add(float64(skipped))
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordRecipeMutation(string)                          {}
func (Nop) RecordSubscription(string)                            {}
func (Nop) RecordMembership(string, string)                      {}
func (Nop) RecordShoppingListExport(int)                         {}
func (Nop) RecordImport(string, int, int, int)                   {}
