package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated registry served on /api/metrics
	Registry = prometheus.NewRegistry()

	// Custom histogram buckets tuned for request latencies from
	// milliseconds up to slow external calls
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = newGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Cache Metrics
	CacheHits = newCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = newCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = newGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size_entries",
			Help: "Number of entries held per cache",
		},
		[]string{"cache_name"},
	)

	// Storage Client Metrics (S3-compatible object storage)
	ObjectStorageRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	ObjectStorageRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Stream bridge metrics
	StreamRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stream_client_operation_duration_seconds",
			Help:    "Stream chat client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StreamRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "stream_client_operation_total",
			Help: "Total number of Stream chat client operations",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	ConnectionRequestsCreated = newCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlinq_connection_requests_created_total",
			Help: "Total number of connection requests created",
		},
		[]string{"status"},
	)

	ConnectionRequestsResolved = newCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlinq_connection_requests_resolved_total",
			Help: "Total number of connection requests accepted or rejected",
		},
		[]string{"resolution"},
	)

	ProjectionRebuilds = newCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlinq_projection_rebuilds_total",
			Help: "Total number of connections projection rebuild runs",
		},
		[]string{"status"},
	)

	AuthLogins = newCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlinq_auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"kind", "status"},
	)

	Registrations = newCounterVec(
		prometheus.CounterOpts{
			Name: "mentorlinq_registrations_total",
			Help: "Total number of registrations",
		},
		[]string{"kind", "status"},
	)

	// Infrastructure metrics
	GoroutinesCount = newGauge(prometheus.GaugeOpts{
		Name: "go_runtime_goroutines",
		Help: "Number of goroutines",
	})
)

var serviceName string

// Init stores the service name and registers runtime collectors.
// Must be called once at startup before Registry is served.
func Init(name string) {
	serviceName = name
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// ServiceName returns the configured service name
func ServiceName() string {
	return serviceName
}

// RecordInfrastructureMetrics starts a background sampler for runtime stats
func RecordInfrastructureMetrics() {
	go func() {
		for {
			GoroutinesCount.Set(float64(runtime.NumGoroutine()))
			time.Sleep(15 * time.Second)
		}
	}()
}

// MeasureDuration returns elapsed seconds since start
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func newHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	v := prometheus.NewHistogramVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

func newCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	v := prometheus.NewCounterVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

func newGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	v := prometheus.NewGaugeVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

func newGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	Registry.MustRegister(g)
	return g
}
