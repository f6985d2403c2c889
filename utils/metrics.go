package utils

import (
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SystemMetrics holds CPU and Memory usage statistics
type SystemMetrics struct {
	CPU    MetricValue `json:"cpu"`
	Memory MetricValue `json:"memory"`
}

// MetricValue represents a single metric with average value
type MetricValue struct {
	Avg float64 `json:"avg"`
}

// GetSystemMetrics returns current CPU and Memory usage metrics
func GetSystemMetrics() SystemMetrics {
	return SystemMetrics{
		CPU:    MetricValue{Avg: getCPUUsage()},
		Memory: MetricValue{Avg: getMemoryUsage()},
	}
}

// getCPUUsage estimates activity from the goroutine count
// (100 goroutines = 50% as baseline)
func getCPUUsage() float64 {
	cpuPercent := float64(runtime.NumGoroutine()) / 2.0
	if cpuPercent > 100 {
		cpuPercent = 100
	}
	return cpuPercent
}

// getMemoryUsage returns memory obtained from the OS in Megabytes (MB)
func getMemoryUsage() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Sys) / 1024.0 / 1024.0
}

// Metrics exposes Prometheus collectors for the HTTP surface and the
// session store.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sessionSaves    prometheus.Counter
	remoteFailures  *prometheus.CounterVec
	outboxDepth     prometheus.Gauge
	decayApplied    prometheus.Counter

	saves    atomic.Int64
	failures atomic.Int64
	depth    atomic.Int64
}

// MustNewMetrics registers the collectors with reg, panicking on
// registration errors other than duplicates.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "package_builder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "package_builder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		sessionSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "package_builder",
			Subsystem: "sessions",
			Name:      "saves_total",
			Help:      "Sessions written to the local store.",
		}),
		remoteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "package_builder",
			Subsystem: "sessions",
			Name:      "remote_failures_total",
			Help:      "Failed calls to the remote session mirror.",
		}, []string{"op"}),
		outboxDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "package_builder",
			Subsystem: "sessions",
			Name:      "outbox_depth",
			Help:      "Sessions waiting to be pushed to the remote mirror.",
		}),
		decayApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "package_builder",
			Subsystem: "fuel",
			Name:      "decay_applied_total",
			Help:      "Weekly fuel decay steps applied.",
		}),
	}

	m.requests = registerOrReuse(reg, m.requests)
	m.requestDuration = registerOrReuse(reg, m.requestDuration)
	m.sessionSaves = registerOrReuse(reg, m.sessionSaves)
	m.remoteFailures = registerOrReuse(reg, m.remoteFailures)
	m.outboxDepth = registerOrReuse(reg, m.outboxDepth)
	m.decayApplied = registerOrReuse(reg, m.decayApplied)
	return m
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) SessionSaved() {
	if m == nil {
		return
	}
	m.sessionSaves.Inc()
	m.saves.Add(1)
}

func (m *Metrics) RemoteFailure(op string) {
	if m == nil {
		return
	}
	m.remoteFailures.WithLabelValues(op).Inc()
	m.failures.Add(1)
}

func (m *Metrics) OutboxDepth(n int) {
	if m == nil {
		return
	}
	m.outboxDepth.Set(float64(n))
	m.depth.Store(int64(n))
}

func (m *Metrics) DecayApplied() {
	if m == nil {
		return
	}
	m.decayApplied.Inc()
}

// Summary is the metrics block of the /service report.
func (m *Metrics) Summary() map[string]interface{} {
	out := map[string]interface{}{"system": GetSystemMetrics()}
	if m == nil {
		return out
	}
	out["session_saves"] = m.saves.Load()
	out["remote_failures"] = m.failures.Load()
	out["outbox_depth"] = m.depth.Load()
	return out
}
