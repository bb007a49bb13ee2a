package metrics

import (
	"strconv"
	"time"
)

// Reload results recorded by ObserveReload.
const (
	ReloadOK     = "ok"
	ReloadFailed = "error"
)

// ServerMetrics are the metrics recorded by the HTTP engine.
type ServerMetrics struct {
	Registry *Registry

	// RequestsTotal counts served requests.
	// Labels: method, route, status
	RequestsTotal *Counter

	// RequestDuration tracks request latency in seconds.
	// Labels: method, route
	RequestDuration *Histogram

	// SnapshotReloads counts database reload attempts.
	// Labels: result (ok, error)
	SnapshotReloads *Counter

	// Collections is the number of collections in the last served snapshot.
	Collections *Gauge
}

// NewServerMetrics registers the server metrics on a fresh registry.
func NewServerMetrics() *ServerMetrics {
	r := NewRegistry()
	return &ServerMetrics{
		Registry:        r,
		RequestsTotal:   r.NewCounter("mockapi_requests_total", "Total number of API requests", "method", "route", "status"),
		RequestDuration: r.NewHistogram("mockapi_request_duration_seconds", "API request duration in seconds", DefaultBuckets, "method", "route"),
		SnapshotReloads: r.NewCounter("mockapi_snapshot_reloads_total", "Database reload attempts", "result"),
		Collections:     r.NewGauge("mockapi_collections", "Collections in the current database snapshot"),
	}
}

// ObserveRequest records one served request.
func (m *ServerMetrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if vec, err := m.RequestsTotal.WithLabels(method, route, strconv.Itoa(status)); err == nil {
		_ = vec.Inc()
	}
	if vec, err := m.RequestDuration.WithLabels(method, route); err == nil {
		vec.Observe(d.Seconds())
	}
}

// ObserveReload records the outcome of a database reload.
func (m *ServerMetrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := ReloadOK
	if err != nil {
		result = ReloadFailed
	}
	if vec, verr := m.SnapshotReloads.WithLabels(result); verr == nil {
		_ = vec.Inc()
	}
}

// SetCollections records the collection count of the served snapshot.
func (m *ServerMetrics) SetCollections(n int) {
	if m == nil {
		return
	}
	_ = m.Collections.Set(float64(n))
}
