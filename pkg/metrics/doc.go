// Package metrics provides Prometheus-compatible metrics collection for the API server.
//
// This package implements the Prometheus text exposition format (text/plain; version=0.0.4)
// using only the standard library.
//
// Supported metric types:
//   - Counter: monotonically increasing value (e.g., request counts)
//   - Gauge: value that can go up or down (e.g., collection count)
//   - Histogram: distribution of values with configurable buckets (e.g., latencies)
//
// All metrics are safe for concurrent use. Exposition output is sorted, so two
// scrapes of the same state are byte-identical.
//
// # Server Metrics
//
// NewServerMetrics registers the metrics the HTTP engine records:
//
//   - mockapi_requests_total: Counter (labels: method, route, status)
//   - mockapi_request_duration_seconds: Histogram (labels: method, route)
//   - mockapi_snapshot_reloads_total: Counter (labels: result)
//   - mockapi_collections: Gauge of collections in the current snapshot
//
// The route label is a template such as "/:collection/:id", never a raw path,
// so cardinality stays bounded.
//
// # Usage
//
//	m := metrics.NewServerMetrics()
//	m.ObserveRequest("GET", "/:collection", 200, 3*time.Millisecond)
//	http.Handle("/metrics", m.Registry.Handler())
//
// Custom metrics can also be created:
//
//	registry := metrics.NewRegistry()
//	counter := registry.NewCounter("my_counter", "Description of counter", "label1", "label2")
//	counter.WithLabels("value1", "value2").Inc()
package metrics
