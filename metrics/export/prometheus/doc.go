// Package prometheus renders engine counters and the authenticate latency histogram in the
// Prometheus text exposition format. Mount [PrometheusExporter.Handler] on any mux; nothing
// is registered globally.
package prometheus
