// Package otel publishes engine metrics through OpenTelemetry observable instruments.
//
// [NewOTelExporter] creates one Int64ObservableCounter per engine counter and one
// Int64ObservableGauge per cumulative latency bucket, all fed by a single callback that
// reads Engine.MetricsSnapshot on each collection. The caller owns the MeterProvider.
package otel
