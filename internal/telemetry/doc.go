// Package telemetry provides OpenTelemetry instrumentation for healthdash.
//
// Telemetry is off by default. When enabled, traces and metrics for every
// API request are exported over OTLP (grpc or http/protobuf) to a collector.
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc
//	  sample_rate: 0.5
//
// Failures to build exporters never fail a command. The instance reports
// itself degraded and Tracer/Meter fall back to the global no-op providers.
//
// Tests use TestTelemetry, which records spans and metrics in memory:
//
//	tt := telemetry.NewTestTelemetry()
//	client := apiclient.New(cfg, store, apiclient.WithTelemetry(tt.Telemetry))
//	tt.AssertSpanExists(t, "apiclient GET /health-records")
package telemetry
