package apiclient

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/healthdash/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/healthdash/internal/apiclient"

// requestMetrics holds the per-request instruments. Nil instruments are
// skipped so a broken meter never fails a call.
type requestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newRequestMetrics(meter metric.Meter, logger *logging.Logger) *requestMetrics {
	m := &requestMetrics{}
	var err error

	m.requests, err = meter.Int64Counter(
		"healthdash.api.requests_total",
		metric.WithDescription("API requests by method, route and status (0 for transport failures)."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create requests counter", zap.Error(err))
	}

	m.duration, err = meter.Float64Histogram(
		"healthdash.api.request_duration_seconds",
		metric.WithDescription("API request duration in seconds."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		logger.Warn(context.Background(), "failed to create duration histogram", zap.Error(err))
	}
	return m
}

func (m *requestMetrics) record(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

// idSegment matches Mongo object IDs, UUIDs and plain numbers.
var idSegment = regexp.MustCompile(`^([0-9a-fA-F]{24}|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9]+)$`)

// routeOf replaces ID path segments with :id so span names and metric
// labels stay low-cardinality.
func routeOf(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if idSegment.MatchString(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
