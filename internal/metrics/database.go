package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type DatabaseMetrics struct {
	queryDuration metric.Float64Histogram
	queryErrors   metric.Int64Counter
}

func NewDatabaseMetrics(meter metric.Meter) (*DatabaseMetrics, error) {
	dm := &DatabaseMetrics{}

	var err error

	dm.queryDuration, err = meter.Float64Histogram(
		"db.query.duration",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	dm.queryErrors, err = meter.Int64Counter(
		"db.query.errors",
		metric.WithDescription("Total number of failed database queries"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return nil, err
	}

	return dm, nil
}

// RecordQuery records query duration and, when err is non-nil, an error count,
// both labeled with the operation and table.
func (dm *DatabaseMetrics) RecordQuery(ctx context.Context, operation, table string, duration time.Duration, err error) {
	if dm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("table", table),
	)

	if dm.queryDuration != nil {
		dm.queryDuration.Record(ctx, duration.Seconds(), attrs)
	}
	if err != nil && dm.queryErrors != nil {
		dm.queryErrors.Add(ctx, 1, attrs)
	}
}
