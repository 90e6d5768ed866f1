package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
)

type Metrics struct {
	Runtime  *RuntimeMetrics
	Database *DatabaseMetrics
	Records  *RecordsMetrics
	logger   *slog.Logger
}

func New(ctx context.Context, serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	runtime, err := NewRuntimeMetrics(ctx, meter)
	if err != nil {
		return nil, err
	}

	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	records, err := NewRecordsMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return &Metrics{
		Runtime:  runtime,
		Database: database,
		Records:  records,
		logger:   logger,
	}, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Runtime:  &RuntimeMetrics{},
		Database: &DatabaseMetrics{},
		Records:  &RecordsMetrics{},
	}
}

func (m *Metrics) RecordSubmissionAccepted(ctx context.Context) {
	if m != nil && m.Records != nil {
		m.Records.recordSubmissionAccepted(ctx)
	}
}

func (m *Metrics) RecordSequencerRetry(ctx context.Context) {
	if m != nil && m.Records != nil {
		m.Records.recordSequencerRetry(ctx)
	}
}

func (m *Metrics) RecordSequencerExhausted(ctx context.Context) {
	if m != nil && m.Records != nil {
		m.Records.recordSequencerExhausted(ctx)
	}
}

func (m *Metrics) RecordCascade(ctx context.Context, entity string, rows int64) {
	if m != nil && m.Records != nil {
		m.Records.recordCascade(ctx, entity, rows)
	}
}

func (m *Metrics) RecordAnnouncementPosted(ctx context.Context) {
	if m != nil && m.Records != nil {
		m.Records.recordAnnouncementPosted(ctx)
	}
}
