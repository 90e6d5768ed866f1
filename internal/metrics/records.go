package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type RecordsMetrics struct {
	submissionsAccepted metric.Int64Counter
	sequencerRetries    metric.Int64Counter
	sequencerExhausted  metric.Int64Counter
	cascadedRows        metric.Int64Counter
	announcementsPosted metric.Int64Counter
}

func NewRecordsMetrics(meter metric.Meter) (*RecordsMetrics, error) {
	rm := &RecordsMetrics{}

	var err error

	rm.submissionsAccepted, err = meter.Int64Counter(
		"records_service.submissions.accepted",
		metric.WithDescription("Total number of submissions accepted with an attempt number"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, err
	}

	rm.sequencerRetries, err = meter.Int64Counter(
		"records_service.sequencer.retries",
		metric.WithDescription("Total number of attempt-number collisions retried by the sequencer"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	rm.sequencerExhausted, err = meter.Int64Counter(
		"records_service.sequencer.exhausted",
		metric.WithDescription("Total number of submissions rejected after the retry budget ran out"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, err
	}

	rm.cascadedRows, err = meter.Int64Counter(
		"records_service.cascade.rows_deleted",
		metric.WithDescription("Total number of rows removed by cascading deletes"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	rm.announcementsPosted, err = meter.Int64Counter(
		"records_service.announcements.posted",
		metric.WithDescription("Total number of announcements posted"),
		metric.WithUnit("{announcement}"),
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

func (rm *RecordsMetrics) recordSubmissionAccepted(ctx context.Context) {
	if rm.submissionsAccepted != nil {
		rm.submissionsAccepted.Add(ctx, 1)
	}
}

func (rm *RecordsMetrics) recordSequencerRetry(ctx context.Context) {
	if rm.sequencerRetries != nil {
		rm.sequencerRetries.Add(ctx, 1)
	}
}

func (rm *RecordsMetrics) recordSequencerExhausted(ctx context.Context) {
	if rm.sequencerExhausted != nil {
		rm.sequencerExhausted.Add(ctx, 1)
	}
}

func (rm *RecordsMetrics) recordCascade(ctx context.Context, entity string, rows int64) {
	if rm.cascadedRows != nil {
		rm.cascadedRows.Add(ctx, rows, metric.WithAttributes(attribute.String("entity", entity)))
	}
}

func (rm *RecordsMetrics) recordAnnouncementPosted(ctx context.Context) {
	if rm.announcementsPosted != nil {
		rm.announcementsPosted.Add(ctx, 1)
	}
}
