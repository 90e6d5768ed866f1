package metrics

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

type RuntimeMetrics struct {
	goroutines    metric.Int64ObservableGauge
	heapAlloc     metric.Int64ObservableGauge
	heapObjects   metric.Int64ObservableGauge
	uptimeSeconds metric.Float64ObservableCounter
	startTime     time.Time
}

func NewRuntimeMetrics(ctx context.Context, meter metric.Meter) (*RuntimeMetrics, error) {
	rm := &RuntimeMetrics{
		startTime: time.Now(),
	}

	var err error

	rm.goroutines, err = meter.Int64ObservableGauge(
		"runtime.go.goroutines",
		metric.WithDescription("Number of goroutines"),
		metric.WithUnit("{goroutine}"),
	)
	if err != nil {
		return nil, err
	}

	rm.heapAlloc, err = meter.Int64ObservableGauge(
		"runtime.go.mem.heap_alloc",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	rm.heapObjects, err = meter.Int64ObservableGauge(
		"runtime.go.mem.heap_objects",
		metric.WithDescription("Number of allocated heap objects"),
		metric.WithUnit("{object}"),
	)
	if err != nil {
		return nil, err
	}

	rm.uptimeSeconds, err = meter.Float64ObservableCounter(
		"process.uptime",
		metric.WithDescription("Seconds since process start"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)

			o.ObserveInt64(rm.goroutines, int64(runtime.NumGoroutine()))
			o.ObserveInt64(rm.heapAlloc, int64(ms.HeapAlloc))
			o.ObserveInt64(rm.heapObjects, int64(ms.HeapObjects))
			o.ObserveFloat64(rm.uptimeSeconds, time.Since(rm.startTime).Seconds())
			return nil
		},
		rm.goroutines, rm.heapAlloc, rm.heapObjects, rm.uptimeSeconds,
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}
