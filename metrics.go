package incdbscan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordInsert is called after each insert batch.
	// count is the number of points attempted, duration is the total time
	// taken, err is nil if the whole batch succeeded.
	RecordInsert(count int, duration time.Duration, err error)

	// RecordDelete is called after each delete batch.
	// found is the number of points that were present.
	RecordDelete(count, found int, duration time.Duration, err error)

	// RecordLabelQuery is called after each label query batch.
	RecordLabelQuery(count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordDelete(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLabelQuery(int, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertBatches    atomic.Int64
	InsertPoints     atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64

	DeleteBatches    atomic.Int64
	DeletePoints     atomic.Int64
	DeleteFound      atomic.Int64
	DeleteErrors     atomic.Int64
	DeleteTotalNanos atomic.Int64

	LabelQueryBatches    atomic.Int64
	LabelQueryPoints     atomic.Int64
	LabelQueryErrors     atomic.Int64
	LabelQueryTotalNanos atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(count int, duration time.Duration, err error) {
	b.InsertBatches.Add(1)
	b.InsertPoints.Add(int64(count))
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(count, found int, duration time.Duration, err error) {
	b.DeleteBatches.Add(1)
	b.DeletePoints.Add(int64(count))
	b.DeleteFound.Add(int64(found))
	b.DeleteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordLabelQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLabelQuery(count int, duration time.Duration, err error) {
	b.LabelQueryBatches.Add(1)
	b.LabelQueryPoints.Add(int64(count))
	b.LabelQueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LabelQueryErrors.Add(1)
	}
}
