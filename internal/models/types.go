package models

import (
	"context"
	"time"
)

// Producer runs one measurement and always yields a record. Failures of the
// measurement itself are folded into the record status; the error is non-nil
// only when ctx was cancelled before the measurement finished.
type Producer interface {
	Measure(ctx context.Context) (Record, error)
}

// RecordLog defines the append-only measurement log
type RecordLog interface {
	EnsureInitialized() error
	Append(record Record) error
	ReadAll() ([]Record, error)
	ReadTail(n int) ([]Record, error)
}

// RecordReader is the read side of the log used by reporting consumers
type RecordReader interface {
	ReadAll() ([]Record, error)
	ReadTail(n int) ([]Record, error)
}

// Index defines the SQL mirror used for aggregate queries
type Index interface {
	Sync(records []Record) (int, error)
	HourlyPatterns(days int) ([]HourlyPattern, error)
	StatusCounts() ([]StatusCount, error)
	Close() error
}

// Collector defines the collection lifecycle
type Collector interface {
	CollectOnce(ctx context.Context) (Record, error)
	Run(ctx context.Context, interval time.Duration) error
}
