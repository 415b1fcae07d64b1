// v1
// internal/stream/stream.go

// Package stream abstracts the append-only record bus the pipeline
// processes communicate through. The default backend is a line-delimited
// file; a Kafka backend substitutes without touching any caller.
package stream

import "context"

// Record is one opaque payload observed on a stream, tagged with the
// offset it was read from so consumers can report lag.
type Record struct {
	Value  []byte
	Offset int64
}

// Producer appends records to a stream.
type Producer interface {
	Produce(ctx context.Context, value []byte) error
	Close() error
}

// Consumer surfaces records in the order they were appended. The returned
// channel closes when the context is cancelled or, in finite mode, when
// the backlog is drained.
type Consumer interface {
	Consume(ctx context.Context) (<-chan Record, error)
	Close() error
}
