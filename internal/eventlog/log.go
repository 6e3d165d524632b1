// Package eventlog holds the append-only, ordered record of everything that happened.
//
// A Log is not safe for concurrent use; its owner serializes writers and readers.
package eventlog

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"go-shortener-es/internal/domain/event"
)

var ErrSequenceGap = errors.New("record sequence gap")

// Option configures a Log.
type Option func(*Log)

// WithClock sets the clock used to stamp appended records.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// Log is an in-memory append-only event log.
type Log struct {
	records []event.Record
	now     func() time.Time
}

// New creates an empty log.
func New(opts ...Option) *Log {
	l := &Log{
		records: make([]event.Record, 0),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Append records e at the next position and returns its sequence number.
func (l *Log) Append(e event.Event) uint64 {
	seq := l.LastSeq() + 1
	l.records = append(l.records, event.Record{
		Seq:        seq,
		Event:      e,
		RecordedAt: l.now(),
	})
	return seq
}

// AppendRecord appends a record read back from persistence.
// The record must continue the sequence exactly.
func (l *Log) AppendRecord(r event.Record) error {
	if want := l.LastSeq() + 1; r.Seq != want {
		return fmt.Errorf("%w: got %d, want %d", ErrSequenceGap, r.Seq, want)
	}
	l.records = append(l.records, r)
	return nil
}

// All iterates over (sequence number, event) pairs in append order.
// The sequence is fixed when All is called; later appends are not observed.
func (l *Log) All() iter.Seq2[uint64, event.Event] {
	records := l.records
	return func(yield func(uint64, event.Event) bool) {
		for _, r := range records {
			if !yield(r.Seq, r.Event) {
				return
			}
		}
	}
}

// Since returns up to limit records with a sequence number greater than after.
// A non-positive limit returns all of them.
func (l *Log) Since(after uint64, limit int) []event.Record {
	if after >= uint64(len(l.records)) {
		return nil
	}
	tail := l.records[after:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	out := make([]event.Record, len(tail))
	copy(out, tail)
	return out
}

// Len returns the number of records in the log.
func (l *Log) Len() int {
	return len(l.records)
}

// LastSeq returns the sequence number of the newest record, or 0 if the log is empty.
func (l *Log) LastSeq() uint64 {
	return uint64(len(l.records))
}
