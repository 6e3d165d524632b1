package biz

import (
	"errors"
	"fmt"
	"sync"

	"go-shortener-es/internal/domain/event"
	"go-shortener-es/internal/eventlog"
	"go-shortener-es/internal/projection"
)

var (
	ErrStoreNotEmpty   = errors.New("store is not empty")
	ErrProjectionDrift = errors.New("projections differ from replayed log")

	errTxDone = errors.New("emit on a finished transaction")
)

// Store owns the event log and the projections folded from it.
// The three form one unit of consistency behind a single lock.
type Store struct {
	mu          sync.RWMutex
	log         *eventlog.Log
	projections *projection.Projections
}

// NewStore creates an empty store.
func NewStore() *Store {
	return NewStoreWithLog(eventlog.New())
}

// NewStoreWithLog creates a store around log, folding the records it already holds.
func NewStoreWithLog(log *eventlog.Log) *Store {
	return &Store{
		log:         log,
		projections: projection.Rebuild(log.All()),
	}
}

// Tx is the view a command gets inside Store.Do.
type Tx struct {
	projection.Reader
	pending []event.Event
	done    bool
}

// Emit stages an event. Staged events are appended only if the transaction succeeds.
func (tx *Tx) Emit(e event.Event) {
	if tx.done {
		panic(errTxDone)
	}
	tx.pending = append(tx.pending, e)
}

// Do runs fn under the exclusive lock. If fn returns nil, the events it emitted are
// appended to the log and folded into the projections before the lock is released.
// Otherwise nothing changes.
func (s *Store) Do(fn func(tx *Tx) error) ([]event.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{Reader: s.projections}
	err := fn(tx)
	tx.done = true
	if err != nil {
		return nil, err
	}

	last := s.log.LastSeq()
	for _, e := range tx.pending {
		s.log.Append(e)
		s.projections.Apply(e)
	}
	return s.log.Since(last, 0), nil
}

// View runs fn under the shared lock. fn must not retain the reader.
func (s *Store) View(fn func(r projection.Reader) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.projections)
}

// RecordsSince returns up to limit records after the given sequence number.
func (s *Store) RecordsSince(after uint64, limit int) []event.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Since(after, limit)
}

// Len returns the number of records in the log.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Len()
}

// Snapshot returns a copy of the current projections.
func (s *Store) Snapshot() *projection.Projections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projections.Clone()
}

// Rebuild replays the whole log into fresh projections.
func (s *Store) Rebuild() *projection.Projections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return projection.Rebuild(s.log.All())
}

// Verify checks that replaying the log reproduces the live projections.
func (s *Store) Verify() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !projection.Rebuild(s.log.All()).Equal(s.projections) {
		return ErrProjectionDrift
	}
	return nil
}

// Restore appends persisted records to an empty store and folds them.
// On error the store is left empty.
func (s *Store) Restore(records []event.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.log.Len() != 0 {
		return ErrStoreNotEmpty
	}

	for i, r := range records {
		if want := uint64(i + 1); r.Seq != want {
			return fmt.Errorf("%w: got %d, want %d", eventlog.ErrSequenceGap, r.Seq, want)
		}
		if r.Event == nil {
			return fmt.Errorf("record %d has no event", r.Seq)
		}
	}

	for _, r := range records {
		if err := s.log.AppendRecord(r); err != nil {
			return err
		}
		s.projections.Apply(r.Event)
	}
	return nil
}
