package biz

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-shortener-es/internal/domain/event"
	"go-shortener-es/internal/eventlog"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func journalRecords() []event.Record {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []event.Record{
		{Seq: 1, Event: event.LinkCreated{Slug: "abc", URL: "https://x.test/"}, RecordedAt: at},
		{Seq: 2, Event: event.RedirectOccurred{Slug: "abc"}, RecordedAt: at},
		{Seq: 3, Event: event.RedirectOccurred{Slug: "abc"}, RecordedAt: at},
		{Seq: 4, Event: event.LinkCreated{Slug: "def", URL: "https://y.test/"}, RecordedAt: at},
	}
}

func TestRecover(t *testing.T) {
	t.Run("restores projections from journal", func(t *testing.T) {
		// Arrange
		store := NewStore()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return(journalRecords(), nil).Once()

		// Act
		err := Recover(context.Background(), store, journal, log.DefaultLogger)

		// Assert
		require.NoError(t, err)
		journal.AssertExpectations(t)
		assert.Equal(t, 4, store.Len())

		queries := NewQueryHandler(store, log.DefaultLogger)
		stats, err := queries.GetStats(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), stats.Redirects)
		stats, err = queries.GetStats(context.Background(), "def")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), stats.Redirects)
	})

	t.Run("appends continue after restored records", func(t *testing.T) {
		store := NewStore()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return(journalRecords(), nil).Once()
		require.NoError(t, Recover(context.Background(), store, journal, log.DefaultLogger))

		records, err := store.Do(func(tx *Tx) error {
			tx.Emit(event.RedirectOccurred{Slug: "def"})
			return nil
		})

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, uint64(5), records[0].Seq)
	})

	t.Run("empty journal", func(t *testing.T) {
		store := NewStore()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return(nil, nil).Once()

		err := Recover(context.Background(), store, journal, log.DefaultLogger)

		require.NoError(t, err)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("load failure", func(t *testing.T) {
		store := NewStore()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return(nil, errors.New("no such table")).Once()

		err := Recover(context.Background(), store, journal, log.DefaultLogger)

		assert.ErrorContains(t, err, "no such table")
		assert.Equal(t, 0, store.Len())
	})

	t.Run("gap in journal", func(t *testing.T) {
		store := NewStore()
		records := journalRecords()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return([]event.Record{records[0], records[2]}, nil).Once()

		err := Recover(context.Background(), store, journal, log.DefaultLogger)

		assert.ErrorIs(t, err, eventlog.ErrSequenceGap)
		assert.Equal(t, 0, store.Len())
	})
}

func TestReconcileMirror(t *testing.T) {
	t.Run("resets mirror ahead of the log", func(t *testing.T) {
		// Arrange
		store := NewStore()
		mirror := new(mockMirror)
		mirror.On("Cursor", mock.Anything).Return(uint64(2), nil).Once()
		mirror.On("Reset", mock.Anything).Return(nil).Once()

		// Act
		err := ReconcileMirror(context.Background(), store, mirror, log.DefaultLogger)

		// Assert
		require.NoError(t, err)
		mirror.AssertExpectations(t)
	})

	t.Run("keeps mirror behind or at the log", func(t *testing.T) {
		store := NewStore()
		journal := new(mockJournal)
		journal.On("Load", mock.Anything).Return(journalRecords(), nil).Once()
		require.NoError(t, Recover(context.Background(), store, journal, log.DefaultLogger))

		for _, cursor := range []uint64{0, 3, 4} {
			mirror := new(mockMirror)
			mirror.On("Cursor", mock.Anything).Return(cursor, nil).Once()

			err := ReconcileMirror(context.Background(), store, mirror, log.DefaultLogger)

			require.NoError(t, err)
			mirror.AssertExpectations(t)
			mirror.AssertNotCalled(t, "Reset", mock.Anything)
		}
	})

	t.Run("cursor read failure", func(t *testing.T) {
		mirror := new(mockMirror)
		mirror.On("Cursor", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		err := ReconcileMirror(context.Background(), NewStore(), mirror, log.DefaultLogger)

		assert.ErrorContains(t, err, "connection refused")
		mirror.AssertNotCalled(t, "Reset", mock.Anything)
	})

	t.Run("reset failure", func(t *testing.T) {
		mirror := new(mockMirror)
		mirror.On("Cursor", mock.Anything).Return(uint64(1), nil).Once()
		mirror.On("Reset", mock.Anything).Return(errors.New("READONLY")).Once()

		err := ReconcileMirror(context.Background(), NewStore(), mirror, log.DefaultLogger)

		assert.ErrorContains(t, err, "READONLY")
	})
}
