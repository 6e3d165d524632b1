package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-shortener-es/internal/biz"
	"go-shortener-es/internal/domain/event"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface checks
var (
	_ biz.Journal = (*sqlJournal)(nil)
	_ biz.Journal = (*noopJournal)(nil)
)

const (
	insertRecordQuery = `INSERT INTO event_journal (seq, name, payload, recorded_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (seq) DO NOTHING`

	selectRecordsQuery = `SELECT seq, name, payload, recorded_at FROM event_journal ORDER BY seq`
)

type sqlJournal struct {
	db  *sql.DB
	log *log.Helper
}

// NewJournal returns the SQL journal, or a journal that keeps nothing when no database is configured.
func NewJournal(d *Data, logger log.Logger) biz.Journal {
	if d.db == nil {
		return &noopJournal{}
	}
	return newSQLJournal(d.db, logger)
}

func newSQLJournal(db *sql.DB, logger log.Logger) *sqlJournal {
	return &sqlJournal{
		db:  db,
		log: log.NewHelper(log.With(logger, "module", "data/journal")),
	}
}

// Append writes the record. Writing a sequence number twice keeps the first row.
func (j *sqlJournal) Append(ctx context.Context, r event.Record) error {
	payload, err := event.Marshal(r.Event)
	if err != nil {
		return err
	}

	if _, err := j.db.ExecContext(ctx, insertRecordQuery,
		int64(r.Seq), r.Event.EventName(), string(payload), r.RecordedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert record %d: %w", r.Seq, err)
	}
	return nil
}

// Load returns every journaled record in sequence order.
func (j *sqlJournal) Load(ctx context.Context) ([]event.Record, error) {
	rows, err := j.db.QueryContext(ctx, selectRecordsQuery)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var records []event.Record
	for rows.Next() {
		var (
			seq        int64
			name       string
			payload    string
			recordedAt int64
		)
		if err := rows.Scan(&seq, &name, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan journal: %w", err)
		}

		evt, err := event.Unmarshal(name, []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", seq, err)
		}
		records = append(records, event.Record{
			Seq:        uint64(seq),
			Event:      evt,
			RecordedAt: time.Unix(0, recordedAt).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}

	j.log.WithContext(ctx).Debugf("loaded %d records", len(records))
	return records, nil
}

type noopJournal struct{}

func (noopJournal) Append(context.Context, event.Record) error { return nil }

func (noopJournal) Load(context.Context) ([]event.Record, error) { return nil, nil }
