package biz

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// Recover loads the journal into an empty store and checks that replay reproduces
// the projections it folded.
func Recover(ctx context.Context, store *Store, journal Journal, logger log.Logger) error {
	helper := log.NewHelper(log.With(logger, "module", "biz/recovery"))

	records, err := journal.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}

	if err := store.Restore(records); err != nil {
		return fmt.Errorf("restore store: %w", err)
	}

	if err := store.Verify(); err != nil {
		return err
	}

	helper.WithContext(ctx).Infof("recovered %d records from journal", len(records))
	return nil
}

// ReconcileMirror resets the mirror when it has applied records the restored log does not hold.
// Sequence numbers past the log length are reused by this run, so the mirror would skip them.
// The forwarder starts at cursor 0 and refills the mirror.
func ReconcileMirror(ctx context.Context, store *Store, mirror Mirror, logger log.Logger) error {
	helper := log.NewHelper(log.With(logger, "module", "biz/recovery"))

	cursor, err := mirror.Cursor(ctx)
	if err != nil {
		return fmt.Errorf("read mirror cursor: %w", err)
	}

	last := uint64(store.Len())
	if cursor <= last {
		return nil
	}

	helper.WithContext(ctx).Warnf("mirror cursor %d is ahead of the log (%d records), resetting mirror", cursor, last)
	if err := mirror.Reset(ctx); err != nil {
		return fmt.Errorf("reset mirror: %w", err)
	}
	return nil
}
