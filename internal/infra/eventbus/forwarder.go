package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultBatchSize    = 100
)

// RecordSource exposes the log records the forwarder publishes.
type RecordSource interface {
	RecordsSince(after uint64, limit int) []event.Record
}

// Forwarder reads new records from the log and forwards them to the event bus.
// It keeps its own cursor, so commands never wait on subscribers.
type Forwarder struct {
	source       RecordSource
	publisher    message.Publisher
	topic        string
	pollInterval time.Duration
	batchSize    int
	logger       watermill.LoggerAdapter
	cursor       atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewForwarder creates a new log forwarder.
func NewForwarder(
	source RecordSource,
	publisher message.Publisher,
	c *conf.Eventbus,
	logger watermill.LoggerAdapter,
) *Forwarder {
	f := &Forwarder{
		source:       source,
		publisher:    publisher,
		topic:        LinkEventsTopic,
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
		logger:       logger,
	}
	if c != nil {
		if c.PollInterval > 0 {
			f.pollInterval = c.PollInterval.AsDuration()
		}
		if c.BatchSize > 0 {
			f.batchSize = c.BatchSize
		}
	}
	return f
}

// Start begins forwarding records after the current cursor.
func (f *Forwarder) Start(ctx context.Context) {
	f.ctx, f.cancel = context.WithCancel(ctx)
	f.wg.Add(1)
	go f.run()
	f.logger.Info("log forwarder started", watermill.LogFields{"cursor": f.Cursor()})
}

// Stop forwards the records appended so far and stops the forwarder.
func (f *Forwarder) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
	f.logger.Info("log forwarder stopped", watermill.LogFields{"cursor": f.Cursor()})
}

// Cursor returns the sequence number of the last forwarded record.
func (f *Forwarder) Cursor() uint64 {
	return f.cursor.Load()
}

func (f *Forwarder) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			f.drain()
			return
		case <-ticker.C:
			_, _ = f.forwardBatch()
		}
	}
}

// drain forwards everything appended before Stop.
func (f *Forwarder) drain() {
	for {
		n, err := f.forwardBatch()
		if err != nil || n == 0 {
			return
		}
	}
}

// forwardBatch forwards up to batchSize records and returns how many went out.
func (f *Forwarder) forwardBatch() (int, error) {
	records := f.source.RecordsSince(f.Cursor(), f.batchSize)

	for i, r := range records {
		if err := f.forwardRecord(r); err != nil {
			// Retry from this record on the next tick to keep log order.
			f.logger.Error("failed to forward record", err, watermill.LogFields{
				"seq": r.Seq,
			})
			return i, err
		}
		f.cursor.Store(r.Seq)
	}
	return len(records), nil
}

func (f *Forwarder) forwardRecord(r event.Record) error {
	msg, err := RecordToMessage(r)
	if err != nil {
		return err
	}
	msg.SetContext(f.ctx)

	if err := f.publisher.Publish(f.topic, msg); err != nil {
		return err
	}

	f.logger.Debug("forwarded record", watermill.LogFields{
		"uuid":       msg.UUID,
		"seq":        r.Seq,
		"event_name": r.Event.EventName(),
	})

	return nil
}
