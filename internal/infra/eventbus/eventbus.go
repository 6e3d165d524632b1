package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const (
	// LinkEventsTopic is the topic every appended record is published to.
	LinkEventsTopic = "link.events"

	defaultOutputBuffer = 100
)

// EventBus wraps Watermill pub/sub for log records.
type EventBus struct {
	pubsub    *gochannel.GoChannel
	publisher message.Publisher
	logger    watermill.LoggerAdapter
}

// NewEventBus creates a new event bus using Go channels.
// Publish blocks until every subscriber acked, which keeps records in log order.
func NewEventBus(c *conf.Eventbus, logger watermill.LoggerAdapter) *EventBus {
	buffer := int64(defaultOutputBuffer)
	if c != nil && c.Buffer > 0 {
		buffer = c.Buffer
	}

	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            buffer,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: true,
		},
		logger,
	)

	return &EventBus{
		pubsub:    pubsub,
		publisher: pubsub,
		logger:    logger,
	}
}

// Publisher returns the Watermill publisher.
func (b *EventBus) Publisher() message.Publisher {
	return b.publisher
}

// Subscriber returns the Watermill subscriber.
func (b *EventBus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Publish publishes a log record to the event bus.
func (b *EventBus) Publish(ctx context.Context, r event.Record) error {
	msg, err := RecordToMessage(r)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return b.publisher.Publish(LinkEventsTopic, msg)
}

// Close closes the event bus.
func (b *EventBus) Close() error {
	return b.pubsub.Close()
}

// EventEnvelope wraps a log record for serialization.
type EventEnvelope struct {
	Seq        uint64          `json:"seq"`
	EventName  string          `json:"event_name"`
	Slug       string          `json:"slug"`
	RecordedAt time.Time       `json:"recorded_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Record decodes the envelope back into a log record.
func (e *EventEnvelope) Record() (event.Record, error) {
	evt, err := event.Unmarshal(e.EventName, e.Payload)
	if err != nil {
		return event.Record{}, err
	}
	return event.Record{
		Seq:        e.Seq,
		Event:      evt,
		RecordedAt: e.RecordedAt,
	}, nil
}

// RecordToMessage converts a log record to a Watermill message.
func RecordToMessage(r event.Record) (*message.Message, error) {
	if r.Event == nil {
		return nil, fmt.Errorf("record %d has no event", r.Seq)
	}

	payload, err := event.Marshal(r.Event)
	if err != nil {
		return nil, err
	}

	envelope := EventEnvelope{
		Seq:        r.Seq,
		EventName:  r.Event.EventName(),
		Slug:       r.Event.Subject().String(),
		RecordedAt: r.RecordedAt,
		Payload:    payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(uuid.Must(uuid.NewV7()).String(), data)
	msg.Metadata.Set("event_name", envelope.EventName)
	msg.Metadata.Set("slug", envelope.Slug)
	msg.Metadata.Set("seq", strconv.FormatUint(r.Seq, 10))

	return msg, nil
}

// MessageToEnvelope extracts the event envelope from a Watermill message.
func MessageToEnvelope(msg *message.Message) (*EventEnvelope, error) {
	var envelope EventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// SlugOf returns the slug an envelope refers to.
func (e *EventEnvelope) SlugOf() domain.Slug {
	return domain.Slug(e.Slug)
}
