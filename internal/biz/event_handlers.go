package biz

import (
	"context"
	"encoding/json"
	"fmt"

	"go-shortener-es/internal/domain/event"
	"go-shortener-es/internal/infra/eventbus"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface checks
var (
	_ eventbus.EventHandler = (*LoggingEventHandler)(nil)
	_ eventbus.EventHandler = (*JournalEventHandler)(nil)
	_ eventbus.EventHandler = (*MirrorEventHandler)(nil)
)

// EventNames lists every event name the log can carry.
var EventNames = []string{
	event.NameLinkCreated,
	event.NameRedirectOccurred,
}

// LoggingEventHandler logs every forwarded record.
type LoggingEventHandler struct {
	log *log.Helper
}

// NewLoggingEventHandler creates a new logging event handler.
func NewLoggingEventHandler(logger log.Logger) *LoggingEventHandler {
	return &LoggingEventHandler{
		log: log.NewHelper(log.With(logger, "module", "biz/events")),
	}
}

func (h *LoggingEventHandler) HandlerName() string {
	return "logging_handler"
}

func (h *LoggingEventHandler) EventNames() []string {
	return EventNames
}

// Handle logs the event details.
func (h *LoggingEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	switch envelope.EventName {
	case event.NameLinkCreated:
		var evt event.LinkCreated
		if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
			return err
		}
		h.log.Infof("[Event #%d] link created: %s -> %s", envelope.Seq, evt.Slug, evt.URL)
	case event.NameRedirectOccurred:
		h.log.Infof("[Event #%d] redirect: %s", envelope.Seq, envelope.Slug)
	default:
		h.log.Infof("[Event #%d] %s: %s", envelope.Seq, envelope.EventName, envelope.Slug)
	}
	return nil
}

// JournalEventHandler writes forwarded records to the journal.
type JournalEventHandler struct {
	journal Journal
	log     *log.Helper
}

// NewJournalEventHandler creates a new journal event handler.
func NewJournalEventHandler(journal Journal, logger log.Logger) *JournalEventHandler {
	return &JournalEventHandler{
		journal: journal,
		log:     log.NewHelper(log.With(logger, "module", "biz/events")),
	}
}

func (h *JournalEventHandler) HandlerName() string {
	return "journal_handler"
}

func (h *JournalEventHandler) EventNames() []string {
	return EventNames
}

// Handle appends the record to the journal. A record that cannot be decoded is not acked,
// since a hole in the journal would fail the next restore.
func (h *JournalEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	r, err := envelope.Record()
	if err != nil {
		h.log.Errorf("failed to decode record %d: %v", envelope.Seq, err)
		return fmt.Errorf("decode record %d: %w", envelope.Seq, err)
	}

	if err := h.journal.Append(ctx, r); err != nil {
		h.log.Warnf("failed to journal record %d: %v", r.Seq, err)
		return err
	}
	return nil
}

// MirrorEventHandler applies forwarded records to the external read model.
type MirrorEventHandler struct {
	mirror Mirror
	log    *log.Helper
}

// NewMirrorEventHandler creates a new mirror event handler.
func NewMirrorEventHandler(mirror Mirror, logger log.Logger) *MirrorEventHandler {
	return &MirrorEventHandler{
		mirror: mirror,
		log:    log.NewHelper(log.With(logger, "module", "biz/events")),
	}
}

func (h *MirrorEventHandler) HandlerName() string {
	return "mirror_handler"
}

func (h *MirrorEventHandler) EventNames() []string {
	return EventNames
}

// Handle folds the record into the mirror.
func (h *MirrorEventHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	r, err := envelope.Record()
	if err != nil {
		h.log.Warnf("failed to decode record %d: %v", envelope.Seq, err)
		return nil
	}

	if err := h.mirror.Apply(ctx, r); err != nil {
		h.log.Warnf("failed to mirror record %d: %v", r.Seq, err)
		return err
	}
	return nil
}

// RegisterEventHandlers registers all event handlers with the router.
func RegisterEventHandlers(router *eventbus.Router, journal Journal, mirror Mirror, logger log.Logger) {
	router.AddHandler(NewLoggingEventHandler(logger))
	router.AddHandler(NewJournalEventHandler(journal, logger))
	router.AddHandler(NewMirrorEventHandler(mirror, logger))
}
