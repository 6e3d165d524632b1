package eventbus

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/samber/lo"
)

// EventHandler handles records from the event bus.
type EventHandler interface {
	// HandlerName returns the name of the handler.
	HandlerName() string
	// EventNames returns the event names this handler handles.
	EventNames() []string
	// Handle processes the event envelope.
	Handle(ctx context.Context, envelope *EventEnvelope) error
}

// Router routes messages to event handlers.
type Router struct {
	router   *message.Router
	eventBus *EventBus
	handlers []EventHandler
	logger   watermill.LoggerAdapter
}

// NewRouter creates a new event router.
func NewRouter(eventBus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 50 * time.Millisecond,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware,
	)

	return &Router{
		router:   router,
		eventBus: eventBus,
		handlers: make([]EventHandler, 0),
		logger:   logger,
	}, nil
}

// AddHandler registers an event handler. Handlers must be added before Run.
func (r *Router) AddHandler(handler EventHandler) {
	r.handlers = append(r.handlers, handler)

	r.router.AddNoPublisherHandler(
		handler.HandlerName(),
		LinkEventsTopic,
		r.eventBus.Subscriber(),
		r.createHandlerFunc(handler),
	)
}

// Handlers returns the registered handlers.
func (r *Router) Handlers() []EventHandler {
	return r.handlers
}

// createHandlerFunc creates a Watermill handler function for an event handler.
func (r *Router) createHandlerFunc(handler EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		envelope, err := MessageToEnvelope(msg)
		if err != nil {
			r.logger.Error("failed to parse message", err, nil)
			return nil // Don't retry on parse errors
		}

		if !lo.Contains(handler.EventNames(), envelope.EventName) {
			return nil
		}

		if err := handler.Handle(msg.Context(), envelope); err != nil {
			r.logger.Error("failed to handle event", err, watermill.LogFields{
				"handler":    handler.HandlerName(),
				"event_name": envelope.EventName,
				"seq":        envelope.Seq,
			})
			return err
		}

		return nil
	}
}

// Run starts the router.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that is closed when the router is running.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router.
func (r *Router) Close() error {
	return r.router.Close()
}
