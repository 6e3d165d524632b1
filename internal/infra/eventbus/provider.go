package eventbus

import (
	"go-shortener-es/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is eventbus providers.
var ProviderSet = wire.NewSet(
	NewKratosLoggerAdapter,
	NewEventBus,
	NewRouter,
	ProvideForwarder,
)

// ProvideForwarder creates a Forwarder publishing to the event bus.
func ProvideForwarder(source RecordSource, eventBus *EventBus, c *conf.Eventbus, logger log.Logger) *Forwarder {
	return NewForwarder(source, eventBus.Publisher(), c, NewKratosLoggerAdapter(logger))
}
