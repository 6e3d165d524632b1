package biz

import (
	"context"

	"go-shortener-es/internal/conf"
	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"
	"go-shortener-es/internal/infra/eventbus"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewStore,
	NewCommandHandler,
	NewQueryHandler,
	NewSlugGenerator,
	domain.NewURLValidator,
	wire.Bind(new(eventbus.RecordSource), new(*Store)),
)

// Journal durably keeps the records of the log.
// It is implemented in the data layer.
type Journal interface {
	// Append writes one record. Writing a sequence number twice is a no-op.
	Append(ctx context.Context, r event.Record) error
	// Load returns every record in sequence order.
	Load(ctx context.Context) ([]event.Record, error)
}

// Mirror maintains a read model outside the process from the records of the log.
type Mirror interface {
	// Apply folds one record. Records at or below the last applied sequence are ignored.
	Apply(ctx context.Context, r event.Record) error
	// Cursor returns the sequence number of the last applied record.
	Cursor(ctx context.Context) (uint64, error)
	// Reset drops everything the mirror holds, including its cursor.
	Reset(ctx context.Context) error
}

// NewSlugGenerator creates the slug generator configured for the service.
func NewSlugGenerator(c *conf.Shortener) domain.SlugGenerator {
	length := domain.DefaultSlugLength
	if c != nil && c.SlugLength > 0 {
		length = c.SlugLength
	}
	return domain.NewSlugGenerator(length)
}
