package biz

import (
	"context"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/projection"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/samber/lo"
)

// QueryHandler answers reads from the projections only.
type QueryHandler struct {
	store *Store
	log   *log.Helper
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(store *Store, logger log.Logger) *QueryHandler {
	return &QueryHandler{
		store: store,
		log:   log.NewHelper(log.With(logger, "module", "biz/query")),
	}
}

// GetStats returns the link registered under slug with its redirect count.
func (h *QueryHandler) GetStats(ctx context.Context, slug domain.Slug) (domain.Stats, error) {
	var stats domain.Stats
	err := h.store.View(func(r projection.Reader) error {
		u, ok := r.Lookup(slug)
		if !ok {
			return domain.ErrSlugNotFound
		}
		stats = domain.Stats{
			Link:      domain.ShortLink{Slug: slug, URL: u},
			Redirects: r.Redirects(slug),
		}
		return nil
	})
	if err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// ListLinks returns the stats of every registered link ordered by slug.
func (h *QueryHandler) ListLinks(ctx context.Context) ([]domain.Stats, error) {
	var stats []domain.Stats
	err := h.store.View(func(r projection.Reader) error {
		stats = lo.Map(r.Slugs(), func(slug domain.Slug, _ int) domain.Stats {
			u, _ := r.Lookup(slug)
			return domain.Stats{
				Link:      domain.ShortLink{Slug: slug, URL: u},
				Redirects: r.Redirects(slug),
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.WithContext(ctx).Debugf("ListLinks: %d links", len(stats))
	return stats, nil
}
