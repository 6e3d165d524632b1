package projection

import (
	"fmt"
	"maps"
	"slices"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"
)

// SlugRegistry maps each created slug to its URL.
type SlugRegistry struct {
	links map[domain.Slug]domain.URL
}

// NewSlugRegistry creates an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{
		links: make(map[domain.Slug]domain.URL),
	}
}

// Apply folds one event into the registry. The first LinkCreated for a slug wins.
func (r *SlugRegistry) Apply(e event.Event) {
	switch e := e.(type) {
	case event.LinkCreated:
		if _, ok := r.links[e.Slug]; !ok {
			r.links[e.Slug] = e.URL
		}
	case event.RedirectOccurred:
	default:
		panic(fmt.Sprintf("projection: slug registry cannot apply %T", e))
	}
}

// Lookup returns the URL registered for slug.
func (r *SlugRegistry) Lookup(slug domain.Slug) (domain.URL, bool) {
	u, ok := r.links[slug]
	return u, ok
}

// Contains reports whether slug is registered.
func (r *SlugRegistry) Contains(slug domain.Slug) bool {
	_, ok := r.links[slug]
	return ok
}

// Len returns the number of registered slugs.
func (r *SlugRegistry) Len() int {
	return len(r.links)
}

// Slugs returns the registered slugs in ascending order.
func (r *SlugRegistry) Slugs() []domain.Slug {
	return slices.Sorted(maps.Keys(r.links))
}

// Equal reports whether both registries hold the same mappings.
func (r *SlugRegistry) Equal(other *SlugRegistry) bool {
	return maps.Equal(r.links, other.links)
}

// Clone returns an independent copy of the registry.
func (r *SlugRegistry) Clone() *SlugRegistry {
	return &SlugRegistry{links: maps.Clone(r.links)}
}
