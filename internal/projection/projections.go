// Package projection folds the event log into the read models queried by the service.
//
// Incremental application and full replay share the same Apply functions, so a rebuilt
// state is identical to the state maintained live.
package projection

import (
	"iter"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"
)

// Reader is the read-only view of the projections.
type Reader interface {
	Lookup(slug domain.Slug) (domain.URL, bool)
	Contains(slug domain.Slug) bool
	Redirects(slug domain.Slug) uint64
	Slugs() []domain.Slug
}

// Compile-time interface check
var _ Reader = (*Projections)(nil)

// Projections groups every read model folded from the log.
type Projections struct {
	Registry *SlugRegistry
	Counters *ClickCounters
}

// New creates empty projections.
func New() *Projections {
	return &Projections{
		Registry: NewSlugRegistry(),
		Counters: NewClickCounters(),
	}
}

// Apply folds one event into every projection.
func (p *Projections) Apply(e event.Event) {
	p.Registry.Apply(e)
	p.Counters.Apply(e)
}

// Lookup returns the URL registered for slug.
func (p *Projections) Lookup(slug domain.Slug) (domain.URL, bool) {
	return p.Registry.Lookup(slug)
}

// Contains reports whether slug is registered.
func (p *Projections) Contains(slug domain.Slug) bool {
	return p.Registry.Contains(slug)
}

// Redirects returns the redirect count of slug.
func (p *Projections) Redirects(slug domain.Slug) uint64 {
	return p.Counters.Get(slug)
}

// Slugs returns the registered slugs in ascending order.
func (p *Projections) Slugs() []domain.Slug {
	return p.Registry.Slugs()
}

// Equal reports whether both states are identical.
func (p *Projections) Equal(other *Projections) bool {
	return p.Registry.Equal(other.Registry) && p.Counters.Equal(other.Counters)
}

// Clone returns an independent copy.
func (p *Projections) Clone() *Projections {
	return &Projections{
		Registry: p.Registry.Clone(),
		Counters: p.Counters.Clone(),
	}
}

// Rebuild folds every event of the log, in order, into empty projections.
func Rebuild(events iter.Seq2[uint64, event.Event]) *Projections {
	p := New()
	for _, e := range events {
		p.Apply(e)
	}
	return p
}
