package projection

import (
	"fmt"
	"maps"

	"go-shortener-es/internal/domain"
	"go-shortener-es/internal/domain/event"
)

// ClickCounters counts redirects per slug. Counts never decrease.
type ClickCounters struct {
	counts map[domain.Slug]uint64
}

// NewClickCounters creates empty counters.
func NewClickCounters() *ClickCounters {
	return &ClickCounters{
		counts: make(map[domain.Slug]uint64),
	}
}

// Apply folds one event into the counters.
func (c *ClickCounters) Apply(e event.Event) {
	switch e := e.(type) {
	case event.RedirectOccurred:
		c.counts[e.Slug]++
	case event.LinkCreated:
	default:
		panic(fmt.Sprintf("projection: click counters cannot apply %T", e))
	}
}

// Get returns the redirect count of slug, 0 if it was never redirected.
func (c *ClickCounters) Get(slug domain.Slug) uint64 {
	return c.counts[slug]
}

// Equal reports whether both counters hold the same counts.
func (c *ClickCounters) Equal(other *ClickCounters) bool {
	return maps.Equal(c.counts, other.counts)
}

// Clone returns an independent copy of the counters.
func (c *ClickCounters) Clone() *ClickCounters {
	return &ClickCounters{counts: maps.Clone(c.counts)}
}
