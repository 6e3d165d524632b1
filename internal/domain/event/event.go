package event

import (
	"time"

	"go-shortener-es/internal/domain"
)

const (
	NameLinkCreated      = "link.created"
	NameRedirectOccurred = "link.redirected"
)

// Event is the closed set of facts the log records.
// Only the types declared in this package implement it.
type Event interface {
	// EventName returns the stable name of the event.
	EventName() string
	// Subject returns the slug the event is about.
	Subject() domain.Slug

	sealed()
}

// Compile-time interface checks
var (
	_ Event = LinkCreated{}
	_ Event = RedirectOccurred{}
)

// LinkCreated is recorded once per successful link creation.
type LinkCreated struct {
	Slug domain.Slug `json:"slug"`
	URL  domain.URL  `json:"url"`
}

// EventName returns the event name.
func (e LinkCreated) EventName() string {
	return NameLinkCreated
}

// Subject returns the created slug.
func (e LinkCreated) Subject() domain.Slug {
	return e.Slug
}

func (LinkCreated) sealed() {}

// RedirectOccurred is recorded once per successful redirect resolution.
type RedirectOccurred struct {
	Slug domain.Slug `json:"slug"`
}

// EventName returns the event name.
func (e RedirectOccurred) EventName() string {
	return NameRedirectOccurred
}

// Subject returns the resolved slug.
func (e RedirectOccurred) Subject() domain.Slug {
	return e.Slug
}

func (RedirectOccurred) sealed() {}

// Record is an event at its position in the log.
// Seq starts at 1 and increases by one per append.
type Record struct {
	Seq        uint64
	Event      Event
	RecordedAt time.Time
}
