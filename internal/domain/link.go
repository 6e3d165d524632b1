package domain

// Slug is the case-sensitive token identifying a short link.
type Slug string

// String returns the string representation of the Slug.
func (s Slug) String() string {
	return string(s)
}

// IsEmpty returns true if the Slug is empty.
func (s Slug) IsEmpty() bool {
	return s == ""
}

// URL is the absolute URL a short link points to.
// Many slugs may share the same URL.
type URL string

// String returns the string representation of the URL.
func (u URL) String() string {
	return string(u)
}

// ShortLink is the view of a slug together with its registered URL.
type ShortLink struct {
	Slug Slug `json:"slug"`
	URL  URL  `json:"url"`
}

// Stats is a ShortLink joined with its redirect count.
type Stats struct {
	Link      ShortLink `json:"link"`
	Redirects uint64    `json:"redirects"`
}
