package domain

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultSlugLength = 7
	SlugAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// SlugGenerator produces candidate slugs for links created without one.
// Candidates are not guaranteed to be unused.
type SlugGenerator interface {
	Generate() (Slug, error)
}

// Compile-time interface check
var _ SlugGenerator = (*NanoidGenerator)(nil)

// NanoidGenerator generates random alphanumeric slugs.
type NanoidGenerator struct {
	alphabet string
	length   int
}

// NewSlugGenerator creates a generator of slugs with the given length.
// A non-positive length falls back to DefaultSlugLength.
func NewSlugGenerator(length int) *NanoidGenerator {
	if length <= 0 {
		length = DefaultSlugLength
	}
	return &NanoidGenerator{
		alphabet: SlugAlphabet,
		length:   length,
	}
}

// Generate returns a new random slug.
func (g *NanoidGenerator) Generate() (Slug, error) {
	id, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return Slug(id), nil
}
