package domain

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// URLValidator decides whether a raw string is a syntactically valid absolute URL.
type URLValidator interface {
	IsValidAbsoluteURL(raw string) bool
}

// Compile-time interface check
var _ URLValidator = AbsoluteURLValidator{}

// AbsoluteURLValidator accepts URLs that carry at least a scheme and an authority.
type AbsoluteURLValidator struct{}

// NewURLValidator creates the default URL validator.
func NewURLValidator() URLValidator {
	return AbsoluteURLValidator{}
}

// IsValidAbsoluteURL reports whether raw parses as an absolute URL with a host.
func (AbsoluteURLValidator) IsValidAbsoluteURL(raw string) bool {
	if err := validation.Validate(raw,
		validation.Required.Error("URL is required"),
		is.RequestURL.Error("invalid URL format"),
	); err != nil {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return parsed.IsAbs() && parsed.Host != ""
}
