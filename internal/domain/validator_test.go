package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsoluteURLValidator(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   bool
	}{
		{
			name:   "valid https url",
			rawURL: "https://example.com/",
			want:   true,
		},
		{
			name:   "valid http url with path and query",
			rawURL: "http://example.com/path/to/page?foo=bar",
			want:   true,
		},
		{
			name:   "valid url with port",
			rawURL: "https://example.com:8080/path",
			want:   true,
		},
		{
			name:   "non-http scheme with authority",
			rawURL: "ftp://files.example.com/pub",
			want:   true,
		},
		{
			name:   "empty url",
			rawURL: "",
			want:   false,
		},
		{
			name:   "free text",
			rawURL: "not a url",
			want:   false,
		},
		{
			name:   "no scheme",
			rawURL: "example.com",
			want:   false,
		},
		{
			name:   "relative path",
			rawURL: "/just/a/path",
			want:   false,
		},
		{
			name:   "no host",
			rawURL: "https://",
			want:   false,
		},
		{
			name:   "opaque url",
			rawURL: "javascript:alert(1)",
			want:   false,
		},
	}

	v := NewURLValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValidAbsoluteURL(tt.rawURL))
		})
	}
}
