// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from caller-supplied text before it
// is persisted. Chat content and paper abstracts pass through here.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain removes all HTML elements and attributes from s and trims
// surrounding whitespace. Plain text passes through unchanged.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
