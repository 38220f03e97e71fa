// Package sanitize strips markup from visitor-supplied free text before it
// is persisted. The client renders these strings into the DOM, so stored
// values must be plain text.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	once.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes all HTML from s and unescapes entities so "A & B" survives a
// round trip. Leading and trailing whitespace is trimmed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}
