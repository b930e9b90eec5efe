// Package sanitize cleans user-supplied text before it is stored.
//
// Topic names, post bodies, category names and report reasons are plain text.
// bluemonday's strict policy removes every HTML tag, so markup a client sends
// can never reach another client's browser as live HTML.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from s and trims surrounding whitespace.
//
// bluemonday escapes what it keeps ("a & b" becomes "a &amp; b"); the result
// is unescaped again because the API returns JSON, not HTML.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(s)))
}
