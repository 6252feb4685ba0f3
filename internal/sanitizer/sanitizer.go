// Package sanitizer neutralizes user-controlled text before it is
// interpolated into an HTML email body. Submitters are untrusted, so
// anything that could render as markup in the recipient's mail client
// is stripped or escaped here.
package sanitizer

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer escapes untrusted text for safe HTML embedding
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a sanitizer with a strict policy: no elements or
// attributes survive, remaining text is entity-escaped.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean strips all markup from s and escapes what remains. The result
// is safe to place in an HTML text node.
func (s *Sanitizer) Clean(text string) string {
	return s.policy.Sanitize(text)
}

// MultilineHTML converts untrusted multi-line text into HTML: each
// line is cleaned individually and lines are joined with <br> tags.
// The returned value is marked safe for template interpolation because
// every byte of user input has passed through Clean.
func (s *Sanitizer) MultilineHTML(text string) template.HTML {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		lines[i] = s.Clean(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}
