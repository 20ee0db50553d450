// Package sanitizer normalizes user-supplied profile text before validation
// and storage. Sanitization composes small strategies into pipelines so each
// field type picks only the cleanups it needs.
package sanitizer

import (
	"net/url"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	reMultiSpace   = regexp.MustCompile(`[ \t]+`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func stripControlChars(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

func collapseNewlines(s string) string {
	return reMultiNewline.ReplaceAllString(s, "\n\n")
}

// SanitizeName cleans single-line fields like a seller's display name or
// professional title.
func SanitizeName(input string) string {
	p := Pipeline{
		stripControlChars,
		func(s string) string { return strings.ReplaceAll(s, "\n", " ") },
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeDescription cleans multi-line free text, keeping paragraph breaks.
func SanitizeDescription(input string) string {
	p := Pipeline{
		stripControlChars,
		collapseSpaces,
		collapseNewlines,
		trim,
	}
	return p.Apply(input)
}

// SanitizeURL returns the normalized URL, or the empty string when the input
// does not parse as an absolute http(s) URL.
func SanitizeURL(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	u, err := url.Parse(input)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}
