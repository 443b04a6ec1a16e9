package images

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	slugRe     = regexp.MustCompile(`[^a-z0-9-]`)
	dashRunRe  = regexp.MustCompile(`-+`)
	fileCharRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Slugify converts a string to a path-safe slug of at most 50 bytes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}

// SanitizeSegment makes one path segment safe to join under a root.
func SanitizeSegment(s string) string {
	s = fileCharRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-.")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// fileName derives a destination name from the URL basename, then the alt
// text, then the next per-call sequence number. Names without an extension
// get ".jpg".
func fileName(u *url.URL, alt string, next func() int) string {
	name := SanitizeSegment(path.Base(u.Path))
	if name == "" {
		name = Slugify(alt)
	}
	if name == "" {
		name = fmt.Sprintf("image-%d", next())
	}
	if path.Ext(name) == "" {
		name += ".jpg"
	}
	return name
}

// withSuffix inserts "-n" before the extension.
func withSuffix(name string, n int) string {
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}

// Caption builds a descriptive caption for a figure. The topic wins over alt text.
func Caption(topic, alt string) string {
	if topic = strings.TrimSpace(topic); topic != "" {
		return "Visual representation of " + topic
	}
	if alt = strings.TrimSpace(alt); alt != "" {
		return "Supporting visual for " + alt
	}
	return ""
}
