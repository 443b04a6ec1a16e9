package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// lineRule is one rewrite step of the line normalizer. Rules run in order.
type lineRule struct {
	Label       string
	Re          *regexp.Regexp
	Replacement string
}

var lineRules = []lineRule{
	{Label: "heading_marker", Re: regexp.MustCompile(`^#+\s*`)},
	{Label: "bullet", Re: regexp.MustCompile(`^[-*+•]\s+`)},
	{Label: "numbering", Re: regexp.MustCompile(`^\d+[.)]\s+`)},
	{Label: "strong_star", Re: regexp.MustCompile(`\*\*(.+?)\*\*`), Replacement: "$1"},
	{Label: "strong_under", Re: regexp.MustCompile(`__(.+?)__`), Replacement: "$1"},
	{Label: "em_star", Re: regexp.MustCompile(`\*(\S(?:.*?\S)?)\*`), Replacement: "$1"},
	{Label: "em_under", Re: regexp.MustCompile(`(^|[^\w])_(\S(?:.*?\S)?)_([^\w]|$)`), Replacement: "$1$2$3"},
	{Label: "stray_stars", Re: regexp.MustCompile(`\*{2,}`)},
	{Label: "backticks", Re: regexp.MustCompile("`+")},
	{Label: "trailing_colon", Re: regexp.MustCompile(`:\s*$`)},
}

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	imgTagRe        = regexp.MustCompile(`(?i)<img\b`)
	blockImageRe    = regexp.MustCompile(`(?i)^<(div|figure)\b[^>]*>.*</(div|figure)>$`)
	tagLineRe       = regexp.MustCompile(`^</?[A-Za-z][A-Za-z0-9]*(\s[^>]*)?/?>`)
	spaceRunRe      = regexp.MustCompile(`[\t\x{00A0}]+`)
)

// NormalizeLine strips presentational decoration from one raw line.
// Lines carrying image markup are returned trimmed but otherwise untouched.
func NormalizeLine(line string) string {
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if IsImageLine(line) {
		return line
	}
	line = norm.NFC.String(line)
	line = spaceRunRe.ReplaceAllString(line, " ")
	line = strings.TrimSpace(line)
	for _, r := range lineRules {
		line = r.Re.ReplaceAllString(line, r.Replacement)
	}
	return strings.TrimSpace(line)
}

// NormalizeText splits raw text into normalized, non-empty lines.
func NormalizeText(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if n := NormalizeLine(l); n != "" {
			lines = append(lines, n)
		}
	}
	return lines
}

// IsImageLine reports whether a line embeds an image reference.
func IsImageLine(line string) bool {
	return markdownImageRe.MatchString(line) ||
		imgTagRe.MatchString(line) ||
		blockImageRe.MatchString(line)
}

// isTagLine reports whether a line is image markup or a bare HTML tag line.
func isTagLine(line string) bool {
	return IsImageLine(line) || tagLineRe.MatchString(line)
}
