package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// TokenKind tags a classified line inside a section bucket.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenMarker
	TokenField
	TokenOption
	TokenSubHeading
)

func (k TokenKind) String() string {
	switch k {
	case TokenMarker:
		return "marker"
	case TokenField:
		return "field"
	case TokenOption:
		return "option"
	case TokenSubHeading:
		return "subheading"
	}
	return "plain"
}

// Token is one classified line. Label names the matched field key,
// marker prefix or sub-heading; Value is the text after the label.
type Token struct {
	Kind  TokenKind
	Line  string
	Label string
	Value string
	field *field
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldMultiline
	fieldList
	fieldHeader
	fieldBand
)

type field struct {
	Label string
	Key   string
	Kind  fieldKind
}

// grammar is the per-parser token table.
type grammar struct {
	markers         []string
	// numberedMarkers start a record only when a number follows the label,
	// so "Scenario 2: text" opens a record and "Scenario: text" stays a field.
	numberedMarkers []string
	markerRe        *regexp.Regexp
	fields          []field
	options         *regexp.Regexp
	subHeadings     []string
}

var markerNumberRe = regexp.MustCompile(`^\s*\d*\s*[:.)\-]?\s*`)

func (g grammar) tokenize(line string) Token {
	if g.markerRe != nil && g.markerRe.MatchString(line) {
		return Token{Kind: TokenMarker, Line: line, Value: line}
	}
	for _, m := range g.markers {
		if rest, ok := cutPrefixFold(line, m); ok && (rest == "" || !isLetter(rest)) {
			return Token{Kind: TokenMarker, Line: line, Label: m, Value: strings.TrimSpace(markerNumberRe.ReplaceAllString(rest, ""))}
		}
	}
	for _, m := range g.numberedMarkers {
		if rest, ok := cutPrefixFold(line, m); ok && startsWithDigit(rest) {
			return Token{Kind: TokenMarker, Line: line, Label: m, Value: strings.TrimSpace(markerNumberRe.ReplaceAllString(rest, ""))}
		}
	}
	for i := range g.fields {
		f := &g.fields[i]
		if v, ok := matchField(line, f); ok {
			return Token{Kind: TokenField, Line: line, Label: f.Key, Value: v, field: f}
		}
	}
	if g.options != nil && g.options.MatchString(line) {
		return Token{Kind: TokenOption, Line: line, Value: strings.TrimSpace(g.options.ReplaceAllString(line, ""))}
	}
	for _, h := range g.subHeadings {
		if v, ok := matchLabel(line, h); ok {
			return Token{Kind: TokenSubHeading, Line: line, Label: h, Value: v}
		}
	}
	return Token{Kind: TokenPlain, Line: line, Value: line}
}

func matchField(line string, f *field) (string, bool) {
	if f.Kind != fieldBand {
		return matchLabel(line, f.Label)
	}
	// Band lines look like "Excellent (4 points): text" or "Excellent: text".
	rest, ok := cutPrefixFold(line, f.Label)
	rest = strings.TrimSpace(rest)
	if !ok || !(strings.HasPrefix(rest, "(") || strings.HasPrefix(rest, ":")) {
		return "", false
	}
	if _, v, found := strings.Cut(rest, ":"); found {
		return strings.TrimSpace(v), true
	}
	return "", true
}

// matchLabel matches "Label" alone or "Label: value". Parentheticals after
// the label are ignored, so "Knowledge Self-Check (1-5)" matches too.
func matchLabel(line, label string) (string, bool) {
	rest, ok := cutPrefixFold(line, label)
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "(") {
		if i := strings.Index(rest, ")"); i >= 0 {
			rest = strings.TrimSpace(rest[i+1:])
		}
	}
	if rest == "" {
		return "", true
	}
	if v, ok := strings.CutPrefix(rest, ":"); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

func isLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

func startsWithDigit(s string) bool {
	s = strings.TrimLeft(s, " \t")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// splitList splits an inline comma or semicolon separated value.
func splitList(v string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
