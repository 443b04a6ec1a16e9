package parser

import (
	"regexp"
	"strings"
)

// Label is one canonical heading of a vocabulary.
type Label struct {
	Name string
	// Prefix labels match any line starting with Name and capture the rest.
	Prefix bool
	// Singleton labels open their bucket on first occurrence only.
	Singleton bool
}

// Heading is a matched vocabulary label. Suffix is set for prefix labels.
type Heading struct {
	Label  string
	Suffix string
}

// Vocabulary is an ordered, immutable set of heading labels for one schema.
type Vocabulary struct {
	labels []Label
	index  map[string]Label
}

// NewVocabulary builds a vocabulary. Earlier labels win ties.
func NewVocabulary(labels ...Label) Vocabulary {
	v := Vocabulary{
		labels: make([]Label, len(labels)),
		index:  make(map[string]Label, len(labels)),
	}
	copy(v.labels, labels)
	for _, l := range labels {
		v.index[l.Name] = l
	}
	return v
}

// Labels returns a copy of the vocabulary's labels in match order.
func (v Vocabulary) Labels() []Label {
	out := make([]Label, len(v.labels))
	copy(out, v.labels)
	return out
}

// IsSingleton reports whether the named label is a singleton.
func (v Vocabulary) IsSingleton(name string) bool {
	return v.index[name].Singleton
}

var parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)

// Match classifies a normalized line as a heading of this vocabulary.
func (v Vocabulary) Match(line string) (Heading, bool) {
	key := headingKey(line)
	if key == "" {
		return Heading{}, false
	}
	for _, l := range v.labels {
		name := strings.ToLower(l.Name)
		if !l.Prefix {
			if key == name {
				return Heading{Label: l.Name}, true
			}
			continue
		}
		if strings.HasPrefix(key, name) {
			return Heading{Label: l.Name, Suffix: prefixSuffix(line, l.Name)}, true
		}
	}
	return Heading{}, false
}

func headingKey(line string) string {
	return strings.ToLower(strings.TrimSpace(parentheticalRe.ReplaceAllString(line, "")))
}

// prefixSuffix returns the text after prefix in line, keeping original case.
func prefixSuffix(line, prefix string) string {
	line = strings.TrimSpace(line)
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimLeft(line[len(prefix):], " :-")
}
