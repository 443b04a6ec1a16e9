package record

import (
	"fmt"
	"strings"
)

// Kind selects the output schema a document is parsed into.
type Kind string

const (
	KindAssessment Kind = "assessment"
	KindChapter    Kind = "chapter"
)

// ParseKind accepts a schema name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindAssessment:
		return KindAssessment, nil
	case KindChapter:
		return KindChapter, nil
	}
	return "", fmt.Errorf("unknown schema kind: %q", s)
}

// Record is the root of a parsed document. Implemented by *Assessment and *Chapter.
type Record interface {
	Kind() Kind
}

// New returns an empty record of the given kind with every collection initialized.
func New(kind Kind) (Record, error) {
	switch kind {
	case KindAssessment:
		return NewAssessment(), nil
	case KindChapter:
		return NewChapter(), nil
	}
	return nil, fmt.Errorf("unknown schema kind: %q", kind)
}
