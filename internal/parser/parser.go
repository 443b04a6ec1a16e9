package parser

import (
	"fmt"

	"github.com/dgallion1/coursegest/internal/record"
)

// Parser converts normalized, segmented lines into a typed record.
type Parser interface {
	Vocabulary() Vocabulary
	Parse(lines []string, s *Sections, diag *Diagnostics) record.Record
}

// Options tunes parser behavior.
type Options struct {
	// InferTopics enables topic inference for chapters lacking lettered markers.
	InferTopics bool
}

// ForKind returns the parser for a schema kind.
func ForKind(kind record.Kind, opts Options) (Parser, error) {
	switch kind {
	case record.KindAssessment:
		return AssessmentParser{}, nil
	case record.KindChapter:
		return ChapterParser{Topics: TopicOptions{Infer: opts.InferTopics}}, nil
	default:
		return nil, fmt.Errorf("unsupported schema kind: %q", kind)
	}
}

// AssessmentParser parses the assessment schema.
type AssessmentParser struct{}

func (AssessmentParser) Vocabulary() Vocabulary { return AssessmentVocabulary }

func (AssessmentParser) Parse(_ []string, s *Sections, diag *Diagnostics) record.Record {
	return ParseAssessment(s, diag)
}

// ChapterParser parses the chapter schema.
type ChapterParser struct {
	Topics TopicOptions
}

func (ChapterParser) Vocabulary() Vocabulary { return ChapterVocabulary }

func (p ChapterParser) Parse(lines []string, s *Sections, diag *Diagnostics) record.Record {
	return ParseChapter(lines, s, p.Topics, diag)
}

// Run normalizes text, segments it with the parser's vocabulary and parses it.
func Run(text string, p Parser, diag *Diagnostics) record.Record {
	lines := NormalizeText(text)
	return p.Parse(lines, Segment(lines, p.Vocabulary()), diag)
}
