package parser

import (
	"reflect"
	"testing"

	"github.com/dgallion1/coursegest/internal/record"
)

const sampleChapter = `# Chapter 3: Control Flow
## Learning Outcomes
- Use if statements
- Write loops
## Chapter Overview
This chapter covers control flow.
It is practical.
## Introduction
Programs branch.
## Detailed Topic Coverage
### A. Conditionals
#### Comprehensive Overview
If statements branch.
## Synthesis and Integration
Combine them.
## Practical Implementation Guide
1. Start small
2. Test often
## Tools and Resources
### Essential Tools
- go vet
### Additional Resources
#### Recommended Readings
- Effective Go
#### Online Tutorials
- Go by Example
#### Practice Platforms
- Exercism
#### Professional Communities
- Gophers Slack
## Chapter Summary
Control flow matters.
## Key Terms Glossary
- **Loop**: repeated execution
- Branch - a conditional path
- orphan line without separator
`

func parseChapterText(t *testing.T, text string, infer bool) (*record.Chapter, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics(nil)
	rec := Run(text, ChapterParser{Topics: TopicOptions{Infer: infer}}, diag)
	c, ok := rec.(*record.Chapter)
	if !ok {
		t.Fatalf("expected *record.Chapter, got %T", rec)
	}
	return c, diag
}

func TestParseChapter_FullDocument(t *testing.T) {
	c, _ := parseChapterText(t, sampleChapter, true)

	if c.Title != "Control Flow" {
		t.Errorf("expected title Control Flow, got %q", c.Title)
	}
	if !reflect.DeepEqual(c.LearningOutcomes, []string{"Use if statements", "Write loops"}) {
		t.Errorf("unexpected outcomes %v", c.LearningOutcomes)
	}
	if c.Overview != "This chapter covers control flow.\nIt is practical." {
		t.Errorf("unexpected overview %q", c.Overview)
	}
	if c.Introduction != "Programs branch." {
		t.Errorf("unexpected introduction %q", c.Introduction)
	}
	if len(c.Topics) != 1 || c.Topics[0].Title != "Conditionals" || c.Topics[0].Overview != "If statements branch." {
		t.Errorf("unexpected topics %+v", c.Topics)
	}
	if c.Synthesis != "Combine them." {
		t.Errorf("unexpected synthesis %q", c.Synthesis)
	}
	if !reflect.DeepEqual(c.ImplementationGuide, []string{"Start small", "Test often"}) {
		t.Errorf("unexpected guide %v", c.ImplementationGuide)
	}

	tr := c.ToolsAndResources
	if !reflect.DeepEqual(tr.EssentialTools, []string{"go vet"}) {
		t.Errorf("unexpected tools %v", tr.EssentialTools)
	}
	ar := tr.AdditionalResources
	if !reflect.DeepEqual(ar.RecommendedReadings, []string{"Effective Go"}) ||
		!reflect.DeepEqual(ar.OnlineTutorials, []string{"Go by Example"}) ||
		!reflect.DeepEqual(ar.PracticePlatforms, []string{"Exercism"}) ||
		!reflect.DeepEqual(ar.ProfessionalCommunities, []string{"Gophers Slack"}) {
		t.Errorf("unexpected additional resources %+v", ar)
	}

	if c.Summary != "Control flow matters." {
		t.Errorf("unexpected summary %q", c.Summary)
	}
	want := []record.GlossaryEntry{
		{Term: "Loop", Definition: "repeated execution"},
		{Term: "Branch", Definition: "a conditional path"},
	}
	if !reflect.DeepEqual(c.Glossary, want) {
		t.Errorf("expected glossary %+v, got %+v", want, c.Glossary)
	}
}

func TestParseChapter_TitleFromChapterHeading(t *testing.T) {
	c, _ := parseChapterText(t, "## Chapter:\nLoops in Go\n## Introduction\nHi.", true)
	if c.Title != "Loops in Go" {
		t.Errorf("expected title from Chapter bucket, got %q", c.Title)
	}
}

func TestParseChapter_MissingTitleIsGap(t *testing.T) {
	c, diag := parseChapterText(t, "## Introduction\nHi.", true)
	if c.Title != "" {
		t.Errorf("expected empty title, got %q", c.Title)
	}
	var found bool
	for _, d := range diag.Items() {
		if d.Kind == DiagStructuralGap && d.Section == HeadingChapter {
			found = true
		}
	}
	if !found {
		t.Error("expected gap diagnostic for missing title")
	}
}

func TestParseChapter_EmptySingletonIsGap(t *testing.T) {
	_, diag := parseChapterText(t, "Chapter 1: X\n## Chapter Summary\n## Introduction\nHi.", true)
	var found bool
	for _, d := range diag.Items() {
		if d.Kind == DiagStructuralGap && d.Section == HeadingChapterSummary {
			found = true
		}
	}
	if !found {
		t.Error("expected gap diagnostic for empty summary")
	}
}

func TestParseChapter_NeverEmitsEmptyTopics(t *testing.T) {
	text := "Detailed Topic Coverage\nA. One\nB. Two\nC. Three\nComprehensive Overview\nOnly this one has content."
	c, _ := parseChapterText(t, text, true)
	for _, topic := range c.Topics {
		if topic.IsEmpty() {
			t.Errorf("emitted empty topic %q", topic.Title)
		}
	}
	if len(c.Topics) != 1 {
		t.Errorf("expected 1 topic, got %d", len(c.Topics))
	}
}

func TestParseGlossary(t *testing.T) {
	got := ParseGlossary([]string{"Goroutine: a lightweight thread", ": no term", "Channel - typed conduit", "nothing"})
	want := []record.GlossaryEntry{
		{Term: "Goroutine", Definition: "a lightweight thread"},
		{Term: "Channel", Definition: "typed conduit"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
