package parser

import (
	"strings"

	"github.com/dgallion1/coursegest/internal/record"
)

// ParseChapter assembles a chapter record. lines is the whole normalized
// document, used for title inference when no Chapter heading exists.
func ParseChapter(lines []string, s *Sections, opts TopicOptions, diag *Diagnostics) *record.Chapter {
	c := record.NewChapter()
	c.Title = chapterTitle(lines, s)
	if c.Title == "" {
		diag.Gap(HeadingChapter, "no chapter title found")
	}

	c.LearningOutcomes = listOf(s.Lines(HeadingLearningOutcomes))
	c.Overview = strings.Join(s.Lines(HeadingChapterOverview), "\n")
	c.Introduction = strings.Join(s.Lines(HeadingIntroduction), "\n")
	c.Topics = ParseTopics(s.Lines(HeadingTopicCoverage), opts, diag)
	c.Synthesis = strings.Join(s.Lines(HeadingSynthesis), "\n")
	c.ImplementationGuide = listOf(s.Lines(HeadingImplementationGuide))
	c.Summary = strings.Join(s.Lines(HeadingChapterSummary), "\n")
	c.Glossary = ParseGlossary(s.Lines(HeadingGlossary))

	tr := &c.ToolsAndResources
	tr.EssentialTools = listOf(s.Lines(HeadingEssentialTools))
	tr.AdditionalResources.RecommendedReadings = listOf(s.Lines(HeadingRecommendedReadings))
	tr.AdditionalResources.OnlineTutorials = listOf(s.Lines(HeadingOnlineTutorials))
	tr.AdditionalResources.PracticePlatforms = listOf(s.Lines(HeadingPracticePlatforms))
	tr.AdditionalResources.ProfessionalCommunities = listOf(s.Lines(HeadingProfessionalCommunities))

	for _, b := range s.Buckets() {
		if len(b.Lines) == 0 && ChapterVocabulary.IsSingleton(b.Heading.Label) {
			diag.Gap(b.Heading.Label, "section is empty")
		}
	}
	if s.Get(HeadingTopicCoverage) != nil && len(c.Topics) == 0 {
		diag.Gap(HeadingTopicCoverage, "no topics recovered")
	}
	return c
}

// chapterTitle prefers the Chapter bucket, then the first document line
// that is neither a heading nor markup. "Chapter 3: Loops" yields "Loops".
func chapterTitle(lines []string, s *Sections) string {
	if cl := s.Lines(HeadingChapter); len(cl) > 0 {
		return afterColon(cl[0])
	}
	for _, l := range lines {
		if isTagLine(l) {
			continue
		}
		if _, ok := ChapterVocabulary.Match(l); ok {
			return ""
		}
		return afterColon(l)
	}
	return ""
}

// ParseGlossary parses "term: definition" or "term - definition" lines.
func ParseGlossary(lines []string) []record.GlossaryEntry {
	out := []record.GlossaryEntry{}
	for _, line := range lines {
		term, def, ok := strings.Cut(line, ":")
		if !ok {
			term, def, ok = strings.Cut(line, " - ")
		}
		if !ok {
			continue
		}
		term, def = strings.TrimSpace(term), strings.TrimSpace(def)
		if term == "" {
			continue
		}
		out = append(out, record.GlossaryEntry{Term: term, Definition: def})
	}
	return out
}

func listOf(lines []string) []string {
	out := make([]string, 0, len(lines))
	return append(out, lines...)
}
