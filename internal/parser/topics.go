package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/coursegest/internal/record"
)

// Topic sub-headings.
const (
	subOverview              = "Comprehensive Overview"
	subCoreConcepts          = "Core Concepts"
	subDefinition            = "Definition"
	subTheoreticalFoundation = "Theoretical Foundation"
	subKeyComponents         = "Key Components"
	subHowItWorks            = "How It Works"
	subExamples              = "Detailed Examples"
	subApplications          = "Practical Applications"
	subChallenges            = "Common Challenges and Solutions"
	subBestPractices         = "Best Practices"
	subIntegration           = "Integration with Other Concepts"
)

var (
	topicMarkerRe = regexp.MustCompile(`^[A-Z]\.\s+\S.*$`)
	topicLetterRe = regexp.MustCompile(`^[A-Z]\.\s+`)

	topicGrammar = grammar{
		markerRe: topicMarkerRe,
		subHeadings: []string{
			subOverview, subCoreConcepts, subDefinition, subTheoreticalFoundation,
			subKeyComponents, subHowItWorks, subExamples, subApplications,
			subChallenges, subBestPractices, subIntegration,
		},
	}
	// Sub-heading grammar without the lettered marker, used to find
	// implicit topic boundaries.
	subHeadingGrammar = grammar{subHeadings: topicGrammar.subHeadings}

	exampleGrammar   = grammar{markers: []string{"Example"}}
	challengeGrammar = grammar{markers: []string{"Challenge"}}
)

// TopicOptions controls the topic coverage parser.
type TopicOptions struct {
	// Infer enables the fallback pass that derives topic boundaries from
	// sub-heading adjacency when no lettered marker is found.
	Infer bool
}

// ParseTopics parses a detailed topic coverage bucket. Topics whose every
// field besides the title is empty are dropped.
func ParseTopics(lines []string, opts TopicOptions, diag *Diagnostics) []record.Topic {
	topics := parseTopicsStrict(lines)
	if len(topics) == 0 && opts.Infer && len(lines) > 0 {
		topics = parseTopicsInferred(lines, diag)
	}

	out := make([]record.Topic, 0, len(topics))
	for _, t := range topics {
		if t.IsEmpty() {
			diag.Gap(HeadingTopicCoverage, fmt.Sprintf("dropped empty topic %q", t.Title))
			continue
		}
		reportTopicGaps(t, diag)
		out = append(out, t)
	}
	return out
}

func parseTopicsStrict(lines []string) []record.Topic {
	var (
		topics []record.Topic
		cur    *topicBuilder
	)
	for _, line := range lines {
		tok := topicGrammar.tokenize(line)
		switch tok.Kind {
		case TokenMarker:
			if cur != nil {
				topics = append(topics, cur.finish())
			}
			cur = newTopicBuilder(topicLetterRe.ReplaceAllString(line, ""))
		case TokenSubHeading:
			if cur != nil {
				cur.switchTo(tok.Label, tok.Value)
			}
		default:
			if cur != nil {
				cur.add(line)
			}
		}
	}
	if cur != nil {
		topics = append(topics, cur.finish())
	}
	return topics
}

// parseTopicsInferred opens an implicit topic at every overview anchor, or
// at a repeated sub-heading when no anchor exists. The title is the nearest
// preceding line that is neither markup nor a sub-heading.
func parseTopicsInferred(lines []string, diag *Diagnostics) []record.Topic {
	kinds := make([]Token, len(lines))
	anchors := 0
	for i, line := range lines {
		kinds[i] = subHeadingGrammar.tokenize(line)
		if kinds[i].Kind == TokenSubHeading && kinds[i].Label == subOverview {
			anchors++
		}
	}

	var boundaries []int
	seen := make(map[string]bool)
	for i, tok := range kinds {
		if tok.Kind != TokenSubHeading {
			continue
		}
		switch {
		case anchors > 0 && tok.Label == subOverview:
			boundaries = append(boundaries, i)
		case anchors == 0 && (len(boundaries) == 0 || seen[tok.Label]):
			boundaries = append(boundaries, i)
			clear(seen)
		}
		seen[tok.Label] = true
	}

	// titleAt marks lines consumed as inferred titles; startAt marks topic starts.
	titleAt := make(map[int]bool)
	startAt := make(map[int]bool)
	prev := -1
	for _, b := range boundaries {
		start := b
		for j := b - 1; j > prev; j-- {
			if kinds[j].Kind == TokenSubHeading {
				break
			}
			if isTagLine(lines[j]) {
				continue
			}
			start = j
			titleAt[j] = true
			break
		}
		startAt[start] = true
		prev = b
	}

	var (
		topics []record.Topic
		cur    *topicBuilder
	)
	for i, line := range lines {
		if startAt[i] {
			if cur != nil {
				topics = append(topics, cur.finish())
			}
			title := ""
			if titleAt[i] {
				title = line
			}
			letter := string(rune('A' + len(topics)%26))
			diag.Add(DiagInferredTopic, HeadingTopicCoverage, fmt.Sprintf("inferred topic %s %q without a lettered marker", letter, title))
			cur = newTopicBuilder(title)
			if titleAt[i] {
				continue
			}
		}
		if cur == nil {
			continue
		}
		if tok := kinds[i]; tok.Kind == TokenSubHeading {
			cur.switchTo(tok.Label, tok.Value)
			continue
		}
		cur.add(line)
	}
	if cur != nil {
		topics = append(topics, cur.finish())
	}
	return topics
}

// topicBuilder accumulates one topic. Examples and challenges are buffered
// and handed to their own parsers when the topic closes.
type topicBuilder struct {
	t          record.Topic
	section    string
	examples   []string
	challenges []string
}

func newTopicBuilder(title string) *topicBuilder {
	return &topicBuilder{t: record.NewTopic(strings.TrimSpace(title)), section: subOverview}
}

func (b *topicBuilder) switchTo(section, inline string) {
	b.section = section
	if inline != "" {
		b.add(inline)
	}
}

func (b *topicBuilder) add(line string) {
	t := &b.t
	switch b.section {
	case subOverview:
		t.Overview = joinText(t.Overview, line, "\n")
	case subCoreConcepts, subDefinition:
		t.CoreConcepts.Definition = joinText(t.CoreConcepts.Definition, line, "\n")
	case subTheoreticalFoundation:
		t.CoreConcepts.TheoreticalFoundation = joinText(t.CoreConcepts.TheoreticalFoundation, line, "\n")
	case subKeyComponents:
		t.CoreConcepts.KeyComponents = append(t.CoreConcepts.KeyComponents, line)
	case subHowItWorks:
		t.CoreConcepts.HowItWorks = append(t.CoreConcepts.HowItWorks, line)
	case subExamples:
		b.examples = append(b.examples, line)
	case subApplications:
		t.PracticalApplications = joinText(t.PracticalApplications, line, "\n")
	case subChallenges:
		b.challenges = append(b.challenges, line)
	case subBestPractices:
		t.BestPractices = append(t.BestPractices, line)
	case subIntegration:
		t.Integration = joinText(t.Integration, line, "\n")
	}
}

func (b *topicBuilder) finish() record.Topic {
	b.t.Examples = ParseExamples(b.examples)
	b.t.Challenges = ParseChallenges(b.challenges)
	return b.t
}

func reportTopicGaps(t record.Topic, diag *Diagnostics) {
	section := HeadingTopicCoverage + "/" + t.Title
	if t.Title == "" {
		diag.Gap(section, "topic has no title")
	}
	if t.Overview == "" {
		diag.Gap(section, "empty "+subOverview)
	}
	if t.CoreConcepts.Definition == "" {
		diag.Gap(section, "empty "+subDefinition)
	}
}

// ParseExamples splits an examples buffer on "Example" markers. The level
// is the marker text after its colon, or the whole marker line.
func ParseExamples(lines []string) []record.Example {
	out := []record.Example{}
	var cur *record.Example
	for _, line := range lines {
		if exampleGrammar.tokenize(line).Kind == TokenMarker {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &record.Example{Level: afterColon(line), Steps: []string{}}
			continue
		}
		if cur != nil {
			cur.Steps = append(cur.Steps, line)
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// ParseChallenges splits a challenges buffer on "Challenge" markers and
// normalizes each body to a single solution. A "Solution:" line right after
// the marker wins; otherwise "Description:" and "Solution:" labels in the
// body are used; otherwise the body is the solution.
func ParseChallenges(lines []string) []record.Challenge {
	out := []record.Challenge{}
	var (
		title string
		body  []string
		open  bool
	)
	flush := func() {
		if open {
			out = append(out, restructureChallenge(title, body))
		}
	}
	for _, line := range lines {
		if challengeGrammar.tokenize(line).Kind == TokenMarker {
			flush()
			title = strings.TrimSpace(strings.TrimRight(afterColon(line), "-"))
			body = nil
			open = true
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	flush()
	return out
}

func restructureChallenge(title string, body []string) record.Challenge {
	c := record.Challenge{Challenge: title}
	var (
		desc, sol, rest []string
		target          string
	)
	for _, line := range body {
		if v, ok := matchLabel(line, "Description"); ok {
			target = "description"
			if v != "" {
				desc = append(desc, v)
			}
			continue
		}
		if v, ok := matchLabel(line, "Solution"); ok {
			target = "solution"
			if v != "" {
				sol = append(sol, v)
			}
			continue
		}
		switch target {
		case "description":
			desc = append(desc, line)
		case "solution":
			sol = append(sol, line)
		default:
			rest = append(rest, line)
		}
	}
	if len(desc) > 0 {
		c.Challenge = strings.Join(desc, "\n")
	}
	if target == "" {
		sol = rest
	}
	c.Solution = strings.Join(sol, "\n")
	return c
}

func afterColon(line string) string {
	if _, v, ok := strings.Cut(line, ":"); ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(line)
}
