package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/coursegest/internal/record"
)

// Field keys shared by the question grammars.
const (
	keyQuestion          = "question"
	keyCorrectAnswer     = "correct_answer"
	keyContentReference  = "content_reference"
	keyLearningObjective = "learning_objective_tested"
	keySampleAnswer      = "sample_answer"
	keyKeyPoints         = "key_points"
	keyRubric            = "rubric"
	keyContentConnection = "content_connection"
	keySteps             = "steps"
	keyMistakes          = "mistakes"
	keyFullCredit        = "full_credit"
	keyGradingCriteria   = "grading_criteria"
	keyContentRefs       = "content_references"
	keyAnswer            = "answer"
	keyStudyTip          = "study_tip"
)

var optionRe = regexp.MustCompile(`^[a-dA-D]\)\s*`)

var (
	multipleChoiceGrammar = grammar{
		markers: []string{"Question"},
		fields: []field{
			{Label: "Correct Answer", Key: keyCorrectAnswer},
			{Label: "Content Reference", Key: keyContentReference},
			{Label: "Learning Objective Tested", Key: keyLearningObjective},
		},
		options: optionRe,
	}

	trueFalseGrammar = grammar{
		markers: []string{"Question"},
		fields: []field{
			{Label: "True or False", Key: keyQuestion, Kind: fieldMultiline},
			{Label: "Correct Answer", Key: keyCorrectAnswer},
			{Label: "Content Reference", Key: keyContentReference},
			{Label: "Learning Objective Tested", Key: keyLearningObjective},
		},
	}

	shortAnswerGrammar = grammar{
		markers: []string{"Question"},
		fields: []field{
			{Label: "Sample Correct Answer", Key: keySampleAnswer, Kind: fieldMultiline},
			{Label: "Key Points Required", Key: keyKeyPoints, Kind: fieldList},
			{Label: "Content Reference", Key: keyContentReference},
			{Label: "Learning Objective Tested", Key: keyLearningObjective},
		},
	}

	scenarioGrammar = grammar{
		markers:         []string{"Question"},
		numberedMarkers: []string{"Scenario"},
		fields: []field{
			{Label: "Scenario", Key: keyQuestion, Kind: fieldMultiline},
			{Label: "Sample Correct Answer", Key: keySampleAnswer, Kind: fieldMultiline},
			{Label: "Assessment Rubric", Key: keyRubric, Kind: fieldHeader},
			{Label: "Excellent", Key: "excellent", Kind: fieldBand},
			{Label: "Good", Key: "good", Kind: fieldBand},
			{Label: "Satisfactory", Key: "satisfactory", Kind: fieldBand},
			{Label: "Needs Improvement", Key: "needs_improvement", Kind: fieldBand},
			{Label: "Content Connection", Key: keyContentConnection},
		},
	}

	problemSolvingGrammar = grammar{
		markers:         []string{"Question"},
		numberedMarkers: []string{"Problem"},
		fields: []field{
			{Label: "Problem", Key: keyQuestion, Kind: fieldMultiline},
			{Label: "Step-by-Step Solution", Key: keySteps, Kind: fieldList},
			{Label: "Common Mistakes", Key: keyMistakes, Kind: fieldList},
			{Label: "Full Credit Answer", Key: keyFullCredit, Kind: fieldMultiline},
		},
	}

	analysisGrammar = grammar{
		markers: []string{"Question"},
		fields: []field{
			{Label: "Sample Answer", Key: keySampleAnswer, Kind: fieldMultiline},
			{Label: "Grading Criteria", Key: keyGradingCriteria, Kind: fieldList},
			{Label: "Content References", Key: keyContentRefs},
		},
	}

	practiceGrammar = grammar{
		markers: []string{"Practice Question", "Question"},
		fields: []field{
			{Label: "Answer", Key: keyAnswer},
			{Label: "Content Reference", Key: keyContentReference},
			{Label: "Study Tip", Key: keyStudyTip, Kind: fieldMultiline},
		},
		options: optionRe,
	}
)

// rubricScores maps scenario rubric bands to their fixed scores.
var rubricScores = map[string]int{
	"excellent":         4,
	"good":              3,
	"satisfactory":      2,
	"needs_improvement": 1,
}

// draft accumulates one question record between markers.
type draft struct {
	question []string
	options  []string
	text     map[string]string
	lists    map[string][]string
	bands    map[string]string
}

func newDraft() *draft {
	return &draft{
		text:  make(map[string]string),
		lists: make(map[string][]string),
		bands: make(map[string]string),
	}
}

func (d *draft) empty() bool {
	return len(d.question) == 0 && len(d.options) == 0 &&
		len(d.text) == 0 && len(d.lists) == 0 && len(d.bands) == 0
}

func (d *draft) questionText() string {
	return strings.Join(d.question, " ")
}

func (d *draft) list(key string) []string {
	if l := d.lists[key]; l != nil {
		return l
	}
	return []string{}
}

// questionScanner is the marker/field state machine shared by the
// question parsers. open names the field that continuation lines extend.
type questionScanner struct {
	g    grammar
	out  []*draft
	cur  *draft
	open string
}

func (s *questionScanner) flush() {
	if s.cur != nil && !s.cur.empty() {
		s.out = append(s.out, s.cur)
	}
	s.cur = nil
}

// start opens a new draft. A question label left on the marker line, as in
// "Question 1: True or False: text", is dropped from the question text.
func (s *questionScanner) start(value string) {
	s.flush()
	s.cur = newDraft()
	s.open = keyQuestion
	if tok := s.g.tokenize(value); tok.Kind == TokenField && tok.field.Kind == fieldMultiline && tok.field.Key == keyQuestion {
		value = tok.Value
	}
	if value != "" {
		s.cur.question = append(s.cur.question, value)
	}
}

func (s *questionScanner) feed(tok Token) {
	if tok.Kind == TokenMarker {
		s.start(tok.Value)
		return
	}
	cur := s.cur
	if cur == nil {
		return
	}

	switch tok.Kind {
	case TokenField:
		f := tok.field
		switch f.Kind {
		case fieldText:
			cur.text[f.Key] = tok.Value
			s.open = ""
		case fieldMultiline:
			if f.Key == keyQuestion {
				cur.question = nil
				if tok.Value != "" {
					cur.question = []string{tok.Value}
				}
			} else {
				cur.text[f.Key] = tok.Value
			}
			s.open = f.Key
		case fieldList:
			cur.lists[f.Key] = splitList(tok.Value)
			s.open = f.Key
		case fieldHeader:
			s.open = ""
		case fieldBand:
			cur.bands[f.Key] = tok.Value
			s.open = ""
		}
	case TokenOption:
		cur.options = append(cur.options, tok.Line)
		s.open = ""
	default:
		line := tok.Line
		switch {
		case s.open != keyQuestion && isListKey(s.g, s.open):
			cur.lists[s.open] = append(cur.lists[s.open], line)
		case len(cur.question) == 0:
			cur.question = []string{line}
			s.open = keyQuestion
		case s.open == keyQuestion:
			cur.question = append(cur.question, line)
		case s.open == "":
		default:
			cur.text[s.open] = joinText(cur.text[s.open], line, " ")
		}
	}
}

// scanQuestions runs the state machine over one bucket. Lines before the
// first marker are ignored.
func scanQuestions(lines []string, g grammar) []*draft {
	s := &questionScanner{g: g}
	for _, line := range lines {
		s.feed(g.tokenize(line))
	}
	s.flush()
	return s.out
}

// scanFields treats a whole bucket as a single open record.
func scanFields(lines []string, g grammar) *draft {
	s := &questionScanner{g: g}
	s.start("")
	s.open = ""
	for _, line := range lines {
		s.feed(g.tokenize(line))
	}
	return s.cur
}

func isListKey(g grammar, key string) bool {
	for _, f := range g.fields {
		if f.Key == key {
			return f.Kind == fieldList
		}
	}
	return false
}

func joinText(cur, line, sep string) string {
	if cur == "" {
		return line
	}
	return cur + sep + line
}

// ParseMultipleChoice parses a multiple choice bucket.
func ParseMultipleChoice(lines []string) []record.MultipleChoice {
	drafts := scanQuestions(lines, multipleChoiceGrammar)
	out := make([]record.MultipleChoice, 0, len(drafts))
	for _, d := range drafts {
		opts := d.options
		if opts == nil {
			opts = []string{}
		}
		out = append(out, record.MultipleChoice{
			Number:            len(out) + 1,
			Question:          d.questionText(),
			Options:           opts,
			CorrectAnswer:     d.text[keyCorrectAnswer],
			ContentReference:  d.text[keyContentReference],
			LearningObjective: d.text[keyLearningObjective],
		})
	}
	return out
}

// ParseTrueFalse parses a true/false bucket. The answer is true when it
// starts with "true", case-insensitively.
func ParseTrueFalse(lines []string) []record.TrueFalse {
	drafts := scanQuestions(lines, trueFalseGrammar)
	out := make([]record.TrueFalse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, record.TrueFalse{
			Number:            len(out) + 1,
			Question:          d.questionText(),
			CorrectAnswer:     strings.HasPrefix(strings.ToLower(strings.TrimSpace(d.text[keyCorrectAnswer])), "true"),
			ContentReference:  d.text[keyContentReference],
			LearningObjective: d.text[keyLearningObjective],
		})
	}
	return out
}

// ParseShortAnswer parses a short answer bucket.
func ParseShortAnswer(lines []string) []record.ShortAnswer {
	drafts := scanQuestions(lines, shortAnswerGrammar)
	out := make([]record.ShortAnswer, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, record.ShortAnswer{
			Number:            len(out) + 1,
			Question:          d.questionText(),
			SampleAnswer:      d.text[keySampleAnswer],
			KeyPoints:         d.list(keyKeyPoints),
			ContentReference:  d.text[keyContentReference],
			LearningObjective: d.text[keyLearningObjective],
		})
	}
	return out
}

// ParseScenario parses a scenario-based bucket, scoring rubric bands 4 to 1.
func ParseScenario(lines []string) []record.Scenario {
	drafts := scanQuestions(lines, scenarioGrammar)
	out := make([]record.Scenario, 0, len(drafts))
	for _, d := range drafts {
		rubric := make(map[string]record.RubricBand, len(d.bands))
		for band, desc := range d.bands {
			rubric[band] = record.RubricBand{Score: rubricScores[band], Description: desc}
		}
		out = append(out, record.Scenario{
			Number:            len(out) + 1,
			Question:          d.questionText(),
			SampleAnswer:      d.text[keySampleAnswer],
			Rubric:            rubric,
			ContentConnection: d.text[keyContentConnection],
		})
	}
	return out
}

// ParseProblemSolving parses a problem-solving bucket.
func ParseProblemSolving(lines []string) []record.ProblemSolving {
	drafts := scanQuestions(lines, problemSolvingGrammar)
	out := make([]record.ProblemSolving, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, record.ProblemSolving{
			Number:           len(out) + 1,
			Question:         d.questionText(),
			Steps:            d.list(keySteps),
			CommonMistakes:   d.list(keyMistakes),
			FullCreditAnswer: d.text[keyFullCredit],
		})
	}
	return out
}

// ParseAnalysis parses an analysis and synthesis bucket.
func ParseAnalysis(lines []string) []record.AnalysisSynthesis {
	drafts := scanQuestions(lines, analysisGrammar)
	out := make([]record.AnalysisSynthesis, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, record.AnalysisSynthesis{
			Number:            len(out) + 1,
			Question:          d.questionText(),
			SampleAnswer:      d.text[keySampleAnswer],
			GradingCriteria:   d.list(keyGradingCriteria),
			ContentReferences: d.text[keyContentRefs],
		})
	}
	return out
}

// ParsePractice parses a practice question bucket. Option labels are stripped.
func ParsePractice(lines []string) []record.PracticeQuestion {
	drafts := scanQuestions(lines, practiceGrammar)
	out := make([]record.PracticeQuestion, 0, len(drafts))
	for _, d := range drafts {
		opts := make([]string, 0, len(d.options))
		for _, o := range d.options {
			opts = append(opts, strings.TrimSpace(optionRe.ReplaceAllString(o, "")))
		}
		out = append(out, record.PracticeQuestion{
			Number:           len(out) + 1,
			Question:         d.questionText(),
			Options:          opts,
			Answer:           d.text[keyAnswer],
			ContentReference: d.text[keyContentReference],
			StudyTip:         d.text[keyStudyTip],
		})
	}
	return out
}
