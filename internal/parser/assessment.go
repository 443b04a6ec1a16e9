package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/coursegest/internal/record"
)

const (
	subProjectDescription  = "Project Description"
	subProjectRequirements = "Project Requirements"
	subDeliverables        = "Deliverables"
	subGradingRubric       = "Grading Rubric"
	subKnowledgeSelfCheck  = "Knowledge Self-Check"
	subSkillsSelfAssess    = "Skills Self-Assessment"
)

var (
	projectGrammar = grammar{subHeadings: []string{
		subProjectDescription, subProjectRequirements, subDeliverables, subGradingRubric,
	}}
	selfAssessmentGrammar = grammar{subHeadings: []string{
		subKnowledgeSelfCheck, subSkillsSelfAssess,
	}}
	overviewGrammar = grammar{fields: []field{
		{Label: "Total Questions", Key: "total"},
		{Label: "Question Types", Key: "types", Kind: fieldList},
		{Label: "Assessment Features", Key: "features", Kind: fieldList},
		{Label: "Estimated Assessment Time", Key: "time"},
		{Label: "Estimated Time", Key: "time"},
	}}

	rubricLineRe   = regexp.MustCompile(`^(.+?)\s*\((\d+)\s*%\)\s*:?\s*(.*)$`)
	scaleRe        = regexp.MustCompile(`\((\d+)\s*-\s*(\d+)\)`)
	choiceSetRe    = regexp.MustCompile(`\(([^()]*/[^()]*)\)`)
	nonIdentCharRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// ParseAssessment assembles an assessment record from segmented sections.
func ParseAssessment(s *Sections, diag *Diagnostics) *record.Assessment {
	a := record.NewAssessment()
	c := &a.Comprehensive

	c.KnowledgeCheck.MultipleChoice = ParseMultipleChoice(s.Lines(HeadingMultipleChoice))
	c.KnowledgeCheck.TrueFalse = ParseTrueFalse(s.Lines(HeadingTrueFalse))
	c.KnowledgeCheck.ShortAnswer = ParseShortAnswer(s.Lines(HeadingShortAnswer))
	c.Application.Scenario = ParseScenario(s.Lines(HeadingScenario))
	c.Application.ProblemSolving = ParseProblemSolving(s.Lines(HeadingProblemSolving))
	c.AnalysisSynthesis = ParseAnalysis(s.Lines(HeadingAnalysis))
	c.Project = ParseProject(s.Lines(HeadingProject), diag)
	c.SelfAssessment = ParseSelfAssessment(s.Lines(HeadingSelfAssessment))

	var practice []string
	for _, b := range s.Buckets() {
		if b.Heading.Label == HeadingPracticeFor || b.Heading.Label == HeadingPractice {
			practice = append(practice, b.Lines...)
		}
	}
	c.Practice = ParsePractice(practice)

	counts := []struct {
		heading string
		kind    string
		n       int
	}{
		{HeadingMultipleChoice, "multiple_choice", len(c.KnowledgeCheck.MultipleChoice)},
		{HeadingTrueFalse, "true_false", len(c.KnowledgeCheck.TrueFalse)},
		{HeadingShortAnswer, "short_answer", len(c.KnowledgeCheck.ShortAnswer)},
		{HeadingScenario, "scenario_based", len(c.Application.Scenario)},
		{HeadingProblemSolving, "problem_solving", len(c.Application.ProblemSolving)},
		{HeadingAnalysis, "analysis_and_synthesis", len(c.AnalysisSynthesis)},
		{HeadingPractice, "practice", len(c.Practice)},
	}
	var types []string
	for _, ct := range counts {
		if ct.n > 0 {
			types = append(types, ct.kind)
			continue
		}
		if s.Get(ct.heading) != nil {
			diag.Gap(ct.heading, "section produced no questions")
		}
	}

	a.Overview = parseOverview(s.Lines(HeadingAssessmentOverview))
	if a.Overview.TotalQuestions == "" {
		a.Overview.TotalQuestions = strconv.Itoa(a.QuestionCount())
	}
	if len(a.Overview.QuestionTypes) == 0 && types != nil {
		a.Overview.QuestionTypes = types
	}
	return a
}

func parseOverview(lines []string) record.Overview {
	d := scanFields(lines, overviewGrammar)
	return record.Overview{
		TotalQuestions: d.text["total"],
		QuestionTypes:  d.list("types"),
		Features:       d.list("features"),
		EstimatedTime:  d.text["time"],
	}
}

// ParseProject parses the practical assessment project bucket. Lines before
// the first sub-heading are treated as description.
func ParseProject(lines []string, diag *Diagnostics) record.Project {
	p := record.Project{
		Requirements:  []string{},
		Deliverables:  []string{},
		GradingRubric: map[string]record.RubricCriterion{},
	}
	current := subProjectDescription
	add := func(line string) {
		switch current {
		case subProjectDescription:
			p.Description = joinText(p.Description, line, " ")
		case subProjectRequirements:
			p.Requirements = append(p.Requirements, line)
		case subDeliverables:
			p.Deliverables = append(p.Deliverables, line)
		case subGradingRubric:
			m := rubricLineRe.FindStringSubmatch(line)
			if m == nil {
				diag.Gap(HeadingProject, "unparsed rubric line: "+line)
				return
			}
			weight, _ := strconv.Atoi(m[2])
			p.GradingRubric[criterionKey(m[1])] = record.RubricCriterion{
				Weight:      weight,
				Description: strings.TrimSpace(m[3]),
			}
		}
	}

	for _, line := range lines {
		tok := projectGrammar.tokenize(line)
		if tok.Kind == TokenSubHeading {
			current = tok.Label
			if tok.Value != "" {
				add(tok.Value)
			}
			continue
		}
		add(line)
	}
	return p
}

func criterionKey(s string) string {
	return strings.Trim(nonIdentCharRe.ReplaceAllString(strings.ToLower(s), "_"), "_")
}

// ParseSelfAssessment parses the self-assessment tools bucket. A "(1-5)"
// style range becomes the item's scale; a "(Yes/No/Partially)" style set
// becomes its options.
func ParseSelfAssessment(lines []string) record.SelfAssessment {
	sa := record.SelfAssessment{
		KnowledgeSelfCheck:   []record.SelfCheckItem{},
		SkillsSelfAssessment: []record.SkillItem{},
	}
	current := ""
	add := func(line string) {
		switch current {
		case subKnowledgeSelfCheck:
			item := record.SelfCheckItem{Question: line}
			if m := scaleRe.FindStringSubmatch(line); m != nil {
				item.Scale = m[1] + "-" + m[2]
				item.Question = cleanQuestion(scaleRe.ReplaceAllString(line, ""))
			}
			sa.KnowledgeSelfCheck = append(sa.KnowledgeSelfCheck, item)
		case subSkillsSelfAssess:
			item := record.SkillItem{Question: line}
			if m := choiceSetRe.FindStringSubmatch(line); m != nil {
				for _, o := range strings.Split(m[1], "/") {
					if o = strings.TrimSpace(o); o != "" {
						item.Options = append(item.Options, o)
					}
				}
				item.Question = cleanQuestion(choiceSetRe.ReplaceAllString(line, ""))
			}
			sa.SkillsSelfAssessment = append(sa.SkillsSelfAssessment, item)
		}
	}

	for _, line := range lines {
		tok := selfAssessmentGrammar.tokenize(line)
		if tok.Kind == TokenSubHeading {
			current = tok.Label
			if tok.Value != "" {
				add(tok.Value)
			}
			continue
		}
		add(line)
	}
	return sa
}

func cleanQuestion(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ":-"))
}
