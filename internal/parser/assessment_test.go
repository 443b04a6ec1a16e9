package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/coursegest/internal/record"
)

const sampleAssessment = `# Comprehensive Assessment Suite
## Knowledge Check Questions
### Multiple Choice Questions
**Question 1:**
What is 2+2?
a) 3
b) 4
**Correct Answer:** b
### True/False Questions
Question 1
True or False: Go has a garbage collector.
Correct Answer: True
## Practical Assessment Project
Build a small CLI tool.
### Project Requirements
- Parse flags
### Deliverables
- Source code
### Grading Rubric
- Functionality (40%): Works end to end
- Code Quality (30%)
- not a rubric line
## Self-Assessment Tools
### Knowledge Self-Check (1-5)
- Rate your understanding of loops (1-5)
### Skills Self-Assessment
- Can you write a closure? (Yes/No/Partially)
## Practice Questions for Loops
Practice Question 1
What keyword starts a loop?
a) for
b) loop
Answer: a
## Practice Questions
Practice Question 1
Which loop form is infinite?
Answer: for {}
`

func parseAssessmentText(t *testing.T, text string) (*record.Assessment, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics(nil)
	rec := Run(text, AssessmentParser{}, diag)
	a, ok := rec.(*record.Assessment)
	if !ok {
		t.Fatalf("expected *record.Assessment, got %T", rec)
	}
	return a, diag
}

func TestParseAssessment_FullDocument(t *testing.T) {
	a, diag := parseAssessmentText(t, sampleAssessment)
	c := a.Comprehensive

	if n := len(c.KnowledgeCheck.MultipleChoice); n != 1 {
		t.Fatalf("expected 1 multiple choice question, got %d", n)
	}
	if n := len(c.KnowledgeCheck.TrueFalse); n != 1 || !c.KnowledgeCheck.TrueFalse[0].CorrectAnswer {
		t.Errorf("expected one true answer, got %+v", c.KnowledgeCheck.TrueFalse)
	}

	p := c.Project
	if p.Description != "Build a small CLI tool." {
		t.Errorf("expected project description, got %q", p.Description)
	}
	if !reflect.DeepEqual(p.Requirements, []string{"Parse flags"}) || !reflect.DeepEqual(p.Deliverables, []string{"Source code"}) {
		t.Errorf("unexpected requirements %v or deliverables %v", p.Requirements, p.Deliverables)
	}
	if got := p.GradingRubric["functionality"]; got.Weight != 40 || got.Description != "Works end to end" {
		t.Errorf("unexpected functionality criterion %+v", got)
	}
	if got := p.GradingRubric["code_quality"]; got.Weight != 30 {
		t.Errorf("expected code_quality weight 30, got %+v", got)
	}

	sa := c.SelfAssessment
	if len(sa.KnowledgeSelfCheck) != 1 || sa.KnowledgeSelfCheck[0].Scale != "1-5" {
		t.Fatalf("unexpected self check %+v", sa.KnowledgeSelfCheck)
	}
	if sa.KnowledgeSelfCheck[0].Question != "Rate your understanding of loops" {
		t.Errorf("expected scale stripped from question, got %q", sa.KnowledgeSelfCheck[0].Question)
	}
	if len(sa.SkillsSelfAssessment) != 1 || !reflect.DeepEqual(sa.SkillsSelfAssessment[0].Options, []string{"Yes", "No", "Partially"}) {
		t.Errorf("unexpected skills %+v", sa.SkillsSelfAssessment)
	}

	if n := len(c.Practice); n != 2 {
		t.Fatalf("expected practice buckets merged into 2 questions, got %d", n)
	}
	if c.Practice[1].Number != 2 || c.Practice[1].Answer != "for {}" {
		t.Errorf("unexpected second practice question %+v", c.Practice[1])
	}

	if a.Overview.TotalQuestions != "4" {
		t.Errorf("expected derived total 4, got %q", a.Overview.TotalQuestions)
	}
	wantTypes := []string{"multiple_choice", "true_false", "practice"}
	if !reflect.DeepEqual(a.Overview.QuestionTypes, wantTypes) {
		t.Errorf("expected types %v, got %v", wantTypes, a.Overview.QuestionTypes)
	}

	var rubricGap bool
	for _, d := range diag.Items() {
		if d.Kind == DiagStructuralGap && strings.Contains(d.Detail, "not a rubric line") {
			rubricGap = true
		}
	}
	if !rubricGap {
		t.Error("expected a gap diagnostic for the unparsed rubric line")
	}
}

func TestParseAssessment_ExplicitOverview(t *testing.T) {
	text := strings.Join([]string{
		"Assessment Overview",
		"Total Questions: 25",
		"Question Types: multiple choice, true/false",
		"Assessment Features: Immediate feedback",
		"Estimated Time: 45 minutes",
	}, "\n")
	a, _ := parseAssessmentText(t, text)
	o := a.Overview
	if o.TotalQuestions != "25" || o.EstimatedTime != "45 minutes" {
		t.Errorf("unexpected overview %+v", o)
	}
	if !reflect.DeepEqual(o.QuestionTypes, []string{"multiple choice", "true/false"}) {
		t.Errorf("unexpected question types %v", o.QuestionTypes)
	}
	if !reflect.DeepEqual(o.Features, []string{"Immediate feedback"}) {
		t.Errorf("unexpected features %v", o.Features)
	}
}

func TestParseAssessment_EmptySectionIsGap(t *testing.T) {
	a, diag := parseAssessmentText(t, "Short Answer Questions\nNothing useful here")
	if n := len(a.Comprehensive.KnowledgeCheck.ShortAnswer); n != 0 {
		t.Errorf("expected no short answer questions, got %d", n)
	}
	var found bool
	for _, d := range diag.Items() {
		if d.Kind == DiagStructuralGap && d.Section == HeadingShortAnswer {
			found = true
		}
	}
	if !found {
		t.Error("expected structural gap for the empty section")
	}
}

func TestParseAssessment_EmptyDocumentKeepsSkeleton(t *testing.T) {
	a, _ := parseAssessmentText(t, "")
	c := a.Comprehensive
	if c.KnowledgeCheck.MultipleChoice == nil || c.Practice == nil || c.Project.GradingRubric == nil {
		t.Error("expected non-nil collections in an empty assessment")
	}
	if a.Overview.TotalQuestions != "0" {
		t.Errorf("expected total 0, got %q", a.Overview.TotalQuestions)
	}
}
