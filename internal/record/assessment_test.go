package record

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"
)

func TestAssessment_KeySet(t *testing.T) {
	a := NewAssessment()
	a.Comprehensive.Project.GradingRubric["completeness"] = RubricCriterion{Weight: 20}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(b, &tree); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	comp := tree["comprehensive_assessments"].(map[string]any)

	tests := []struct {
		name string
		obj  any
		want []string
	}{
		{"root", tree, []string{"assessment_overview", "comprehensive_assessments"}},
		{"comprehensive", comp, []string{
			"analysis_and_synthesis_questions", "application_questions", "knowledge_check_questions",
			"practical_assessment_project", "practice_questions", "self_assessment_tools",
		}},
		{"knowledge check", comp["knowledge_check_questions"], []string{
			"multiple_choice_questions", "short_answer_questions", "true_false_questions",
		}},
		{"application", comp["application_questions"], []string{"problem_solving_questions", "scenario_based_questions"}},
		{"project", comp["practical_assessment_project"], []string{
			"deliverables", "grading_rubric", "project_description", "project_requirements",
		}},
		{"self assessment", comp["self_assessment_tools"], []string{"knowledge_self_check", "skills_self_assessment"}},
		{"overview", tree["assessment_overview"], []string{
			"assessment_features", "estimated_assessment_time", "question_types", "total_questions",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, ok := tt.obj.(map[string]any)
			if !ok {
				t.Fatalf("expected object, got %T", tt.obj)
			}
			var got []string
			for k := range obj {
				got = append(got, k)
			}
			slices.Sort(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected keys %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAssessment_QuestionKeySets(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want []string
	}{
		{"multiple choice", MultipleChoice{}, []string{
			"content_reference", "correct_answer", "learning_objective_tested", "options", "question", "question_number",
		}},
		{"true false", TrueFalse{}, []string{
			"content_reference", "correct_answer", "learning_objective_tested", "question", "question_number",
		}},
		{"short answer", ShortAnswer{}, []string{
			"content_reference", "key_points_required", "learning_objective_tested", "question", "question_number", "sample_correct_answer",
		}},
		{"scenario", Scenario{}, []string{
			"assessment_rubric", "content_connection", "question", "question_number", "sample_correct_answer",
		}},
		{"problem solving", ProblemSolving{}, []string{
			"common_mistakes", "full_credit_answer", "question", "question_number", "step_by_step_solution",
		}},
		{"analysis", AnalysisSynthesis{}, []string{
			"content_references", "grading_criteria", "question", "question_number", "sample_answer",
		}},
		{"practice", PracticeQuestion{}, []string{
			"answer", "content_reference", "options", "question", "question_number", "study_tip",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var obj map[string]any
			if err := json.Unmarshal(b, &obj); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			var got []string
			for k := range obj {
				got = append(got, k)
			}
			slices.Sort(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected keys %v, got %v", tt.want, got)
			}
		})
	}
}
