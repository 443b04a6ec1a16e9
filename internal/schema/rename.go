package schema

// ChapterRenames maps heading labels and legacy keys found in echoed chapter
// payloads to the external chapter keys.
var ChapterRenames = map[string]string{
	"Chapter":                         "title",
	"Learning Outcomes":               "learningOutcomes",
	"Chapter Overview":                "overview",
	"Introduction":                    "introduction",
	"Detailed Topic Coverage":         "topics",
	"Topic Title":                     "title",
	"Comprehensive Overview":          "overview",
	"Core Concepts":                   "coreConcepts",
	"Definition":                      "definition",
	"Theoretical Foundation":          "theoreticalFoundation",
	"Key Components":                  "keyComponents",
	"How It Works":                    "howItWorks",
	"howitWorks":                      "howItWorks",
	"Detailed Examples":               "examples",
	"Practical Applications":          "practicalApplications",
	"Common Challenges and Solutions": "challengesAndSolutions",
	"Best Practices":                  "bestPractices",
	"Integration with Other Concepts": "integration",
	"Synthesis and Integration":       "synthesis",
	"Practical Implementation Guide":  "implementationGuide",
	"Tools and Resources":             "toolsAndResources",
	"Essential Tools":                 "essentialTools",
	"Additional Resources":            "additionalResources",
	"Recommended Readings":            "recommendedReadings",
	"Online tutorials":                "onlineTutorials",
	"Online Tutorials":                "onlineTutorials",
	"Practice platforms":              "practicePlatforms",
	"Practice Platforms":              "practicePlatforms",
	"Professional communities":        "professionalCommunities",
	"Professional Communities":        "professionalCommunities",
	"Chapter Summary":                 "summary",
	"Key Terms Glossary":              "glossary",
}

// AssessmentRenames maps heading and field labels found in echoed assessment
// payloads to the external snake_case keys.
var AssessmentRenames = map[string]string{
	"Comprehensive Assessment Suite":   "comprehensive_assessments",
	"Comprehensive Assessments":        "comprehensive_assessments",
	"Assessment Overview":              "assessment_overview",
	"Knowledge Check Questions":        "knowledge_check_questions",
	"Multiple Choice Questions":        "multiple_choice_questions",
	"True/False Questions":             "true_false_questions",
	"Short Answer Questions":           "short_answer_questions",
	"Application Questions":            "application_questions",
	"Scenario-Based Questions":         "scenario_based_questions",
	"Problem-Solving Questions":        "problem_solving_questions",
	"Analysis and Synthesis Questions": "analysis_and_synthesis_questions",
	"Practical Assessment Project":     "practical_assessment_project",
	"Self-Assessment Tools":            "self_assessment_tools",
	"Practice Questions":               "practice_questions",
	"Question Number":                  "question_number",
	"Question":                         "question",
	"Options":                          "options",
	"Correct Answer":                   "correct_answer",
	"Content Reference":                "content_reference",
	"Learning Objective Tested":        "learning_objective_tested",
	"Sample Correct Answer":            "sample_correct_answer",
	"Key Points Required":              "key_points_required",
	"Assessment Rubric":                "assessment_rubric",
	"Content Connection":               "content_connection",
	"Step-by-Step Solution":            "step_by_step_solution",
	"Common Mistakes":                  "common_mistakes",
	"Full Credit Answer":               "full_credit_answer",
	"Sample Answer":                    "sample_answer",
	"Grading Criteria":                 "grading_criteria",
	"Content References":               "content_references",
	"Answer":                           "answer",
	"Study Tip":                        "study_tip",
	"Project Description":              "project_description",
	"Project Requirements":             "project_requirements",
	"Requirements":                     "project_requirements",
	"requirements":                     "project_requirements",
	"Deliverables":                     "deliverables",
	"Grading Rubric":                   "grading_rubric",
	"Knowledge Self-Check":             "knowledge_self_check",
	"Skills Self-Assessment":           "skills_self_assessment",
	"Total Questions":                  "total_questions",
	"Question Types":                   "question_types",
	"Assessment Features":              "assessment_features",
	"Estimated Assessment Time":        "estimated_assessment_time",
	"features":                         "assessment_features",
	"estimated_time":                   "estimated_assessment_time",
	"Excellent":                        "excellent",
	"Good":                             "good",
	"Satisfactory":                     "satisfactory",
	"Needs Improvement":                "needs_improvement",
}

// Rename returns a copy of an untyped JSON tree with every object key found
// in table replaced. Arrays are walked; scalars are returned as is.
func Rename(node any, table map[string]string) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			if nk, ok := table[k]; ok {
				k = nk
			}
			out[k] = Rename(child, table)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = Rename(child, table)
		}
		return out
	default:
		return node
	}
}
