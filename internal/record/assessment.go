package record

// Assessment is the root of the assessment schema.
type Assessment struct {
	Comprehensive Comprehensive `json:"comprehensive_assessments"`
	Overview      Overview      `json:"assessment_overview"`
}

func (*Assessment) Kind() Kind { return KindAssessment }

// Comprehensive groups every question bank of an assessment.
type Comprehensive struct {
	KnowledgeCheck    KnowledgeCheck      `json:"knowledge_check_questions"`
	Application       Application         `json:"application_questions"`
	AnalysisSynthesis []AnalysisSynthesis `json:"analysis_and_synthesis_questions"`
	Project           Project             `json:"practical_assessment_project"`
	SelfAssessment    SelfAssessment      `json:"self_assessment_tools"`
	Practice          []PracticeQuestion  `json:"practice_questions"`
}

type KnowledgeCheck struct {
	MultipleChoice []MultipleChoice `json:"multiple_choice_questions"`
	TrueFalse      []TrueFalse      `json:"true_false_questions"`
	ShortAnswer    []ShortAnswer    `json:"short_answer_questions"`
}

type Application struct {
	Scenario       []Scenario       `json:"scenario_based_questions"`
	ProblemSolving []ProblemSolving `json:"problem_solving_questions"`
}

type MultipleChoice struct {
	Number            int      `json:"question_number"`
	Question          string   `json:"question"`
	Options           []string `json:"options"`
	CorrectAnswer     string   `json:"correct_answer"`
	ContentReference  string   `json:"content_reference"`
	LearningObjective string   `json:"learning_objective_tested"`
}

type TrueFalse struct {
	Number            int    `json:"question_number"`
	Question          string `json:"question"`
	CorrectAnswer     bool   `json:"correct_answer"`
	ContentReference  string `json:"content_reference"`
	LearningObjective string `json:"learning_objective_tested"`
}

type ShortAnswer struct {
	Number            int      `json:"question_number"`
	Question          string   `json:"question"`
	SampleAnswer      string   `json:"sample_correct_answer"`
	KeyPoints         []string `json:"key_points_required"`
	ContentReference  string   `json:"content_reference"`
	LearningObjective string   `json:"learning_objective_tested"`
}

// RubricBand is one scoring band of a scenario rubric.
type RubricBand struct {
	Score       int    `json:"score"`
	Description string `json:"description"`
}

type Scenario struct {
	Number            int                   `json:"question_number"`
	Question          string                `json:"question"`
	SampleAnswer      string                `json:"sample_correct_answer"`
	Rubric            map[string]RubricBand `json:"assessment_rubric"`
	ContentConnection string                `json:"content_connection"`
}

type ProblemSolving struct {
	Number           int      `json:"question_number"`
	Question         string   `json:"question"`
	Steps            []string `json:"step_by_step_solution"`
	CommonMistakes   []string `json:"common_mistakes"`
	FullCreditAnswer string   `json:"full_credit_answer"`
}

type AnalysisSynthesis struct {
	Number            int      `json:"question_number"`
	Question          string   `json:"question"`
	SampleAnswer      string   `json:"sample_answer"`
	GradingCriteria   []string `json:"grading_criteria"`
	ContentReferences string   `json:"content_references"`
}

type PracticeQuestion struct {
	Number           int      `json:"question_number"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Answer           string   `json:"answer"`
	ContentReference string   `json:"content_reference"`
	StudyTip         string   `json:"study_tip"`
}

// RubricCriterion is one weighted line of a project grading rubric.
type RubricCriterion struct {
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

type Project struct {
	Description   string                     `json:"project_description"`
	Requirements  []string                   `json:"project_requirements"`
	Deliverables  []string                   `json:"deliverables"`
	GradingRubric map[string]RubricCriterion `json:"grading_rubric"`
}

type SelfCheckItem struct {
	Question string `json:"question"`
	Scale    string `json:"scale,omitempty"`
}

type SkillItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

type SelfAssessment struct {
	KnowledgeSelfCheck   []SelfCheckItem `json:"knowledge_self_check"`
	SkillsSelfAssessment []SkillItem     `json:"skills_self_assessment"`
}

type Overview struct {
	TotalQuestions string   `json:"total_questions"`
	QuestionTypes  []string `json:"question_types"`
	Features       []string `json:"assessment_features"`
	EstimatedTime  string   `json:"estimated_assessment_time"`
}

// NewAssessment returns an assessment whose slices and maps are non-nil,
// so an empty document still serializes to the full skeleton.
func NewAssessment() *Assessment {
	return &Assessment{
		Comprehensive: Comprehensive{
			KnowledgeCheck: KnowledgeCheck{
				MultipleChoice: []MultipleChoice{},
				TrueFalse:      []TrueFalse{},
				ShortAnswer:    []ShortAnswer{},
			},
			Application: Application{
				Scenario:       []Scenario{},
				ProblemSolving: []ProblemSolving{},
			},
			AnalysisSynthesis: []AnalysisSynthesis{},
			Project: Project{
				Requirements:  []string{},
				Deliverables:  []string{},
				GradingRubric: map[string]RubricCriterion{},
			},
			SelfAssessment: SelfAssessment{
				KnowledgeSelfCheck:   []SelfCheckItem{},
				SkillsSelfAssessment: []SkillItem{},
			},
			Practice: []PracticeQuestion{},
		},
		Overview: Overview{
			QuestionTypes: []string{},
			Features:      []string{},
		},
	}
}

// QuestionCount is the number of numbered questions across every bank.
func (a *Assessment) QuestionCount() int {
	c := a.Comprehensive
	return len(c.KnowledgeCheck.MultipleChoice) +
		len(c.KnowledgeCheck.TrueFalse) +
		len(c.KnowledgeCheck.ShortAnswer) +
		len(c.Application.Scenario) +
		len(c.Application.ProblemSolving) +
		len(c.AnalysisSynthesis) +
		len(c.Practice)
}
