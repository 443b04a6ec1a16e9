package record

// FillEmpty replaces nil slices and maps with empty ones so records decoded
// from partial payloads serialize like line-parsed records.
func FillEmpty(r Record) {
	switch v := r.(type) {
	case *Assessment:
		v.fillEmpty()
	case *Chapter:
		v.fillEmpty()
	}
}

func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (c *Chapter) fillEmpty() {
	c.LearningOutcomes = strs(c.LearningOutcomes)
	c.ImplementationGuide = strs(c.ImplementationGuide)
	if c.Topics == nil {
		c.Topics = []Topic{}
	}
	if c.Glossary == nil {
		c.Glossary = []GlossaryEntry{}
	}
	tr := &c.ToolsAndResources
	tr.EssentialTools = strs(tr.EssentialTools)
	ar := &tr.AdditionalResources
	ar.RecommendedReadings = strs(ar.RecommendedReadings)
	ar.OnlineTutorials = strs(ar.OnlineTutorials)
	ar.PracticePlatforms = strs(ar.PracticePlatforms)
	ar.ProfessionalCommunities = strs(ar.ProfessionalCommunities)

	for i := range c.Topics {
		t := &c.Topics[i]
		t.CoreConcepts.KeyComponents = strs(t.CoreConcepts.KeyComponents)
		t.CoreConcepts.HowItWorks = strs(t.CoreConcepts.HowItWorks)
		t.BestPractices = strs(t.BestPractices)
		if t.Examples == nil {
			t.Examples = []Example{}
		}
		for j := range t.Examples {
			t.Examples[j].Steps = strs(t.Examples[j].Steps)
		}
		if t.Challenges == nil {
			t.Challenges = []Challenge{}
		}
	}
}

func (a *Assessment) fillEmpty() {
	c := &a.Comprehensive
	kc := &c.KnowledgeCheck
	if kc.MultipleChoice == nil {
		kc.MultipleChoice = []MultipleChoice{}
	}
	for i := range kc.MultipleChoice {
		kc.MultipleChoice[i].Options = strs(kc.MultipleChoice[i].Options)
	}
	if kc.TrueFalse == nil {
		kc.TrueFalse = []TrueFalse{}
	}
	if kc.ShortAnswer == nil {
		kc.ShortAnswer = []ShortAnswer{}
	}
	for i := range kc.ShortAnswer {
		kc.ShortAnswer[i].KeyPoints = strs(kc.ShortAnswer[i].KeyPoints)
	}

	app := &c.Application
	if app.Scenario == nil {
		app.Scenario = []Scenario{}
	}
	for i := range app.Scenario {
		if app.Scenario[i].Rubric == nil {
			app.Scenario[i].Rubric = map[string]RubricBand{}
		}
	}
	if app.ProblemSolving == nil {
		app.ProblemSolving = []ProblemSolving{}
	}
	for i := range app.ProblemSolving {
		app.ProblemSolving[i].Steps = strs(app.ProblemSolving[i].Steps)
		app.ProblemSolving[i].CommonMistakes = strs(app.ProblemSolving[i].CommonMistakes)
	}

	if c.AnalysisSynthesis == nil {
		c.AnalysisSynthesis = []AnalysisSynthesis{}
	}
	for i := range c.AnalysisSynthesis {
		c.AnalysisSynthesis[i].GradingCriteria = strs(c.AnalysisSynthesis[i].GradingCriteria)
	}

	c.Project.Requirements = strs(c.Project.Requirements)
	c.Project.Deliverables = strs(c.Project.Deliverables)
	if c.Project.GradingRubric == nil {
		c.Project.GradingRubric = map[string]RubricCriterion{}
	}
	if c.SelfAssessment.KnowledgeSelfCheck == nil {
		c.SelfAssessment.KnowledgeSelfCheck = []SelfCheckItem{}
	}
	if c.SelfAssessment.SkillsSelfAssessment == nil {
		c.SelfAssessment.SkillsSelfAssessment = []SkillItem{}
	}
	if c.Practice == nil {
		c.Practice = []PracticeQuestion{}
	}
	for i := range c.Practice {
		c.Practice[i].Options = strs(c.Practice[i].Options)
	}

	a.Overview.QuestionTypes = strs(a.Overview.QuestionTypes)
	a.Overview.Features = strs(a.Overview.Features)
}
