package record

// Chapter is the root of the chapter schema.
type Chapter struct {
	Title               string            `json:"title"`
	LearningOutcomes    []string          `json:"learningOutcomes"`
	Overview            string            `json:"overview"`
	Introduction        string            `json:"introduction"`
	Topics              []Topic           `json:"topics"`
	Synthesis           string            `json:"synthesis"`
	ImplementationGuide []string          `json:"implementationGuide"`
	ToolsAndResources   ToolsAndResources `json:"toolsAndResources"`
	Summary             string            `json:"summary"`
	Glossary            []GlossaryEntry   `json:"glossary"`
}

func (*Chapter) Kind() Kind { return KindChapter }

// Topic is one lettered unit of chapter content.
type Topic struct {
	Title                 string       `json:"title"`
	Overview              string       `json:"overview"`
	CoreConcepts          CoreConcepts `json:"coreConcepts"`
	Examples              []Example    `json:"examples"`
	PracticalApplications string       `json:"practicalApplications"`
	Challenges            []Challenge  `json:"challengesAndSolutions"`
	BestPractices         []string     `json:"bestPractices"`
	Integration           string       `json:"integration"`
}

type CoreConcepts struct {
	Definition            string   `json:"definition"`
	TheoreticalFoundation string   `json:"theoreticalFoundation"`
	KeyComponents         []string `json:"keyComponents"`
	HowItWorks            []string `json:"howItWorks"`
}

type Example struct {
	Level string   `json:"level"`
	Steps []string `json:"steps"`
}

type Challenge struct {
	Challenge string `json:"challenge"`
	Solution  string `json:"solution"`
}

type ToolsAndResources struct {
	EssentialTools      []string            `json:"essentialTools"`
	AdditionalResources AdditionalResources `json:"additionalResources"`
}

type AdditionalResources struct {
	RecommendedReadings     []string `json:"recommendedReadings"`
	OnlineTutorials         []string `json:"onlineTutorials"`
	PracticePlatforms       []string `json:"practicePlatforms"`
	ProfessionalCommunities []string `json:"professionalCommunities"`
}

type GlossaryEntry struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// NewChapter returns a chapter whose slices are non-nil.
func NewChapter() *Chapter {
	return &Chapter{
		LearningOutcomes:    []string{},
		Topics:              []Topic{},
		ImplementationGuide: []string{},
		ToolsAndResources: ToolsAndResources{
			EssentialTools: []string{},
			AdditionalResources: AdditionalResources{
				RecommendedReadings:     []string{},
				OnlineTutorials:         []string{},
				PracticePlatforms:       []string{},
				ProfessionalCommunities: []string{},
			},
		},
		Glossary: []GlossaryEntry{},
	}
}

// NewTopic returns a topic whose slices are non-nil.
func NewTopic(title string) Topic {
	return Topic{
		Title: title,
		CoreConcepts: CoreConcepts{
			KeyComponents: []string{},
			HowItWorks:    []string{},
		},
		Examples:      []Example{},
		Challenges:    []Challenge{},
		BestPractices: []string{},
	}
}

// IsEmpty reports whether every extractable field other than the title is empty.
func (t Topic) IsEmpty() bool {
	cc := t.CoreConcepts
	return t.Overview == "" &&
		cc.Definition == "" &&
		cc.TheoreticalFoundation == "" &&
		len(cc.KeyComponents) == 0 &&
		len(cc.HowItWorks) == 0 &&
		len(t.Examples) == 0 &&
		t.PracticalApplications == "" &&
		len(t.Challenges) == 0 &&
		len(t.BestPractices) == 0 &&
		t.Integration == ""
}
