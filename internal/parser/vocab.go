package parser

// Assessment section headings.
const (
	HeadingAssessmentSuite    = "Comprehensive Assessment Suite"
	HeadingAssessmentOverview = "Assessment Overview"
	HeadingKnowledgeCheck     = "Knowledge Check Questions"
	HeadingMultipleChoice     = "Multiple Choice Questions"
	HeadingTrueFalse          = "True/False Questions"
	HeadingShortAnswer        = "Short Answer Questions"
	HeadingApplication        = "Application Questions"
	HeadingScenario           = "Scenario-Based Questions"
	HeadingProblemSolving     = "Problem-Solving Questions"
	HeadingAnalysis           = "Analysis and Synthesis Questions"
	HeadingProject            = "Practical Assessment Project"
	HeadingSelfAssessment     = "Self-Assessment Tools"
	HeadingAnswerKeys         = "Answer Keys and Explanations"
	HeadingPracticeFor        = "Practice Questions for"
	HeadingPractice           = "Practice Questions"
)

// Chapter section headings.
const (
	HeadingChapter                 = "Chapter"
	HeadingLearningOutcomes        = "Learning Outcomes"
	HeadingChapterOverview         = "Chapter Overview"
	HeadingIntroduction            = "Introduction"
	HeadingTopicCoverage           = "Detailed Topic Coverage"
	HeadingSynthesis               = "Synthesis and Integration"
	HeadingImplementationGuide     = "Practical Implementation Guide"
	HeadingToolsAndResources       = "Tools and Resources"
	HeadingEssentialTools          = "Essential Tools"
	HeadingAdditionalResources     = "Additional Resources"
	HeadingRecommendedReadings     = "Recommended Readings"
	HeadingOnlineTutorials         = "Online Tutorials"
	HeadingPracticePlatforms       = "Practice Platforms"
	HeadingProfessionalCommunities = "Professional Communities"
	HeadingChapterSummary          = "Chapter Summary"
	HeadingGlossary                = "Key Terms Glossary"
)

// AssessmentVocabulary is the heading vocabulary of the assessment schema.
// Container headings are not singletons: re-opening them is harmless since
// their buckets are never emitted.
var AssessmentVocabulary = NewVocabulary(
	Label{Name: HeadingAssessmentSuite},
	Label{Name: HeadingAssessmentOverview, Singleton: true},
	Label{Name: HeadingKnowledgeCheck},
	Label{Name: HeadingMultipleChoice, Singleton: true},
	Label{Name: HeadingTrueFalse, Singleton: true},
	Label{Name: HeadingShortAnswer, Singleton: true},
	Label{Name: HeadingApplication},
	Label{Name: HeadingScenario, Singleton: true},
	Label{Name: HeadingProblemSolving, Singleton: true},
	Label{Name: HeadingAnalysis, Singleton: true},
	Label{Name: HeadingProject, Singleton: true},
	Label{Name: HeadingSelfAssessment, Singleton: true},
	Label{Name: HeadingAnswerKeys, Singleton: true},
	Label{Name: HeadingPracticeFor, Prefix: true},
	Label{Name: HeadingPractice},
)

// ChapterVocabulary is the heading vocabulary of the chapter schema.
var ChapterVocabulary = NewVocabulary(
	Label{Name: HeadingChapter, Singleton: true},
	Label{Name: HeadingLearningOutcomes, Singleton: true},
	Label{Name: HeadingChapterOverview, Singleton: true},
	Label{Name: HeadingIntroduction, Singleton: true},
	Label{Name: HeadingTopicCoverage, Singleton: true},
	Label{Name: HeadingSynthesis, Singleton: true},
	Label{Name: HeadingImplementationGuide, Singleton: true},
	Label{Name: HeadingToolsAndResources},
	Label{Name: HeadingEssentialTools, Singleton: true},
	Label{Name: HeadingAdditionalResources},
	Label{Name: HeadingRecommendedReadings, Singleton: true},
	Label{Name: HeadingOnlineTutorials, Singleton: true},
	Label{Name: HeadingPracticePlatforms, Singleton: true},
	Label{Name: HeadingProfessionalCommunities, Singleton: true},
	Label{Name: HeadingChapterSummary, Singleton: true},
	Label{Name: HeadingGlossary, Singleton: true},
)
