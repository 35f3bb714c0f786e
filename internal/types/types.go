package types

// AnalyzeResumeInput represents the input for analyzing a resume
type AnalyzeResumeInput struct {
	ResumeText string `json:"resumeText"`
}

// KeywordAnalysis represents the ATS keyword coverage of a resume
type KeywordAnalysis struct {
	Score           int      `json:"score"` // 0-100 score
	PresentKeywords []string `json:"presentKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// AnalysisResult represents the structured analysis returned by the service
type AnalysisResult struct {
	IsPerfect          bool            `json:"isPerfect"`
	OverallScore       int             `json:"overallScore"` // 0-100 ATS compatibility
	Summary            string          `json:"summary"`
	Strengths          []string        `json:"strengths"`
	Suggestions        []string        `json:"suggestions"`
	UnnecessaryItems   []string        `json:"unnecessaryItems"`
	FormattingFeedback []string        `json:"formattingFeedback"`
	KeywordAnalysis    KeywordAnalysis `json:"keywordAnalysis"`
}

// AnalysisContext is the slice of a prior analysis sent along with a
// question-generation request
type AnalysisContext struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Context extracts the question-generation context from a full analysis
func (r *AnalysisResult) Context() *AnalysisContext {
	if r == nil {
		return nil
	}
	return &AnalysisContext{
		Summary:     r.Summary,
		Suggestions: r.Suggestions,
	}
}

// GenerateQuestionsInput represents the input for generating interview questions
type GenerateQuestionsInput struct {
	ResumeText     string           `json:"resumeText"`
	AnalysisResult *AnalysisContext `json:"analysisResult,omitempty"`
}

// InterviewQuestion represents a single generated interview question
type InterviewQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"`   // "technical", "behavioral", or "experience"
	Difficulty string `json:"difficulty"` // "easy", "medium", or "hard"
}

// QuestionsResult represents the output from question generation
type QuestionsResult struct {
	Questions []InterviewQuestion `json:"questions"`
}

// HealthStatus represents the service liveness response
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
