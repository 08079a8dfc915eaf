package types

// Files ---------------------------------------------------------------------------

// FileRecord is one file recovered from the flattened repository corpus.
type FileRecord struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RelevanceJudgment is the structured verdict for a single file, produced by one
// relevance evaluation call. Judgments below the relevance threshold are never
// materialized.
type RelevanceJudgment struct {
	Path           string  `json:"path"`
	RelevanceScore float64 `json:"relevance_score"`
	Importance     int     `json:"importance"`
	Reason         string  `json:"reason"`
	ContentPreview string  `json:"content_preview,omitempty"`
}

// Plan ----------------------------------------------------------------------------

type SetupStep struct {
	StepNumber  int     `json:"step_number"`
	Description string  `json:"description"`
	Code        *string `json:"code"`
}

type ImplementationStep struct {
	StepNumber  int     `json:"step_number"`
	Description string  `json:"description"`
	FilePath    *string `json:"file_path"`
	CodeSnippet *string `json:"code_snippet"`
}

// ImplementationPlan is the normalized plan returned by the synthesizer. Both step
// lists are non-empty and numbered from 1 without gaps.
type ImplementationPlan struct {
	FeatureSummary      string               `json:"feature_summary"`
	SetupInstructions   []SetupStep          `json:"setup_instructions"`
	ImplementationSteps []ImplementationStep `json:"implementation_steps"`
	PotentialChallenges []string             `json:"potential_challenges"`
}

// AnalysisResult bundles the plan with the ranked file list for one request.
type AnalysisResult struct {
	RepositoryName      string               `json:"repository_name"`
	FeatureSummary      string               `json:"feature_summary"`
	SetupInstructions   []SetupStep          `json:"setup_instructions"`
	RelevantFiles       []RelevanceJudgment  `json:"relevant_files"`
	ImplementationSteps []ImplementationStep `json:"implementation_steps"`
	PotentialChallenges []string             `json:"potential_challenges"`
}

// StringPtr returns a pointer to s. Convenience for the nullable plan fields.
func StringPtr(s string) *string { return &s }
