package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"repoplan/internal/llm"
	"repoplan/internal/types"
	"repoplan/internal/util/jsonutil"
)

const (
	planTopFiles      = 10
	planPreviewFiles  = 5
	planPreviewLength = 1000
)

// PlanSynthesizer turns the ranked file list into a structured implementation
// plan with one LLM call. It never fails: malformed responses are salvaged
// field by field and missing parts are filled with safe defaults, so the
// returned plan always has at least one setup step and one implementation step.
type PlanSynthesizer struct {
	LLM llm.Client
	Log *zap.Logger
}

// rawPlan mirrors the JSON shape requested from the model before normalization.
type rawPlan struct {
	FeatureSummary      string                     `json:"feature_summary"`
	SetupInstructions   []types.SetupStep          `json:"setup_instructions"`
	ImplementationSteps []types.ImplementationStep `json:"implementation_steps"`
	PotentialChallenges []string                   `json:"potential_challenges"`
}

func (s *PlanSynthesizer) Synthesize(ctx context.Context, repoName, featureDescription string, rankedFiles []types.RelevanceJudgment) types.ImplementationPlan {
	topFiles := rankedFiles
	if len(topFiles) > planTopFiles {
		topFiles = topFiles[:planTopFiles]
	}

	var filesInfo strings.Builder
	for i, f := range topFiles {
		fmt.Fprintf(&filesInfo, "File %d: %s\n", i+1, f.Path)
		fmt.Fprintf(&filesInfo, "Importance: %d/10\n", f.Importance)
		fmt.Fprintf(&filesInfo, "Reason: %s\n\n", f.Reason)
		if i < planPreviewFiles {
			fmt.Fprintf(&filesInfo, "Preview:\n```\n%s...\n```\n\n", truncatePlain(f.ContentPreview, planPreviewLength))
		}
	}

	prompt := fmt.Sprintf(`You are an expert software developer creating a detailed implementation plan for a feature.

Repository: %s
Feature to implement: %s

Based on the analysis of the repository structure, here are the most relevant files:

%s

Create a comprehensive implementation plan with these components:

1. A brief summary of the implementation approach
2. Setup instructions (environment setup, dependencies)
3. Step-by-step implementation instructions (which files to modify and how)
4. Potential challenges and how to address them

Return your response as a JSON object with this structure:
{
  "feature_summary": "Brief summary of the approach",
  "setup_instructions": [
    {"step_number": 1, "description": "Step description", "code": "Any setup code needed"}
  ],
  "implementation_steps": [
    {"step_number": 1, "description": "Detailed step", "file_path": "path/to/file", "code_snippet": "Example code change"}
  ],
  "potential_challenges": ["Challenge 1", "Challenge 2"]
}

Be specific and practical. Focus on concrete steps a developer would take to implement this feature.`,
		repoName, featureDescription, filesInfo.String())

	var plan rawPlan
	resp, err := s.LLM.GenerateText(ctx, prompt)
	if err != nil {
		s.Log.Error("plan call failed, returning fallback plan",
			zap.String("component", "plan"), zap.String("repo", repoName), zap.Error(err))
	} else if perr := jsonutil.UnmarshalLenient(resp, &plan); perr != nil {
		s.Log.Warn("plan response not parseable, salvaging fields",
			zap.String("component", "plan"), zap.String("repo", repoName), zap.Error(perr))
		if summary, ok := salvageSummary(resp); ok {
			plan.FeatureSummary = summary
		}
	}

	return s.normalize(plan, repoName, featureDescription, rankedFiles)
}

// normalize enforces the plan invariants: non-empty step lists, sequential
// numbering from 1, and no missing required fields.
func (s *PlanSynthesizer) normalize(plan rawPlan, repoName, featureDescription string, rankedFiles []types.RelevanceJudgment) types.ImplementationPlan {
	if strings.TrimSpace(plan.FeatureSummary) == "" {
		plan.FeatureSummary = "Implementation plan for " + featureDescription
	}

	if len(plan.SetupInstructions) == 0 {
		plan.SetupInstructions = []types.SetupStep{{
			Description: "Clone the repository",
			Code:        types.StringPtr(fmt.Sprintf("git clone %s.git", repoName)),
		}}
	}
	for i := range plan.SetupInstructions {
		plan.SetupInstructions[i].StepNumber = i + 1
		if strings.TrimSpace(plan.SetupInstructions[i].Description) == "" {
			plan.SetupInstructions[i].Description = "Setup step"
		}
	}

	if len(plan.ImplementationSteps) == 0 {
		step := types.ImplementationStep{
			Description: "Review the most relevant files first",
			CodeSnippet: types.StringPtr("# Review this file for implementation details"),
		}
		if len(rankedFiles) > 0 {
			step.Description = "Review " + rankedFiles[0].Path
			step.FilePath = types.StringPtr(rankedFiles[0].Path)
		}
		plan.ImplementationSteps = []types.ImplementationStep{step}
	}
	for i := range plan.ImplementationSteps {
		plan.ImplementationSteps[i].StepNumber = i + 1
		if strings.TrimSpace(plan.ImplementationSteps[i].Description) == "" {
			plan.ImplementationSteps[i].Description = "Implementation step"
		}
	}

	if len(plan.PotentialChallenges) == 0 {
		plan.PotentialChallenges = []string{"Implementation may require additional context"}
	}

	return types.ImplementationPlan{
		FeatureSummary:      plan.FeatureSummary,
		SetupInstructions:   plan.SetupInstructions,
		ImplementationSteps: plan.ImplementationSteps,
		PotentialChallenges: plan.PotentialChallenges,
	}
}

// salvageSummary recovers the feature_summary value from a response that failed
// structured parsing, by slicing from the key to the next unescaped quote.
func salvageSummary(resp string) (string, bool) {
	const key = `"feature_summary"`
	i := strings.Index(resp, key)
	if i < 0 {
		return "", false
	}
	rest := resp[i+len(key):]
	open := strings.Index(rest, `"`)
	if open < 0 {
		return "", false
	}
	rest = rest[open+1:]
	var b strings.Builder
	escaped := false
	for _, r := range rest {
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
		case r == '\\':
			escaped = true
		case r == '"':
			if s := strings.TrimSpace(b.String()); s != "" {
				return s, true
			}
			return "", false
		default:
			b.WriteRune(r)
		}
	}
	return "", false
}

func truncatePlain(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
