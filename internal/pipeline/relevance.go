package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"repoplan/internal/llm"
	"repoplan/internal/types"
	"repoplan/internal/util/jsonutil"
)

const (
	// maxContentLength is a safety cap only; realistic sources fit whole.
	maxContentLength = 7_000_000
	previewLength    = 500
	minRelevance     = 0.5
)

// RelevanceEvaluator judges one file per call. Any failure (transport, parse)
// is logged and reported as absent; a single file must never abort its batch.
type RelevanceEvaluator struct {
	LLM llm.Client
	Log *zap.Logger
}

// Evaluate returns a judgment for the file, or nil when the file is below the
// relevance threshold or the call failed.
func (e *RelevanceEvaluator) Evaluate(ctx context.Context, path, content, featureDescription string) *types.RelevanceJudgment {
	preview := content
	if len(preview) > maxContentLength {
		preview = preview[:maxContentLength] + "\n... (content truncated)"
	}

	prompt := fmt.Sprintf(`You are a code expert analyzing which files need to be modified to implement a feature.

Evaluate this file's relevance to implementing the following feature:

Feature: %s

File path: %s

File content preview:
`+"```"+`
%s
`+"```"+`

Return a JSON object with:
- relevance_score: number between 0 and 1 indicating semantic relevance
- importance: number from 1-10 (10 = most relevant, would definitely need modification)
- reason: brief explanation why this file matters for the feature (or doesn't)

Example: {"relevance_score":0.9,"importance": 8, "reason": "This file contains the button component that needs color modifications"}

Response format: Only include the raw JSON object with no explanations or additional text.`,
		featureDescription, path, preview)

	resp, err := e.LLM.GenerateText(ctx, prompt)
	if err != nil {
		e.Log.Warn("relevance call failed",
			zap.String("component", "relevance"), zap.String("file", path), zap.Error(err))
		return nil
	}

	var verdict struct {
		RelevanceScore float64 `json:"relevance_score"`
		Importance     int     `json:"importance"`
		Reason         string  `json:"reason"`
	}
	if err := jsonutil.UnmarshalLenient(resp, &verdict); err != nil {
		e.Log.Warn("relevance response not parseable",
			zap.String("component", "relevance"), zap.String("file", path), zap.Error(err))
		return nil
	}

	score := clampFloat(verdict.RelevanceScore, 0, 1)
	importance := clampInt(verdict.Importance, 1, 10)
	if score < minRelevance {
		return nil
	}

	reason := verdict.Reason
	if reason == "" {
		reason = "Relevance determined through semantic analysis"
	}
	return &types.RelevanceJudgment{
		Path:           path,
		RelevanceScore: score,
		Importance:     importance,
		Reason:         reason,
		ContentPreview: truncate(preview, previewLength),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
