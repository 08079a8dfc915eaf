package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"repoplan/internal/llm"
	"repoplan/internal/util/jsonutil"
)

const (
	minKeywordLen    = 3
	maxKeywordLen    = 30
	fallbackKeywords = 10
)

// KeywordExtractor derives search terms from a feature description with one LLM
// call. The LLM client is expected to carry its own retry policy; when both
// attempts fail the extractor falls back to a deterministic local split, so
// Extract never fails outright.
type KeywordExtractor struct {
	LLM llm.Client
	Log *zap.Logger
}

func (e *KeywordExtractor) Extract(ctx context.Context, featureDescription string) []string {
	prompt := fmt.Sprintf(`You are a code expert helping to identify relevant files for implementing a feature.

Extract 10-20 key technical keywords or code identifiers from this feature description.
These will be used to search for relevant files in a codebase.
Focus on component names, functions, UI elements, variable names, and technical concepts.

Feature description: %s

Return the keywords as a JSON array of strings. Example: ["button", "onClick", "color", "styles", "theme"]

Response format: Only include the raw JSON array with no explanations or additional text.`, featureDescription)

	resp, err := e.LLM.GenerateText(ctx, prompt)
	if err != nil {
		e.Log.Warn("keyword extraction call failed, using local fallback",
			zap.String("component", "keywords"), zap.Error(err))
		return fallbackSplit(featureDescription)
	}

	var keywords []string
	if err := jsonutil.UnmarshalLenient(resp, &keywords); err != nil {
		e.Log.Warn("keyword response not parseable, using local fallback",
			zap.String("component", "keywords"), zap.Error(err))
		return fallbackSplit(featureDescription)
	}

	filtered := keywords[:0]
	for _, k := range keywords {
		if len(k) >= minKeywordLen && len(k) <= maxKeywordLen {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == 0 {
		return fallbackSplit(featureDescription)
	}
	return filtered
}

// fallbackSplit is the deterministic heuristic: whitespace tokens longer than
// three characters, capped at ten.
func fallbackSplit(featureDescription string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(featureDescription)) {
		if len(w) > 3 {
			out = append(out, w)
			if len(out) == fallbackKeywords {
				break
			}
		}
	}
	return out
}
