package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"repoplan/internal/corpus"
	"repoplan/internal/llm"
	"repoplan/internal/types"
)

var (
	// ErrEmptyFeature rejects requests with no feature description; there is
	// nothing sensible to analyze or fabricate.
	ErrEmptyFeature = errors.New("pipeline: feature description is empty")
	// ErrBadRepoURL rejects URLs that do not contain an owner/name pair.
	ErrBadRepoURL = errors.New("pipeline: repository URL is not parseable")
)

const (
	keywordRetryAttempts = 2
	keywordRetryDelay    = 2 * time.Second
	maxRelevantFiles     = 15
)

// Options tune the analyzer; zero values fall back to defaults.
type Options struct {
	CacheTTL     time.Duration
	CacheEntries int
}

// Analyzer wires the full pipeline: split the corpus, extract keywords, filter
// candidates, fan out relevance calls, synthesize the plan. Successful results
// are cached per (repo URL, feature description) for the configured TTL.
type Analyzer struct {
	keywords  *KeywordExtractor
	evaluator *RelevanceEvaluator
	planner   *PlanSynthesizer
	log       *zap.Logger
	cache     *expirable.LRU[string, *types.AnalysisResult]
}

func NewAnalyzer(client llm.Client, log *zap.Logger, opts Options) *Analyzer {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.CacheEntries <= 0 {
		opts.CacheEntries = 128
	}
	return &Analyzer{
		keywords: &KeywordExtractor{
			LLM: llm.Wrap(client, llm.Retry(keywordRetryAttempts, keywordRetryDelay)),
			Log: log,
		},
		evaluator: &RelevanceEvaluator{LLM: client, Log: log},
		planner:   &PlanSynthesizer{LLM: client, Log: log},
		log:       log,
		cache:     expirable.NewLRU[string, *types.AnalysisResult](opts.CacheEntries, nil, opts.CacheTTL),
	}
}

// AnalyzeRepository runs the whole pipeline for one request. The only errors it
// returns are caller input errors; everything downstream degrades to defaults.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, repoContent, repoURL, featureDescription string) (*types.AnalysisResult, error) {
	if strings.TrimSpace(featureDescription) == "" {
		return nil, ErrEmptyFeature
	}
	repoName, err := RepoNameFromURL(repoURL)
	if err != nil {
		return nil, err
	}

	cacheKey := repoURL + "\x00" + featureDescription
	if cached, ok := a.cache.Get(cacheKey); ok {
		a.log.Info("analysis served from cache", zap.String("repo", repoName))
		return cached, nil
	}

	files := corpus.Split(repoContent)
	keywords := a.keywords.Extract(ctx, featureDescription)
	a.log.Info("extracted keywords",
		zap.String("repo", repoName),
		zap.Int("files", len(files)),
		zap.Strings("keywords", keywords))

	candidates := FilterCandidates(files, keywords)
	relevant := evaluateAll(ctx, a.evaluator, candidates, featureDescription)
	a.log.Info("relevance evaluation finished",
		zap.String("repo", repoName),
		zap.Int("candidates", len(candidates)),
		zap.Int("relevant", len(relevant)))

	plan := a.planner.Synthesize(ctx, repoName, featureDescription, relevant)

	top := relevant
	if len(top) > maxRelevantFiles {
		top = top[:maxRelevantFiles]
	}
	result := &types.AnalysisResult{
		RepositoryName:      repoName,
		FeatureSummary:      plan.FeatureSummary,
		SetupInstructions:   plan.SetupInstructions,
		RelevantFiles:       top,
		ImplementationSteps: plan.ImplementationSteps,
		PotentialChallenges: plan.PotentialChallenges,
	}
	a.cache.Add(cacheKey, result)
	return result, nil
}

// RepoNameFromURL derives "owner/name" from the last two path segments of a
// repository URL.
func RepoNameFromURL(repoURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return "", ErrBadRepoURL
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1], nil
}
