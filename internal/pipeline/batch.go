package pipeline

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"repoplan/internal/types"
)

// batchSize caps how many relevance calls are in flight at once. Batches run
// sequentially; within a batch each task writes only its own result slot.
const batchSize = 5

// evaluateAll fans the candidates out to the evaluator in fixed-size batches
// and returns every retained judgment, stably sorted by importance descending.
// Task failures surface as absent results, never as errors.
func evaluateAll(ctx context.Context, ev *RelevanceEvaluator, candidates []types.FileRecord, featureDescription string) []types.RelevanceJudgment {
	var relevant []types.RelevanceJudgment

	for start := 0; start < len(candidates); start += batchSize {
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		results := make([]*types.RelevanceJudgment, len(batch))

		var g errgroup.Group
		for i, fr := range batch {
			g.Go(func() error {
				results[i] = ev.Evaluate(ctx, fr.Path, fr.Content, featureDescription)
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			if r != nil {
				relevant = append(relevant, *r)
			}
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Importance > relevant[j].Importance
	})
	return relevant
}
