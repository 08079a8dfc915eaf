package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repoplan/internal/llm"
)

func TestEvaluate_Clamping(t *testing.T) {
	cases := []struct {
		name           string
		response       string
		wantScore      float64
		wantImportance int
	}{
		{"score above one", `{"relevance_score": 3.2, "importance": 5, "reason": "r"}`, 1, 5},
		{"importance above ten", `{"relevance_score": 0.8, "importance": 42, "reason": "r"}`, 0.8, 10},
		{"importance below one", `{"relevance_score": 0.8, "importance": -3, "reason": "r"}`, 0.8, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := &RelevanceEvaluator{
				LLM: llm.NewFakeClient(llm.FakeResponse{Text: tc.response}),
				Log: zap.NewNop(),
			}
			j := ev.Evaluate(context.Background(), "a.go", "content", "feature")
			require.NotNil(t, j)
			assert.Equal(t, tc.wantScore, j.RelevanceScore)
			assert.Equal(t, tc.wantImportance, j.Importance)
		})
	}
}

func TestEvaluate_ThresholdBoundary(t *testing.T) {
	ev := &RelevanceEvaluator{
		LLM: llm.NewFakeClient(llm.FakeResponse{Text: `{"relevance_score": 0.49, "importance": 9, "reason": "close"}`}),
		Log: zap.NewNop(),
	}
	assert.Nil(t, ev.Evaluate(context.Background(), "a.go", "c", "f"), "0.49 must be dropped")

	ev.LLM = llm.NewFakeClient(llm.FakeResponse{Text: `{"relevance_score": 0.5, "importance": 9, "reason": "edge"}`})
	assert.NotNil(t, ev.Evaluate(context.Background(), "a.go", "c", "f"), "0.5 must be retained")
}

func TestEvaluate_CallFailureIsAbsent(t *testing.T) {
	ev := &RelevanceEvaluator{
		LLM: llm.NewFakeClient(llm.FakeResponse{Err: context.DeadlineExceeded}),
		Log: zap.NewNop(),
	}
	assert.Nil(t, ev.Evaluate(context.Background(), "a.go", "c", "f"))
}

func TestEvaluate_GarbageResponseIsAbsent(t *testing.T) {
	ev := &RelevanceEvaluator{
		LLM: llm.NewFakeClient(llm.FakeResponse{Text: "I cannot rate this file, sorry."}),
		Log: zap.NewNop(),
	}
	assert.Nil(t, ev.Evaluate(context.Background(), "a.go", "c", "f"))
}

func TestEvaluate_PreviewBounded(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	ev := &RelevanceEvaluator{
		LLM: llm.NewFakeClient(llm.FakeResponse{Text: `{"relevance_score": 0.9, "importance": 5, "reason": "r"}`}),
		Log: zap.NewNop(),
	}
	j := ev.Evaluate(context.Background(), "big.go", string(long), "f")
	require.NotNil(t, j)
	assert.LessOrEqual(t, len(j.ContentPreview), previewLength+len("..."))
}
