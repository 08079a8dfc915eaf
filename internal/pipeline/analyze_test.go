package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"repoplan/internal/llm"
)

const demoCorpus = `Directory structure:
└── src/

================================================
File: a.py
================================================
def render_button():
    return "button"
================================================
File: b.py
================================================
def irrelevant():
    pass`

// scriptedClient answers by inspecting the prompt, so the concurrent relevance
// calls cannot race over a shared script position.
func scriptedClient() llm.Client {
	return promptClient{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Extract 10-20 key technical keywords"):
			return `["button", "component"]`, nil
		case strings.Contains(prompt, "Evaluate this file's relevance"):
			return `{"relevance_score": 0.9, "importance": 8, "reason": "contains the button"}`, nil
		default:
			return `{
				"feature_summary": "Add the button component",
				"setup_instructions": [{"step_number": 1, "description": "Install deps", "code": "pip install -r requirements.txt"}],
				"implementation_steps": [{"step_number": 1, "description": "Modify a.py", "file_path": "a.py", "code_snippet": "..."}],
				"potential_challenges": ["None expected"]
			}`, nil
		}
	}}
}

func TestAnalyzeRepository_EndToEnd(t *testing.T) {
	a := NewAnalyzer(scriptedClient(), zap.NewNop(), Options{})
	res, err := a.AnalyzeRepository(context.Background(),
		demoCorpus, "https://github.com/acme/demo", "add a button component")
	require.NoError(t, err)

	assert.Equal(t, "acme/demo", res.RepositoryName)
	require.Len(t, res.RelevantFiles, 1, "only a.py passes the keyword filter")
	assert.Equal(t, "a.py", res.RelevantFiles[0].Path)
	assert.Equal(t, 8, res.RelevantFiles[0].Importance)

	require.Len(t, res.ImplementationSteps, 1)
	require.NotNil(t, res.ImplementationSteps[0].FilePath)
	assert.Equal(t, "a.py", *res.ImplementationSteps[0].FilePath)
}

func TestAnalyzeRepository_EmptyFeatureRejected(t *testing.T) {
	a := NewAnalyzer(llm.NewFakeClient(), zap.NewNop(), Options{})
	_, err := a.AnalyzeRepository(context.Background(), demoCorpus, "https://github.com/acme/demo", "   ")
	assert.ErrorIs(t, err, ErrEmptyFeature)
}

func TestAnalyzeRepository_BadURLRejected(t *testing.T) {
	a := NewAnalyzer(llm.NewFakeClient(), zap.NewNop(), Options{})
	_, err := a.AnalyzeRepository(context.Background(), demoCorpus, "nonsense", "add a button")
	assert.ErrorIs(t, err, ErrBadRepoURL)
}

func TestAnalyzeRepository_CacheHit(t *testing.T) {
	calls := 0
	client := promptClient{fn: func(prompt string) (string, error) {
		calls++
		base := scriptedClient()
		return base.GenerateText(context.Background(), prompt)
	}}
	a := NewAnalyzer(client, zap.NewNop(), Options{})

	first, err := a.AnalyzeRepository(context.Background(), demoCorpus, "https://github.com/acme/demo", "add a button component")
	require.NoError(t, err)
	after := calls

	second, err := a.AnalyzeRepository(context.Background(), demoCorpus, "https://github.com/acme/demo", "add a button component")
	require.NoError(t, err)
	assert.Equal(t, after, calls, "a cache hit must not touch the model")
	assert.Equal(t, first, second)
}

func TestAnalyzeRepository_EmptyCorpusStillPlans(t *testing.T) {
	a := NewAnalyzer(scriptedClient(), zap.NewNop(), Options{})
	res, err := a.AnalyzeRepository(context.Background(), "", "https://github.com/acme/demo", "add a button component")
	require.NoError(t, err)
	assert.Empty(t, res.RelevantFiles)
	require.NotEmpty(t, res.ImplementationSteps)
	require.NotEmpty(t, res.SetupInstructions)
}

func TestRepoNameFromURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://github.com/acme/demo", "acme/demo", true},
		{"https://github.com/acme/demo/", "acme/demo", true},
		{"acme/demo", "acme/demo", true},
		{"", "", false},
		{"demo", "", false},
	}
	for _, tc := range cases {
		got, err := RepoNameFromURL(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.want, got, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrBadRepoURL, tc.in)
		}
	}
}
