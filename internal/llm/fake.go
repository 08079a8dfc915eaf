package llm

import (
	"context"
	"sync"
)

// FakeClient returns scripted responses for offline use and tests. Responses are
// consumed in order; the last one repeats once the script is exhausted. A nil
// Err entry means success.
type FakeClient struct {
	mu      sync.Mutex
	script  []FakeResponse
	pos     int
	Prompts []string
}

type FakeResponse struct {
	Text string
	Err  error
}

func NewFakeClient(script ...FakeResponse) *FakeClient {
	if len(script) == 0 {
		script = []FakeResponse{{Text: "{}"}}
	}
	return &FakeClient{script: script}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	r := f.script[f.pos]
	if f.pos < len(f.script)-1 {
		f.pos++
	}
	return r.Text, r.Err
}

// Calls reports how many generate calls have been issued.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
