package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsAfterFailure(t *testing.T) {
	fake := NewFakeClient(
		FakeResponse{Err: errors.New("transient")},
		FakeResponse{Text: "ok"},
	)
	c := Wrap(fake, Retry(2, time.Millisecond))
	got, err := c.GenerateText(context.Background(), "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("got %q", got)
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected 2 attempts, got %d", fake.Calls())
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("still down")
	fake := NewFakeClient(FakeResponse{Err: boom})
	c := Wrap(fake, Retry(2, time.Millisecond))
	_, err := c.GenerateText(context.Background(), "p")
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if fake.Calls() != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", fake.Calls())
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	fake := NewFakeClient(FakeResponse{Err: errors.New("transient")})
	c := Wrap(fake, Retry(5, time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GenerateText(ctx, "p")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if fake.Calls() != 1 {
		t.Fatalf("expected a single attempt, got %d", fake.Calls())
	}
}

func TestFakeClient_ScriptRepeatsLastResponse(t *testing.T) {
	fake := NewFakeClient(FakeResponse{Text: "a"}, FakeResponse{Text: "b"})
	ctx := context.Background()
	for _, want := range []string{"a", "b", "b"} {
		got, err := fake.GenerateText(ctx, "p")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("want %q, got %q", want, got)
		}
	}
}
