package health

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"repoplan/internal/llm"
)

func TestCheck_OK(t *testing.T) {
	s := NewService(llm.NewFakeClient(llm.FakeResponse{Text: "OK"}), zap.NewNop())
	st := s.Check(context.Background())
	if st.Status != "ok" {
		t.Fatalf("got %q", st.Status)
	}
	if st.Dependencies["model_api"].Status != "ok" {
		t.Fatalf("dependency status %q", st.Dependencies["model_api"].Status)
	}
	if st.System.GoVersion == "" {
		t.Fatal("expected runtime info")
	}
}

func TestCheck_Degraded(t *testing.T) {
	s := NewService(llm.NewFakeClient(llm.FakeResponse{Text: "something else"}), zap.NewNop())
	if st := s.Check(context.Background()); st.Status != "degraded" {
		t.Fatalf("got %q", st.Status)
	}
}

func TestCheck_Error(t *testing.T) {
	s := NewService(llm.NewFakeClient(llm.FakeResponse{Err: errors.New("down")}), zap.NewNop())
	st := s.Check(context.Background())
	if st.Status != "error" {
		t.Fatalf("got %q", st.Status)
	}
	if st.Dependencies["model_api"].Message == "" {
		t.Fatal("expected the original error message")
	}
}
