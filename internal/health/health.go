// Package health reports service liveness, including a live ping of the model
// backend.
package health

import (
	"context"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"repoplan/internal/llm"
)

type Status struct {
	Status        string         `json:"status"`
	Message       string         `json:"message,omitempty"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Dependencies  map[string]Dep `json:"dependencies"`
	System        System         `json:"system"`
}

type Dep struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type System struct {
	Goroutines  int    `json:"goroutines"`
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	Platform    string `json:"platform"`
	GoVersion   string `json:"go_version"`
}

type Service struct {
	llm   llm.Client
	log   *zap.Logger
	start time.Time
}

func NewService(client llm.Client, log *zap.Logger) *Service {
	return &Service{llm: client, log: log, start: time.Now()}
}

// Check pings the model backend and gathers runtime metrics. The overall status
// follows the model dependency: ok, degraded, or error.
func (s *Service) Check(ctx context.Context) Status {
	dep := Dep{Status: "ok"}
	resp, err := s.llm.GenerateText(ctx, "Return only 'OK' if you can process this message.")
	switch {
	case err != nil:
		dep = Dep{Status: "error", Message: err.Error()}
		s.log.Warn("model ping failed", zap.String("component", "health"), zap.Error(err))
	case !strings.Contains(strings.ToLower(resp), "ok"):
		dep = Dep{Status: "degraded", Message: "Unexpected response from API"}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Status{
		Status:        dep.Status,
		Message:       dep.Message,
		UptimeSeconds: time.Since(s.start).Seconds(),
		Dependencies:  map[string]Dep{"model_api": dep},
		System: System{
			Goroutines:  runtime.NumGoroutine(),
			HeapAllocMB: mem.HeapAlloc / (1024 * 1024),
			Platform:    runtime.GOOS + "/" + runtime.GOARCH,
			GoVersion:   runtime.Version(),
		},
	}
}
