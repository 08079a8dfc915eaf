package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"repoplan/internal/corpus"
	"repoplan/internal/health"
	"repoplan/internal/ingest"
	"repoplan/internal/pipeline"
)

type Handlers struct {
	Analyzer *pipeline.Analyzer
	Checker  *ingest.Checker
	Health   *health.Service
	Log      *zap.Logger
}

type analyzeRequest struct {
	RepoContent        string `json:"repo_content"`
	RepoURL            string `json:"repo_url"`
	FeatureDescription string `json:"feature_description"`
}

func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	result, err := h.Analyzer.AnalyzeRepository(r.Context(), in.RepoContent, in.RepoURL, in.FeatureDescription)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrEmptyFeature):
			httpError(w, "feature_description is required", http.StatusBadRequest)
		case errors.Is(err, pipeline.ErrBadRepoURL):
			httpError(w, "repo_url is not a valid repository URL", http.StatusBadRequest)
		default:
			h.Log.Error("analysis failed", zap.String("repo", in.RepoURL), zap.Error(err))
			httpError(w, "analysis failed", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type packRequest struct {
	RepoURL string `json:"repo_url"`
	Content string `json:"content"`
}

type packResponse struct {
	FilesAnalyzed   int                 `json:"files_analyzed"`
	EstimatedTokens string              `json:"estimated_tokens"`
	LargestFiles    []ingest.FileTokens `json:"largest_files"`
}

func (h *Handlers) handlePack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in packRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, "invalid json body", http.StatusBadRequest)
		return
	}
	url, ok := ingest.NormalizeGitHubURL(in.RepoURL)
	if !ok {
		httpError(w, "repo_url must be a GitHub repository URL", http.StatusBadRequest)
		return
	}
	if err := h.Checker.CheckAccess(r.Context(), url); err != nil {
		switch {
		case errors.Is(err, ingest.ErrNotFound):
			httpError(w, "repository not found", http.StatusNotFound)
		case errors.Is(err, ingest.ErrNotAccessible):
			httpError(w, "repository is not accessible, make sure it is public", http.StatusForbidden)
		default:
			h.Log.Warn("repository access check failed", zap.String("repo", url), zap.Error(err))
			httpError(w, "could not verify repository access", http.StatusBadGateway)
		}
		return
	}

	files := corpus.Split(in.Content)
	total := 0
	for _, content := range files {
		total += ingest.EstimateTokens(content)
	}
	writeJSON(w, http.StatusOK, packResponse{
		FilesAnalyzed:   len(files),
		EstimatedTokens: ingest.FormatTokenCount(total),
		LargestFiles:    ingest.LargestFiles(files, 10),
	})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.Health.Check(r.Context()))
}

func (h *Handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if strings.TrimRight(r.URL.Path, "/") != "" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the repoplan API"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
