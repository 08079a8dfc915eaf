// Package ingest covers the boundary to the repository-ingestion service: URL
// normalization, accessibility checks against the GitHub API, and the summary
// arithmetic reported alongside a packed corpus.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrNotFound      = errors.New("ingest: repository not found")
	ErrNotAccessible = errors.New("ingest: repository is not accessible, make sure it is public")
)

// PackRequest describes one packing job for the ingestion service.
type PackRequest struct {
	RepoURL         string   `json:"repo_url"`
	MaxFileSize     int      `json:"max_file_size,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`
}

// PackResult is what the ingestion service hands back: a fixed-format summary,
// a directory tree, and the flattened corpus.
type PackResult struct {
	Summary string
	Tree    string
	Content string
}

// Packer is the upstream collaborator that flattens a repository.
type Packer interface {
	Pack(ctx context.Context, req PackRequest) (PackResult, error)
}

// NormalizeGitHubURL converts the common GitHub URL variants into a canonical
// form, or reports false for anything that is not a public GitHub repo URL.
func NormalizeGitHubURL(raw string) (string, bool) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", false
	}
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimSuffix(url, "/")
	if !strings.HasPrefix(url, "https://github.com/") && !strings.HasPrefix(url, "http://github.com/") {
		return "", false
	}
	return url, true
}

// Checker verifies that a repository is reachable before packing is attempted.
type Checker struct {
	HTTP *http.Client
	// APIBase overrides the GitHub API root, for tests.
	APIBase string
}

// CheckAccess probes the GitHub REST API for the repository. Non-GitHub URLs
// pass through unchecked.
func (c *Checker) CheckAccess(ctx context.Context, repoURL string) error {
	if !strings.Contains(repoURL, "github.com") {
		return nil
	}
	base := c.APIBase
	if base == "" {
		base = "https://api.github.com/repos"
	}
	apiURL := base + "/" + strings.TrimPrefix(ownerAndName(repoURL), "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("ingest: building access check request: %w", err)
	}
	cli := c.HTTP
	if cli == nil {
		cli = http.DefaultClient
	}
	resp, err := cli.Do(req)
	if err != nil {
		return fmt.Errorf("ingest: checking repository: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusForbidden:
		return ErrNotAccessible
	case resp.StatusCode >= 400:
		return fmt.Errorf("ingest: GitHub API error: %d", resp.StatusCode)
	}
	return nil
}

// ownerAndName extracts the trailing owner/name pair from a repository URL.
func ownerAndName(repoURL string) string {
	trimmed := strings.TrimRight(repoURL, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return trimmed
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// EstimateTokens gives a rough token count for text: whitespace-delimited words
// with a character-based floor for unsegmented content.
func EstimateTokens(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if words := strings.Fields(text); len(words) > 0 {
		return len(words)
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// FormatTokenCount renders a token count the way the pack summary line does:
// plain below a thousand, then "12.3k", then "1.2M".
func FormatTokenCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// Summary produces the fixed-format report the ingestion service attaches to a
// packed corpus.
func Summary(files map[string]string) string {
	total := 0
	for _, content := range files {
		total += EstimateTokens(content)
	}
	return fmt.Sprintf("Files analyzed: %d\nEstimated tokens: %s", len(files), FormatTokenCount(total))
}

// FileTokens pairs a path with its estimated token count.
type FileTokens struct {
	Path   string `json:"path"`
	Tokens int    `json:"tokens"`
}

// LargestFiles returns the n heaviest files by estimated tokens, descending;
// ties break by path for a stable report.
func LargestFiles(files map[string]string, n int) []FileTokens {
	out := make([]FileTokens, 0, len(files))
	for path, content := range files {
		out = append(out, FileTokens{Path: path, Tokens: EstimateTokens(content)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tokens != out[j].Tokens {
			return out[i].Tokens > out[j].Tokens
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
