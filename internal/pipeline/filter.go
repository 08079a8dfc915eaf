package pipeline

import (
	"sort"
	"strings"

	"repoplan/internal/types"
)

// contentScanWindow bounds how far into a file the keyword pre-filter looks.
// Files whose distinguishing terms appear only past this point are missed; the
// filter trades recall for fewer downstream model calls.
const contentScanWindow = 1000

// FilterCandidates keeps files where at least one keyword appears,
// case-insensitively, in the path or within the first contentScanWindow bytes
// of content. Candidates are returned in path order so downstream tie-breaking
// is reproducible.
func FilterCandidates(files map[string]string, keywords []string) []types.FileRecord {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(k); k != "" {
			lowered = append(lowered, k)
		}
	}
	if len(lowered) == 0 {
		return nil
	}

	var out []types.FileRecord
	for path, content := range files {
		head := content
		if len(head) > contentScanWindow {
			head = head[:contentScanWindow]
		}
		lowerPath := strings.ToLower(path)
		lowerHead := strings.ToLower(head)
		for _, k := range lowered {
			if strings.Contains(lowerPath, k) || strings.Contains(lowerHead, k) {
				out = append(out, types.FileRecord{Path: path, Content: content})
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
