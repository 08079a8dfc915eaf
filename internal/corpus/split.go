// Package corpus parses the flattened repository dump produced by the ingestion
// service back into individual files.
package corpus

import "strings"

const (
	fileMarker      = "File:"
	minSeparatorLen = 5
)

// Split parses a flattened repository corpus into a path -> content map.
//
// The corpus is a concatenation of per-file sections, each introduced by a
// "File: <path>" line, optionally framed by separator lines of repeated '='.
// Everything before the first marker is the directory-tree summary and is
// discarded. A separator directly adjacent to a marker is a boundary; a
// separator anywhere else is kept as ordinary content. Duplicate paths keep the
// last occurrence.
func Split(raw string) map[string]string {
	files := make(map[string]string)
	if raw == "" {
		return files
	}

	lines := strings.Split(raw, "\n")
	i := 0

	// Skip past the directory structure section.
	for i < len(lines) && !strings.HasPrefix(lines[i], fileMarker) {
		i++
	}

	var current string
	var content []string
	haveFile := false

	flush := func() {
		if haveFile {
			files[current] = strings.Join(content, "\n")
			content = content[:0]
		}
	}

	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, fileMarker):
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, fileMarker))
			haveFile = true
			i++
			// A separator directly after the marker frames the header.
			if i < len(lines) && isSeparator(lines[i]) {
				i++
			}
		case isSeparator(line) && i+1 < len(lines) && strings.HasPrefix(lines[i+1], fileMarker):
			// Separator closing the current section; the next marker flushes.
			i++
		default:
			content = append(content, line)
			i++
		}
	}
	flush()

	return files
}

// isSeparator reports whether line consists solely of '=' and is long enough to
// be a section divider rather than code.
func isSeparator(line string) bool {
	if len(line) < minSeparatorLen {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != '=' {
			return false
		}
	}
	return true
}
