package git

import "strings"

// parseStatusOutput extracts file paths from git status --porcelain output.
// Each line is in format "XY filename" where XY is a 2-character status code.
// The format is exactly: 2 status chars + 1 space + filename.
func parseStatusOutput(output []byte) []string {
	lines := strings.Split(string(output), "\n")
	var files []string

	for _, line := range lines {
		// Don't trim leading spaces - they're part of the status code
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}
		filename := extractFilename(line[3:])
		if filename != "" {
			files = append(files, filename)
		}
	}

	return files
}

// extractFilename handles both regular filenames and rename format.
func extractFilename(raw string) string {
	// Handle rename format: "old -> new"
	if _, after, found := strings.Cut(raw, " -> "); found {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(raw)
}
