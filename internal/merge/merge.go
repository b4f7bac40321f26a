// Package merge splices generated text into host project files.
//
// A generated region is delimited by a literal start marker and end marker.
// Only the text between the first start marker and the next end marker after
// it is owned by tamer; every byte outside that span is left untouched. Files
// with more than one marker pair are not supported: only the first pair is
// rewritten.
package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Outcome describes what happened to one target file.
type Outcome int

const (
	// OutcomeUpdated means an existing marker span was rewritten.
	OutcomeUpdated Outcome = iota
	// OutcomeAppended means the markers were missing and a fresh block was
	// appended at the end of the file.
	OutcomeAppended
	// OutcomeSkippedMissing means the target file does not exist.
	OutcomeSkippedMissing
	// OutcomeGenerated means a fully owned file was written.
	OutcomeGenerated
	// OutcomeFailed means reading or writing the target failed.
	OutcomeFailed
)

// String returns the outcome label used in summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeAppended:
		return "appended"
	case OutcomeSkippedMissing:
		return "skipped-missing"
	case OutcomeGenerated:
		return "generated"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Block renders a complete marker-delimited block.
func Block(start, end, body string) string {
	return start + "\n" + body + "\n" + end
}

// ReplaceSection replaces the span from the first occurrence of start through
// the first occurrence of end that follows it with Block(start, end, body).
// It reports false, and returns content unchanged, when no such span exists.
func ReplaceSection(content, start, end, body string) (string, bool) {
	if start == "" || end == "" {
		return content, false
	}

	i := strings.Index(content, start)
	if i < 0 {
		return content, false
	}
	j := strings.Index(content[i+len(start):], end)
	if j < 0 {
		return content, false
	}
	spanEnd := i + len(start) + j + len(end)

	var b strings.Builder
	b.Grow(len(content) - (spanEnd - i) + len(start) + len(body) + len(end) + 2)
	b.WriteString(content[:i])
	b.WriteString(Block(start, end, body))
	b.WriteString(content[spanEnd:])
	return b.String(), true
}

// AppendSection appends a fresh block, preceded by a newline, to content.
func AppendSection(content, start, end, body string) string {
	return content + "\n" + Block(start, end, body) + "\n"
}

// Apply merges body into content, falling back to an append when the
// markers are absent.
func Apply(content, start, end, body string) (string, Outcome) {
	if merged, ok := ReplaceSection(content, start, end, body); ok {
		return merged, OutcomeUpdated
	}
	return AppendSection(content, start, end, body), OutcomeAppended
}

// MergeFile rewrites the generated section of the file at path. A missing
// file is skipped, never created. The file is only written when its content
// changes, and keeps its permissions.
func MergeFile(path, start, end, body string) (Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return OutcomeSkippedMissing, nil
		}
		return OutcomeFailed, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return OutcomeFailed, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("reading %s: %w", path, err)
	}

	original := string(data)
	merged, outcome := Apply(original, start, end, body)
	if merged == original {
		return outcome, nil
	}

	if err := os.WriteFile(path, []byte(merged), info.Mode().Perm()); err != nil {
		return OutcomeFailed, fmt.Errorf("writing %s: %w", path, err)
	}
	return outcome, nil
}

// WriteOwned writes a file tamer owns outright, creating parent directories.
func WriteOwned(path, content string) (Outcome, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return OutcomeFailed, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		return OutcomeGenerated, nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return OutcomeFailed, fmt.Errorf("writing %s: %w", path, err)
	}
	return OutcomeGenerated, nil
}
