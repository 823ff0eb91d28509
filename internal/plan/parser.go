// Package plan extracts and rewrites [USER] markers in markdown plan files.
//
// A marker line is a line that, after leading whitespace and an optional
// list bullet, begins with a [USER...] token:
//
//	- [USER] Configure API keys
//	- [USER:wip] Draft the proposal
//	- [USER:done] Review the design
//	- [USER:skip] Not needed after all
//
// Parsing is pure: it never touches the filesystem. Rewriting replaces only
// the marker span and preserves every other byte, including the line
// terminator style of each line.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/minmind/minmind/internal/models"
	"github.com/rs/zerolog/log"
)

// ParsedAction is a single [USER] marker extracted from a plan file.
// Identity is positional: the 1-based line number in the source.
type ParsedAction struct {
	Title      string
	LineNumber int
	Status     models.ActionStatus
}

// ParseResult holds all actions extracted from one file, ordered by line
// number.
type ParseResult struct {
	SourceFile string
	Actions    []ParsedAction
}

// Parse scans content line by line for [USER] markers. Marker lines with
// empty titles are ignored. Unknown [user:*] suffixes fall back to pending.
func Parse(content, sourceFile string) ParseResult {
	result := ParseResult{SourceFile: sourceFile}
	for i, ln := range splitLines(content) {
		if action, ok := parseMarkerLine(ln.text, i+1); ok {
			result.Actions = append(result.Actions, action)
		}
	}
	return result
}

// parseMarkerLine matches a single line against the marker grammar:
// leading horizontal whitespace, at most one "-" followed by at least one
// whitespace character, then "[USER" with a closing "]" before end of line.
func parseMarkerLine(text string, lineNumber int) (ParsedAction, bool) {
	s := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(s, "-") {
		rest := strings.TrimLeft(s[1:], " \t")
		if rest == s[1:] {
			// Bullet not followed by whitespace; not a list item.
			return ParsedAction{}, false
		}
		s = rest
	}

	if len(s) < len("[USER") || !strings.EqualFold(s[:len("[USER")], "[USER") {
		return ParsedAction{}, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return ParsedAction{}, false
	}

	title := strings.TrimSpace(s[end+1:])
	if title == "" {
		return ParsedAction{}, false
	}

	return ParsedAction{
		Title:      title,
		LineNumber: lineNumber,
		Status:     markerStatus(s[:end+1]),
	}, true
}

// markerStatus maps a marker token to a status. Markers are
// case-insensitive; unrecognized suffixes are treated as pending.
func markerStatus(marker string) models.ActionStatus {
	switch strings.ToLower(marker) {
	case "[user]":
		return models.ActionPending
	case "[user:wip]", "[user:inprogress]", "[user:in_progress]":
		return models.ActionInProgress
	case "[user:done]", "[user:completed]":
		return models.ActionCompleted
	case "[user:skip]", "[user:skipped]":
		return models.ActionSkipped
	default:
		return models.ActionPending
	}
}

// Rewrite replaces the marker span on each updated line with the canonical
// marker for the new status. Lines without a [USER...] token, and all bytes
// outside the marker span, are preserved exactly; line terminators are
// re-emitted as found.
func Rewrite(content string, updates map[int]models.ActionStatus) string {
	if len(updates) == 0 {
		return content
	}

	lines := splitLines(content)
	var b strings.Builder
	b.Grow(len(content))
	for i, ln := range lines {
		if status, ok := updates[i+1]; ok {
			b.WriteString(rewriteLine(ln.text, status))
		} else {
			b.WriteString(ln.text)
		}
		b.WriteString(ln.term)
	}
	return b.String()
}

// rewriteLine swaps the first [USER...] span for the canonical marker.
// Lines without a complete marker are returned unchanged.
func rewriteLine(text string, status models.ActionStatus) string {
	start := indexFold(text, "[USER")
	if start < 0 {
		return text
	}
	end := strings.IndexByte(text[start:], ']')
	if end < 0 {
		return text
	}
	return text[:start] + status.Marker() + text[start+end+1:]
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(s, needle string) int {
	for i := 0; i+len(needle) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// line is one logical line plus the terminator that followed it in the
// input ("" for a final unterminated line).
type line struct {
	text string
	term string
}

// splitLines splits content into lines, recording each line's terminator
// so Rewrite can reproduce the input byte-for-byte.
func splitLines(content string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		text, term := content[start:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, term = text[:len(text)-1], "\r\n"
		}
		lines = append(lines, line{text, term})
		start = i + 1
	}
	if start < len(content) {
		lines = append(lines, line{content[start:], ""})
	}
	return lines
}

// ParseFile reads and parses a single plan file.
func ParseFile(path string) (ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("plan: read %s: %w", path, err)
	}
	return Parse(string(data), path), nil
}

// ScanDirectory parses every regular file in dir whose name matches
// pattern (non-recursive). Files that fail to read are logged and skipped;
// files with no actions are dropped. Each result is ordered by line number;
// result order follows the directory listing.
func ScanDirectory(dir, pattern string) ([]ParseResult, error) {
	if pattern == "" {
		pattern = "*.md"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("plan: scan %s: %w", dir, err)
	}

	var results []ParseResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("plan: bad pattern %q: %w", pattern, err)
		}
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		result, err := ParseFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable plan file")
			continue
		}
		if len(result.Actions) == 0 {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}
