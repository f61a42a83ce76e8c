// Package fileparser turns raw CSV or JSON import payloads into loosely typed
// records. Pure functions: text in, records out. No vocabulary semantics
// beyond header synonyms.
package fileparser

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
)

// Record is one parsed row. Values are string, bool, int, float64, []string
// (CSV) or any JSON value decoded with json.Number for numbers.
type Record map[string]any

// ParseResult is the outcome of parsing one payload. A non-empty Errors makes
// the whole payload unusable.
type ParseResult struct {
	Records  []Record
	Errors   []string
	Warnings []string
}

// OK reports whether parsing produced no errors.
func (r ParseResult) OK() bool { return len(r.Errors) == 0 }

func failed(format string, args ...any) ParseResult {
	return ParseResult{Errors: []string{fmt.Sprintf(format, args...)}}
}

// Parse dispatches on the declared file type.
func Parse(content string, fileType domain.FileType) ParseResult {
	switch fileType {
	case domain.FileTypeCSV:
		return ParseCSV(content)
	case domain.FileTypeJSON:
		return ParseJSON(content)
	default:
		return failed("unsupported file type: %s", fileType)
	}
}

// DetectFormat sniffs content. JSON wins when the trimmed text is a complete
// JSON array or object; otherwise the first two non-empty lines must both
// contain commas with comma counts differing by at most one.
func DetectFormat(content string) domain.FileType {
	trimmed := strings.TrimSpace(content)
	if looksLikeJSON(trimmed) {
		return domain.FileTypeJSON
	}

	lines := nonEmptyLines(trimmed)
	if len(lines) < 2 {
		return domain.FileTypeUnknown
	}
	first, second := strings.Count(lines[0], ","), strings.Count(lines[1], ",")
	if first == 0 || second == 0 {
		return domain.FileTypeUnknown
	}
	if diff := first - second; diff >= -1 && diff <= 1 {
		return domain.FileTypeCSV
	}
	return domain.FileTypeUnknown
}

// FileTypeFromName guesses the type from a file extension.
func FileTypeFromName(name string) domain.FileType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return domain.FileTypeCSV
	case strings.HasSuffix(lower, ".json"):
		return domain.FileTypeJSON
	}
	return domain.FileTypeUnknown
}

func nonEmptyLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
