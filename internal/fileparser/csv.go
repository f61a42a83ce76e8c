package fileparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var requiredHeaders = []string{"word", "translation", "grade"}

// headerSynonyms maps compacted lowercase header spellings to field names.
var headerSynonyms = map[string]string{
	"english":            "word",
	"englishword":        "word",
	"vocabulary":         "word",
	"chinese":            "translation",
	"chinesetranslation": "translation",
	"meaning":            "translation",
	"gradelevel":         "grade",
	"class":              "grade",
	"pronunciation":      "phonetic",
	"ipa":                "phonetic",
	"phonetics":          "phonetic",
	"pos":                "partOfSpeech",
	"partofspeech":       "partOfSpeech",
	"wordtype":           "partOfSpeech",
	"type":               "partOfSpeech",
	"freq":               "frequency",
	"textbook":           "textbookVersion",
	"textbookversion":    "textbookVersion",
	"book":               "textbookVersion",
	"version":            "textbookVersion",
	"examples":           "example",
	"samplesentence":     "example",
	"sentence":           "example",
	"learned":            "isLearned",
	"islearned":          "isLearned",
	"mastery":            "masteryLevel",
	"masterylevel":       "masteryLevel",
}

// uncoerced lists fields whose values are always kept as text, so a word
// like "yes" or "100" is never turned into a bool or a number.
var uncoerced = map[string]bool{
	"id":          true,
	"word":        true,
	"translation": true,
	"phonetic":    true,
	"example":     true,
}

var (
	intPattern   = regexp.MustCompile(`^\d+$`)
	floatPattern = regexp.MustCompile(`^\d*\.\d+$`)
)

// ParseCSV parses comma-separated text whose first non-empty line is a header.
func ParseCSV(content string) ParseResult {
	lines := nonEmptyLines(content)
	if len(lines) == 0 {
		return failed("CSV file is empty")
	}

	rawHeaders := splitCSVLine(lines[0])
	headers := make([]string, 0, len(rawHeaders))
	for _, h := range rawHeaders {
		headers = append(headers, NormalizeHeader(h))
	}
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		if h != "" {
			present[h] = true
		}
	}
	if len(present) == 0 {
		return failed("CSV header is empty")
	}
	var missing []string
	for _, req := range requiredHeaders {
		if !present[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return failed("Missing required headers: %s", strings.Join(missing, ", "))
	}

	res := ParseResult{Records: make([]Record, 0, len(lines)-1)}
	for i, line := range lines[1:] {
		values := splitCSVLine(line)
		if len(values) != len(headers) {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"Row %d: Column count mismatch (expected %d, got %d)", i+2, len(headers), len(values)))
		}

		rec := make(Record, len(headers))
		for col, h := range headers {
			if h == "" || col >= len(values) {
				continue
			}
			if v, ok := coerce(h, values[col]); ok {
				rec[h] = v
			}
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// splitCSVLine scans one line into trimmed fields. Double quotes toggle quoted
// mode, a doubled quote inside quotes is a literal quote, and commas only
// separate fields outside quotes.
func splitCSVLine(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(cur.String()))
}

// NormalizeHeader converts a header cell to a camelCase field name and maps
// known synonyms ("Chinese", "IPA", "Part of Speech") to canonical fields.
func NormalizeHeader(header string) string {
	words := strings.FieldsFunc(strings.ToLower(header), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	camel := b.String()

	if canonical, ok := headerSynonyms[strings.ToLower(camel)]; ok {
		return canonical
	}
	return camel
}

// coerce converts a raw cell into a typed value. Empty cells are dropped.
func coerce(field, raw string) (any, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil, false
	}
	if uncoerced[field] {
		return v, true
	}

	switch strings.ToLower(v) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}

	if intPattern.MatchString(v) {
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	if floatPattern.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}

	if strings.Contains(v, ",") && !strings.Contains(v, " ") {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, true
	}
	return v, true
}
