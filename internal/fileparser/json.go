package fileparser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ParseJSON accepts a top-level array of objects, an object holding exactly
// one array-valued property, or a single object.
func ParseJSON(content string) ParseResult {
	parsed, err := decodeJSON(content)
	if err != nil {
		return failed("JSON parsing error: %v", err)
	}

	var (
		items []any
		res   ParseResult
	)
	switch v := parsed.(type) {
	case []any:
		items = v
	case map[string]any:
		var arrayKeys []string
		for k, val := range v {
			if _, ok := val.([]any); ok {
				arrayKeys = append(arrayKeys, k)
			}
		}
		sort.Strings(arrayKeys)
		switch len(arrayKeys) {
		case 0:
			items = []any{v}
			res.Warnings = append(res.Warnings, "Single object converted to array")
		case 1:
			items = v[arrayKeys[0]].([]any)
			res.Warnings = append(res.Warnings, "Using array from property: "+arrayKeys[0])
		default:
			return failed("Multiple arrays found in JSON. Please specify which one to use: %s",
				strings.Join(arrayKeys, ", "))
		}
	default:
		return failed("JSON must contain an array or object")
	}

	res.Records = make([]Record, 0, len(items))
	invalid := 0
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			invalid++
			continue
		}
		res.Records = append(res.Records, Record(obj))
	}
	if invalid > 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("%d items are not valid objects", invalid))
	}
	return res
}

func decodeJSON(content string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func looksLikeJSON(trimmed string) bool {
	if len(trimmed) < 2 {
		return false
	}
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	if !(first == '{' && last == '}') && !(first == '[' && last == ']') {
		return false
	}
	return json.Valid([]byte(trimmed))
}
