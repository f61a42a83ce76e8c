package fileparser

import (
	"encoding/json"
	"strconv"
	"strings"
)

var templateHeaders = []string{
	"word", "phonetic", "translation", "grade", "category", "difficulty",
	"frequency", "partOfSpeech", "example", "collocations", "textbookVersion", "unit",
}

type templateRow struct {
	Word            string   `json:"word"`
	Phonetic        string   `json:"phonetic"`
	Translation     string   `json:"translation"`
	Grade           string   `json:"grade"`
	Category        string   `json:"category"`
	Difficulty      string   `json:"difficulty"`
	Frequency       int      `json:"frequency"`
	PartOfSpeech    string   `json:"partOfSpeech"`
	Example         string   `json:"example"`
	Collocations    []string `json:"collocations"`
	TextbookVersion string   `json:"textbookVersion"`
	Unit            string   `json:"unit"`
}

var templateRows = []templateRow{
	{
		Word: "hello", Phonetic: "/həˈloʊ/", Translation: "你好", Grade: "primary1",
		Category: "问候", Difficulty: "easy", Frequency: 10, PartOfSpeech: "interjection",
		Example: "Hello, how are you?", Collocations: []string{"hello world", "say hello"},
		TextbookVersion: "PEP", Unit: "Unit 1",
	},
	{
		Word: "apple", Phonetic: "/ˈæpəl/", Translation: "苹果", Grade: "primary1",
		Category: "水果", Difficulty: "easy", Frequency: 9, PartOfSpeech: "noun",
		Example: "I like to eat apples.", Collocations: []string{"red apple", "green apple"},
		TextbookVersion: "PEP", Unit: "Unit 2",
	},
}

// GenerateCSVTemplate returns a header line plus two quoted sample rows.
func GenerateCSVTemplate() string {
	var b strings.Builder
	b.WriteString(strings.Join(templateHeaders, ","))
	b.WriteByte('\n')
	for _, r := range templateRows {
		cells := []string{
			r.Word, r.Phonetic, r.Translation, r.Grade, r.Category, r.Difficulty,
			strconv.Itoa(r.Frequency), r.PartOfSpeech, r.Example, strings.Join(r.Collocations, ","),
			r.TextbookVersion, r.Unit,
		}
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`"` + strings.ReplaceAll(c, `"`, `""`) + `"`)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// GenerateJSONTemplate returns the sample rows as an indented JSON array.
func GenerateJSONTemplate() string {
	out, err := json.MarshalIndent(templateRows, "", "  ")
	if err != nil {
		// templateRows is static and always marshals.
		panic(err)
	}
	return string(out)
}
