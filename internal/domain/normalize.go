package domain

import (
	"strings"
	"unicode"
)

// WordKey is the identity of a vocabulary word for duplicate checks. Case and
// surrounding whitespace are ignored, inner whitespace (including the
// ideographic space typed on Chinese keyboards) collapses to one space, and
// curly apostrophes become straight ones. Hyphens are kept, so "T-shirt"
// and "T shirt" remain different words.
func WordKey(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	space := false
	for _, r := range strings.TrimSpace(word) {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case r == '’' || r == '‘':
			r = '\''
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
