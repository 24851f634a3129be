package enrich

import (
	"strings"
	"unicode"
)

// maxKeywords caps the keyword list per image.
const maxKeywords = 15

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "this": true, "to": true, "was": true, "were": true,
	"with": true, "there": true, "their": true, "they": true,
	"image": true, "picture": true, "photo": true,
}

// Keywords distills a keyword list from the given texts: lowercase
// word tokens, stop words and short tokens dropped, first occurrence
// order kept, capped at maxKeywords.
func Keywords(texts ...string) []string {
	seen := make(map[string]bool)
	var keywords []string

	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, word := range words {
			if len(word) < 3 || stopWords[word] || seen[word] {
				continue
			}
			seen[word] = true
			keywords = append(keywords, word)
			if len(keywords) >= maxKeywords {
				return keywords
			}
		}
	}
	return keywords
}
