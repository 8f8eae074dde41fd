package scorer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// tokenize splits text into lowercase tokens. A token is a run of
// letters, digits, '+' or '#', so "C++" and "F#" survive as single
// tokens while surrounding punctuation falls away. Skill names pass
// through the same tokenizer, which is what makes "node.js" match
// "Node.js" and "node js" alike.
func tokenize(s string) []string {
	folded := cases.Fold().String(s)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

// CountHits counts whole-token occurrences of skill in text,
// case-insensitively. Multi-token skills match as a consecutive token
// sequence. "java" never matches inside "javascript".
func CountHits(text, skill string) int {
	want := tokenize(skill)
	if len(want) == 0 {
		return 0
	}
	tokens := tokenize(text)

	count := 0
	for i := 0; i+len(want) <= len(tokens); i++ {
		matched := true
		for j, w := range want {
			if tokens[i+j] != w {
				matched = false
				break
			}
		}
		if matched {
			count++
		}
	}
	return count
}
