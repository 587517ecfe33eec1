// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"strings"
)

// wordPattern matches an ASCII word with at most one internal apostrophe,
// e.g. "don't".
var wordPattern = regexp.MustCompile(`[A-Za-z]+('[A-Za-z]+)?`)

// functionWords stay exactly as written, wherever they appear in the title.
// The first word of a title is not special-cased.
var functionWords = map[string]bool{
	// articles
	"a": true, "an": true, "the": true,
	// conjunctions
	"and": true, "as": true, "but": true, "for": true, "if": true,
	"nor": true, "once": true, "or": true, "so": true, "than": true,
	"till": true, "when": true, "yet": true,
	// prepositions
	"at": true, "by": true, "down": true, "from": true, "in": true,
	"into": true, "like": true, "near": true, "of": true, "off": true,
	"on": true, "onto": true, "out": true, "over": true, "past": true,
	"to": true, "up": true, "upon": true, "with": true,
}

// TitleCase capitalizes every word of title except the lowercase function
// words. It is pure and idempotent.
func TitleCase(title string) string {
	return wordPattern.ReplaceAllStringFunc(title, capitalizeWord)
}

func capitalizeWord(word string) string {
	if functionWords[word] {
		return word
	}
	// Matches are ASCII only, so byte slicing is safe.
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
