package relevance

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywords caps the size of a KeywordSet.
const MaxKeywords = 12

// minKeywordLen is the exclusive lower bound on keyword length in runes.
const minKeywordLen = 3

// stopWords are dropped from goals before keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"then": {}, "else": {}, "for": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"at": {}, "by": {}, "with": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "as": {}, "it": {}, "its": {}, "from": {}, "we": {}, "you": {},
	"they": {}, "he": {}, "she": {}, "i": {}, "your": {}, "his": {}, "her": {},
	"their": {}, "our": {}, "about": {}, "into": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "have": {}, "will": {}, "would": {},
	"should": {}, "could": {}, "some": {}, "more": {}, "most": {}, "very": {},
	"just": {}, "also": {}, "than": {}, "them": {}, "there": {},
}

// Tokenize lowercases text and splits it into runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Keywords derives the KeywordSet of a goal: tokens longer than three
// runes that are not stop-words, most frequent first, ties in order of
// first appearance, capped at MaxKeywords.
func Keywords(goal string) []string {
	counts := make(map[string]int)
	var order []string

	for _, tok := range Tokenize(goal) {
		if utf8.RuneCountInString(tok) <= minKeywordLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}
