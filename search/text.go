package search

import "strings"

// Stop words to filter out when tokenizing queries and names
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// sharedTokenCount counts distinct filtered tokens the query and the text
// have in common.
func sharedTokenCount(query, text string) int {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return 0
	}

	textSet := make(map[string]bool)
	for _, word := range tokenizeAndFilter(text) {
		textSet[word] = true
	}

	seen := make(map[string]bool, len(queryWords))
	count := 0
	for _, word := range queryWords {
		if textSet[word] && !seen[word] {
			count++
			seen[word] = true
		}
	}
	return count
}
