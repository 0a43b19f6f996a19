package importer

import (
	"regexp"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler turns a schema property name into a question name: it splits
// on separators and camelCase boundaries and title-cases each word, so
// "household_size" and "householdSize" both become "Household Size".
func DefaultLabeler(name string) string {
	if name == "" {
		return ""
	}

	var words []string
	for _, chunk := range wordSeparators.Split(name, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range splitCamelWords(chunk) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamelWords(input string) []string {
	var words []string
	start := 0
	runes := []rune(input)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := isLower(prev) && isUpper(cur)
		letterDigit := (isLetter(prev) && isDigit(cur)) || (isDigit(prev) && isLetter(cur))
		if lowerToUpper || letterDigit {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
