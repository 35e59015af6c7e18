// Package words derives word counts from submitted text.
package words

import "strings"

// Count returns the number of whitespace-separated tokens in text.
// Deliberately naive: a token is a word, punctuation and all.
func Count(text string) int64 {
	return int64(len(strings.Fields(text)))
}
