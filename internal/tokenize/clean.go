// Package tokenize prepares standardized text for model training:
// conservative cleanup followed by subword encoding with a HuggingFace
// tokenizer.json vocabulary.
package tokenize

import (
	"regexp"
	"strings"
)

var (
	brRE  = regexp.MustCompile(`(?i)<br\s*/?>`)
	urlRE = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)
	wsRE  = regexp.MustCompile(`\s+`)
)

// Clean applies conservative cleanup for academic text: HTML line breaks
// become spaces, URLs collapse to a " URL " placeholder, and whitespace
// runs collapse to single spaces.
func Clean(text string) string {
	text = brRE.ReplaceAllString(text, " ")
	text = urlRE.ReplaceAllString(text, " URL ")
	text = wsRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
