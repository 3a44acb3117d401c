package generation

import (
	"regexp"
	"strings"
	"unicode"
)

// specialTokens matches decoder control tokens that some backends leave in
// the raw completion text.
var specialTokens = regexp.MustCompile(`<pad>|</s>|<s>|<unk>|<extra_id_\d+>|<\|[^|>]*\|>`)

// ExtractDomain cleans one raw model sequence into a suggestion. It strips
// special tokens, keeps only the text after the last prompt marker and
// trims surrounding whitespace. No domain-syntax validation is applied.
func ExtractDomain(raw string) string {
	text := specialTokens.ReplaceAllString(raw, "")
	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	if i := strings.LastIndex(text, PromptMarker); i >= 0 {
		text = text[i+len(PromptMarker):]
	}
	return strings.TrimSpace(text)
}
