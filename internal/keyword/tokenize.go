package keyword

import (
	"log"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Anything that is not a letter, number or whitespace separates tokens.
var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// Tokenize splits free-form message text into lower-case word tokens.
// Punctuation and symbols act as separators, never as token characters, and
// combining marks are folded away so decorated spellings match their plain
// form. Empty or whitespace-only input yields no tokens.
func Tokenize(text string) []string {
	// Transform chains carry state; build a fresh one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	lowered := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	folded, _, err := transform.String(fold, lowered)
	if err != nil {
		log.Printf("[keyword] unicode normalization failed: %v", err)
		folded = lowered
	}
	return strings.Fields(folded)
}
