package signature

import (
	"strings"
	"unicode/utf8"

	"github.com/mikey/email-signature-parser/internal/utils"
)

// fallbackName guesses the sender's name from the first two signature lines
// when nothing else named them. A short line of two or three plain words is
// taken as the name; the later of two candidates wins.
func fallbackName(lines []*Line) string {
	name := ""
	for _, line := range lines[:min(2, len(lines))] {
		if line.Kind != KindUnknown {
			continue
		}
		words := strings.Fields(line.Text)
		if len(words) < 2 || len(words) > 3 {
			continue
		}
		if !allShort(words) {
			continue
		}
		name = utils.CapitalizeWords(words...)
	}
	return name
}

func allShort(words []string) bool {
	for _, w := range words {
		if utf8.RuneCountInString(w) >= maxNameWordLength {
			return false
		}
	}
	return true
}
