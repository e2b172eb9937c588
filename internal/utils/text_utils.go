package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var anchorPattern = regexp.MustCompile(`<a href(.*?)/a>`)

// TextProcessor prepares message bodies before they reach the signature engine
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	// Back off to a rune boundary so no rune is cut in half
	for maxSize > 0 && !utf8.RuneStart(text[maxSize]) {
		maxSize--
	}
	truncated := text[:maxSize]

	tp.logger.Debug("Body truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Body sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}

// StripAnchors removes inline <a href="...">...</a> markup left by the HTML converter.
func StripAnchors(text string) string {
	return anchorPattern.ReplaceAllString(text, "")
}

// Capitalize upper-cases the first letter of word and lower-cases the rest.
// Casers keep state, so a fresh one is built per call.
func Capitalize(word string) string {
	return cases.Title(language.Und).String(word)
}

// CapitalizeWords capitalizes every word and joins them with single spaces.
func CapitalizeWords(words ...string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, Capitalize(w))
	}
	return strings.Join(out, " ")
}
