package utils

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTextProcessor_TruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "hello", tp.TruncateText("hello", 10))
	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	assert.Equal(t, "hel", tp.TruncateText("hello", 3))

	// "é" is two bytes, cutting through it drops the partial rune
	truncated := tp.TruncateText("café", 4)
	assert.Equal(t, "caf", truncated)
	assert.True(t, utf8.ValidString(truncated))
}

func TestTextProcessor_SanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "valid ñ", tp.SanitizeUTF8("valid ñ"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}

func TestTextProcessor_ProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.ProcessText("a\xffbcdef", 4)
	assert.Equal(t, "abc", got)
}

func TestStripAnchors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"no anchors", "123 Main Street", "123 Main Street"},
		{"single anchor", `Web: <a href="https://x.com">x.com</a>`, "Web: "},
		{"two anchors", `<a href="a">A</a> | <a href="b">B</a>`, " | "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAnchors(tt.text))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "John", Capitalize("john"))
	assert.Equal(t, "John", Capitalize("JOHN"))
	assert.Equal(t, "Álvaro", Capitalize("álvaro"))
	assert.Equal(t, "", Capitalize(""))
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "John Doe", CapitalizeWords("john", "doe"))
	assert.Equal(t, "John M Doe", CapitalizeWords("john", "", "m", "doe"))
	assert.Equal(t, "", CapitalizeWords())
}
