package signature

import (
	"testing"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestExtractAddress(t *testing.T) {
	labeler := newTestLabeler(t)

	tests := []struct {
		name     string
		lines    []*Line
		want     string
		claimed  int
		rejected bool
	}{
		{
			name: "single line",
			lines: signatureLines(
				"John Doe",
				"123 Main Street, New York, NY 10001, USA",
				"Phone: +1 (555) 123-4567",
			),
			want:    "123 Main Street, New York, NY 10001, USA",
			claimed: 1,
		},
		{
			name: "two lines",
			lines: signatureLines(
				"John Doe",
				"123 Main Street, New York",
				"NY 10001, USA",
				"Phone: +1 (555) 123-4567",
			),
			want:    "123 Main Street, New York, NY 10001, USA",
			claimed: 2,
		},
		{
			name: "street without locality",
			lines: signatureLines(
				"John Doe",
				"123 Main Street",
				"Phone: +1 (555) 123-4567",
			),
			want: "",
		},
		{
			name: "uk street and postcode",
			lines: signatureLines(
				"John Doe",
				"221B Baker Street, NW1 6XE, London",
			),
			want:    "221B Baker Street, NW1 6XE, London",
			claimed: 1,
		},
		{
			name:    "postcode and city",
			lines:   signatureLines("John Doe", "NW1 6XE, London"),
			want:    "NW1 6XE, London",
			claimed: 1,
		},
		{
			name:    "city and country",
			lines:   signatureLines("John Doe", "London, UK"),
			want:    "London, UK",
			claimed: 1,
		},
		{
			name: "inline link stripped",
			lines: signatureLines(
				"John Doe",
				`221B Baker Street, NW1 6XE, London <a href="https://maps.google.com/?q=221B+Baker+Street">Map</a>`,
			),
			want:    "221B Baker Street, NW1 6XE, London",
			claimed: 1,
		},
		{
			name: "label prefix removed",
			lines: signatureLines(
				"John Doe",
				"Address: 123 Main Street | New York, NY 10001",
			),
			want:    "123 Main Street New York, NY 10001",
			claimed: 1,
		},
		{
			name:  "locality on the name line is ignored",
			lines: unknownLines("London, UK"),
			want:  "",
		},
		{
			name: "too long",
			lines: signatureLines(
				"John Doe",
				"123 Main Street, New York",
				"Additional Address Line That Makes It Way Too Long Additional Address Line That Makes It Way Too Long "+
					"Additional Address Line That Makes It Way Too Long, NY 10001, USA",
			),
			want:     "",
			rejected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rejected := extractAddress(tt.lines, labeler)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rejected, rejected)
			assert.Equal(t, tt.claimed, countKind(tt.lines, KindAddress))
		})
	}
}

func TestExtractAddressSkipsClaimedAndContactLines(t *testing.T) {
	lines := signatureLines(
		"John Doe",
		"london@company.com",
		"www.london.com",
		"London, UK",
	)
	lines[3].Kind = KindPhone

	got, _ := extractAddress(lines, newTestLabeler(t))

	assert.Empty(t, got)
	assert.Equal(t, KindPhone, lines[3].Kind)
}

func TestExtractAddressIgnoresUnrelatedLineOrder(t *testing.T) {
	labeler := newTestLabeler(t)

	first := signatureLines(
		"John Doe",
		"Senior Developer",
		"123 Main Street, Suite 100",
		"New York, NY 10001",
	)
	second := signatureLines(
		"John Doe",
		"123 Main Street, Suite 100",
		"New York, NY 10001",
		"Senior Developer",
	)

	a, _ := extractAddress(first, labeler)
	b, _ := extractAddress(second, labeler)

	assert.Equal(t, "123 Main Street, Suite 100, New York, NY 10001", a)
	assert.Equal(t, a, b)
}

// fixedLabeler labels every line with the same tokens
type fixedLabeler []core.AddressToken

func (f fixedLabeler) Label(string) []core.AddressToken {
	return f
}

func TestExtractAddressDigitRun(t *testing.T) {
	lines := signatureLines("John Doe", "Somewhere 1234567890")

	got, _ := extractAddress(lines, fixedLabeler{{Label: core.LabelCity, Value: "Somewhere"}})
	assert.Empty(t, got)

	lines = signatureLines("John Doe", "Somewhere 1234567890")
	got, _ = extractAddress(lines, fixedLabeler{
		{Label: core.LabelCity, Value: "Somewhere"},
		{Label: core.LabelState, Value: "Somewhere"},
		{Label: core.LabelCountry, Value: "Somewhere"},
	})
	assert.Equal(t, "Somewhere 1234567890", got)
}
