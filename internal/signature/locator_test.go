package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const closingBody = `Hi there,

Thanks for your email.

Best regards,
John Doe
Senior Developer
Tech Company Inc.
john.doe@company.com
+1 (555) 123-4567
`

const middleNameBody = `Hi there,

Thanks for your email.

Best regards,
John Middlename Doe
Senior Developer
Tech Company Inc.
john.doe@company.com
+1 (555) 123-4567
`

const spacedBody = `Hi there,

Thanks for your email.

Best regards,


John Doe
Senior Developer
Tech Company Inc.
contact@company.com
+1 (555) 123-4567
`

func signatureTexts(loc *Location) []string {
	out := make([]string, 0, len(loc.Signature))
	for _, l := range loc.Signature {
		out = append(out, l.Text)
	}
	return out
}

func TestLocateByName(t *testing.T) {
	loc := Locate(closingBody, "John Doe", "john.doe@company.com")

	require.True(t, loc.Found())
	assert.Equal(t, []string{
		"John Doe",
		"Senior Developer",
		"Tech Company Inc.",
		"john.doe@company.com",
		"+1 (555) 123-4567",
	}, signatureTexts(loc))
	assert.Equal(t, 5, loc.NameIndex)
	assert.Equal(t, KindName, loc.Signature[0].Kind)
	assert.Empty(t, loc.RecoveredName)
}

func TestLocatePartialName(t *testing.T) {
	body := strings.Replace(middleNameBody, "john.doe@company.com\n", "", 1)

	loc := Locate(body, "John Doe", "john.doe@company.com")
	assert.Len(t, loc.Signature, 4)
}

func TestLocateRebuildsNameFromEmail(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		email string
		want  string
	}{
		{"initial and last", closingBody, "jdoe@email.com", "John Doe"},
		{"first dot last", closingBody, "john.doe@email.com", "John Doe"},
		{"first last", closingBody, "johndoe@email.com", "John Doe"},
		{"first only", closingBody, "john@email.com", "John Doe"},
		{"initial dot last", closingBody, "j.doe@email.com", "John Doe"},
		{"middle name skipped", middleNameBody, "jdoe@email.com", "John Middlename Doe"},
		{"middle name skipped dotted", middleNameBody, "john.doe@email.com", "John Middlename Doe"},
		{"full middle name", middleNameBody, "john.middlename.doe@email.com", "John Middlename Doe"},
		{"middle initial", middleNameBody, "johnmdoe@email.com", "John Middlename Doe"},
		{"both initials", middleNameBody, "jmdoe@email.com", "John Middlename Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Locate(tt.body, "", tt.email)
			assert.Len(t, loc.Signature, 5)
			assert.Equal(t, tt.want, loc.RecoveredName)
		})
	}
}

func TestLocateByEmail(t *testing.T) {
	loc := Locate(spacedBody, "", "contact@company.com")

	require.True(t, loc.Found())
	assert.Equal(t, 7, loc.Start)
	assert.Equal(t, -1, loc.NameIndex)
	assert.Len(t, loc.Signature, 5)
	assert.Equal(t, "John Doe", loc.Signature[0].Text)
	assert.Equal(t, KindUnknown, loc.Signature[0].Kind)
}

func TestLocateNoMatch(t *testing.T) {
	loc := Locate(spacedBody, "", "contact@other.com")

	assert.False(t, loc.Found())
	assert.Empty(t, loc.Signature)
	assert.Equal(t, -1, loc.Start)
	for _, l := range loc.Lines {
		assert.False(t, l.IsSignature)
	}
}

func TestLocateWithoutBreak(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no content", "Thanks,\nJohn\njohn.doe@company.com\n"},
		{"no blank run", "Here is the report you asked for.\nBest regards,\nJohn Doe\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := Locate(tt.body, "John Doe", "john.doe@company.com")
			assert.False(t, loc.Found())
		})
	}
}

func TestLocateStopsAtDivider(t *testing.T) {
	body := "Hello team,\n\nPlease see the attached file.\n\nJohn Doe\nSenior Developer\n" +
		"----------------\nThis message is confidential.\n"

	loc := Locate(body, "John Doe", "john.doe@company.com")

	require.True(t, loc.Found())
	assert.Equal(t, []string{"John Doe", "Senior Developer"}, signatureTexts(loc))
	assert.Equal(t, 6, loc.End)
}

func TestLocateStopsAtDoubleBlank(t *testing.T) {
	body := "Hello team,\n\nPlease see the attached file.\n\nJohn Doe\nSenior Developer\n\n\nUnsubscribe here\n"

	loc := Locate(body, "John Doe", "john.doe@company.com")

	assert.Equal(t, []string{"John Doe", "Senior Developer"}, signatureTexts(loc))
}

func TestLocateDiscardsLongSignature(t *testing.T) {
	var b strings.Builder
	b.WriteString("Hello team,\n\nPlease see the attached file.\n\nJohn Doe\n")
	for i := 0; i < 12; i++ {
		b.WriteString("Another line of footer\n")
	}

	loc := Locate(b.String(), "John Doe", "john.doe@company.com")

	assert.False(t, loc.Found())
	for _, l := range loc.Lines {
		assert.False(t, l.IsSignature)
	}
}

func TestLocateLastNameLineWins(t *testing.T) {
	body := "Hello,\n\nI spoke with John yesterday about it.\n\nRegards,\nJohn\n\nJohn Doe\nSenior Developer\n"

	loc := Locate(body, "John Doe", "john.doe@company.com")

	require.True(t, loc.Found())
	assert.Equal(t, "John Doe", loc.Signature[0].Text)
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("  one \r\ntwo\tthree\r\n\n\n")
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestFindBreaks(t *testing.T) {
	lines := []string{"Hi", "", "This is content", "", "", "Regards", "**********", "John"}
	assert.Equal(t, []int{4, 6}, findBreaks(lines))
}
