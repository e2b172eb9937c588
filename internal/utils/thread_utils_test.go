package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitThreads(t *testing.T) {
	text := "Sounds good, see you then.\n\nJohn\n\n" +
		"From: Jane Roe <jane@example.com>\n" +
		"Sent: Monday\n\n" +
		"Are we still on for Friday?\n"

	messages := SplitThreads(text)
	require.Len(t, messages, 2)
	assert.Equal(t, "Sounds good, see you then.\n\nJohn", messages[0])
	assert.Contains(t, messages[1], "Are we still on for Friday?")
}

func TestSplitThreads_Spanish(t *testing.T) {
	text := "Perfecto, gracias.\n\n> De: Juan Pérez <juan@example.es>\n> Hola"

	messages := SplitThreads(text)
	require.Len(t, messages, 2)
	assert.Equal(t, "Perfecto, gracias.", messages[0])
}

func TestSplitThreads_NoMarkers(t *testing.T) {
	messages := SplitThreads("  just one message  ")
	assert.Equal(t, []string{"just one message"}, messages)
	assert.Empty(t, SplitThreads("   "))
}

func TestRemoveForwarded(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"forwarded", "FYI\n\n---------- Forwarded message ---------\nFrom: x", "FYI"},
		{"spanish", "Mira esto\n------ Mensaje reenviado ------\nDe: y", "Mira esto"},
		{"original", "Thanks\n-----Original Message-----\nFrom: z", "Thanks"},
		{"short rule kept", "Note\n--- forwarded", "Note\n--- forwarded"},
		{"nothing to cut", "  plain  ", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveForwarded(tt.text))
		})
	}
}

func TestLatestMessage(t *testing.T) {
	text := "Thanks\n-----Original Message-----\nFrom: Jane Roe\nSent: Monday\n\nOld text"
	assert.Equal(t, "Thanks", LatestMessage(text))
	assert.Equal(t, "", LatestMessage(""))
}

func TestSplitFrom(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		wantName  string
		wantEmail string
	}{
		{"quoted name", `"John Doe" <John.Doe@Example.com>`, "John Doe", "john.doe@example.com"},
		{"bare address", " jdoe@example.com ", "", "jdoe@example.com"},
		{"encoded name", "=?utf-8?B?Sm9zw6kgUMOpcmV6?= <jose@example.es>", "José Pérez", "jose@example.es"},
		{"long word drops name", `"Notificationsdepartment Team" <team@example.com>`, "", "team@example.com"},
		{"empty", "", "", ""},
		{"single quotes", `'Jane Roe' <jane@example.com>`, "Jane Roe", "jane@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email := SplitFrom(tt.from)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}
