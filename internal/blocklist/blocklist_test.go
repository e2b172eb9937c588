package blocklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_IsBlocked(t *testing.T) {
	c := NewChecker([]string{" Notifications@ ", ""}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"John Doe <jdoe@techcompany.com>", false},
		{"No Reply <noreply@service.com>", true},
		{"do-not-REPLY@service.com", true},
		{"MAILER-DAEMON@mx.example.com", true},
		{"GitHub <notifications@github.com>", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsBlocked(tt.from))
		})
	}
}

func TestChecker_NilLogger(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.True(t, c.IsBlocked("noreply@example.com"))
	assert.False(t, c.IsBlocked("jane@example.com"))
}
