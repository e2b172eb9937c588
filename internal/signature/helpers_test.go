package signature

import (
	"testing"

	"github.com/mikey/email-signature-parser/internal/adapters/postal"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// signatureLines builds a located signature whose first line is the name line
func signatureLines(texts ...string) []*Line {
	lines := unknownLines(texts...)
	if len(lines) > 0 {
		lines[0].Kind = KindName
	}
	return lines
}

func unknownLines(texts ...string) []*Line {
	lines := make([]*Line, len(texts))
	for i, t := range texts {
		lines[i] = &Line{Text: t, IsSignature: true}
	}
	return lines
}

func countKind(lines []*Line, kind Kind) int {
	n := 0
	for _, l := range lines {
		if l.Kind == kind {
			n++
		}
	}
	return n
}

func newTestLabeler(t *testing.T) *postal.Labeler {
	t.Helper()
	labeler, err := postal.NewLabeler(zap.NewNop())
	require.NoError(t, err)
	return labeler
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(dictionary.Default(), newTestLabeler(t), zap.NewNop())
}
