package ports

import (
	"context"

	"github.com/mikey/email-signature-parser/internal/core"
)

// EmailFilter is a front end that feeds messages to the signature service
type EmailFilter interface {
	// ProcessEmail parses the signature of an email
	ProcessEmail(ctx context.Context, email *core.Email) (*core.ParsedSignature, error)

	// Start starts the front end
	Start() error

	// Stop stops the front end
	Stop() error
}
