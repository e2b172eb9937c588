package filter

import (
	"testing"

	"github.com/mikey/email-signature-parser/internal/adapters/postal"
	"github.com/mikey/email-signature-parser/internal/blocklist"
	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/signature"
	"github.com/mikey/email-signature-parser/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const signedBody = `Hi there,

Thanks for your message.

Best regards,
John Doe
Senior Developer
Tech Company Inc.
123 Main Street, Suite 100
New York, NY 10001
Phone: +1 (555) 123-4567
Email: john.doe@company.com
Website: <a href="https://www.techcompany.com">https://www.techcompany.com</a>
`

const signedMessage = "From: John Doe <jdoe@techcompany.com>\n" +
	"To: ana@example.com\n" +
	"Subject: Hello\n\n" +
	signedBody

func newTestService(t *testing.T, contacts core.ContactStore) *core.SignatureService {
	t.Helper()
	logger := zap.NewNop()
	dict := dictionary.Default()
	labeler, err := postal.NewLabeler(logger)
	require.NoError(t, err)

	return core.NewSignatureService(
		signature.NewParser(dict, labeler, logger),
		contacts,
		blocklist.NewChecker(nil, logger),
		dict,
		utils.NewTextProcessor(logger),
		logger,
		core.ServiceConfig{
			MaxBodySize:    256 * 1024,
			RejectMeetings: true,
			StoreEnabled:   contacts != nil,
		},
	)
}
