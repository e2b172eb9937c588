package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikey/email-signature-parser/internal/blocklist"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/htmltext"
	"github.com/mikey/email-signature-parser/internal/mailparse"
	"github.com/mikey/email-signature-parser/internal/utils"
	"go.uber.org/zap"
)

// ErrStoreDisabled is returned by Lookup when no contact store is configured
var ErrStoreDisabled = errors.New("contact store disabled")

// ServiceConfig holds the tunables of the signature service
type ServiceConfig struct {
	MaxBodySize    int
	RejectMeetings bool
	StoreEnabled   bool
	StoreTTL       time.Duration
}

// SignatureService is the core service for signature parsing. It validates
// the sender, prepares the body and hands the newest message of the thread
// to the extractor.
type SignatureService struct {
	extractor     SignatureExtractor
	store         ContactStore
	blocklist     *blocklist.Checker
	dict          *dictionary.Dictionary
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	cfg           ServiceConfig
}

// NewSignatureService creates a new signature service. store may be nil.
func NewSignatureService(
	extractor SignatureExtractor,
	store ContactStore,
	checker *blocklist.Checker,
	dict *dictionary.Dictionary,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	cfg ServiceConfig,
) *SignatureService {
	return &SignatureService{
		extractor:     extractor,
		store:         store,
		blocklist:     checker,
		dict:          dict,
		textProcessor: textProcessor,
		logger:        logger,
		cfg:           cfg,
	}
}

// ParseText parses the signature of a plain text body sent by from
func (s *SignatureService) ParseText(ctx context.Context, from, body string) (*ParsedSignature, error) {
	return s.ParseEmail(ctx, &Email{From: from, Body: body})
}

// ParseHTML converts an HTML body to text and parses its signature
func (s *SignatureService) ParseHTML(ctx context.Context, from, body string) (*ParsedSignature, error) {
	if err := s.checkInput(from, body); err != nil {
		return nil, err
	}

	text, err := htmltext.Convert(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert html body: %w", err)
	}

	return s.ParseEmail(ctx, &Email{From: from, Body: text})
}

// ParseFile parses the signature of an .eml file
func (s *SignatureService) ParseFile(ctx context.Context, path string) (*ParsedSignature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return s.ParseMessage(ctx, f)
}

// ParseMessage decodes a raw RFC 5322 message and parses its signature
func (s *SignatureService) ParseMessage(ctx context.Context, r io.Reader) (*ParsedSignature, error) {
	email, err := s.ReadMessage(r)
	if err != nil {
		return nil, err
	}
	return s.ParseEmail(ctx, email)
}

// ReadMessage decodes a raw RFC 5322 message
func (s *SignatureService) ReadMessage(r io.Reader) (*Email, error) {
	msg, err := mailparse.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	return &Email{
		From:     msg.From,
		To:       msg.To,
		Subject:  msg.Subject,
		Body:     msg.Text,
		HTMLBody: msg.HTML,
		Date:     msg.Date,
	}, nil
}

// ParseEmail parses the signature of an already decoded email
func (s *SignatureService) ParseEmail(ctx context.Context, email *Email) (*ParsedSignature, error) {
	name, address, body, err := s.Prepare(email)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sig, err := s.extractor.Extract(name, address, body)
	if err != nil {
		return nil, fmt.Errorf("failed to extract signature: %w", err)
	}
	if !email.Date.IsZero() {
		date := email.Date
		sig.SignatureDate = &date
	}

	senderDomain := "unknown"
	if _, domain, ok := strings.Cut(address, "@"); ok {
		senderDomain = domain
	}
	s.logger.Info("Parsed signature",
		zap.String("sender", address),
		zap.String("sender_domain", senderDomain),
		zap.Int("phones", len(sig.Phones)),
		zap.Bool("has_address", sig.Address != ""))

	s.remember(ctx, sig)

	return sig, nil
}

// Prepare applies the input guards and returns the display name, address
// and newest message text the extractor sees for email. The HTML part is
// preferred over the text part when both exist.
func (s *SignatureService) Prepare(email *Email) (name, address, body string, err error) {
	if email == nil {
		return "", "", "", ErrEmptyBody
	}

	body = email.Body
	if email.HTMLBody != "" {
		text, err := s.htmlToText(email.HTMLBody)
		switch {
		case err == nil && strings.TrimSpace(text) != "":
			body = text
		case err != nil && strings.TrimSpace(body) == "":
			return "", "", "", fmt.Errorf("failed to convert html body: %w", err)
		case err != nil:
			s.logger.Debug("Falling back to text part", zap.Error(err))
		}
	}

	if err := s.checkInput(email.From, body); err != nil {
		return "", "", "", err
	}

	name, address = utils.SplitFrom(email.From)
	body = s.textProcessor.ProcessText(body, s.cfg.MaxBodySize)
	return name, address, utils.LatestMessage(body), nil
}

// Lookup returns the last signature stored for an email address
func (s *SignatureService) Lookup(ctx context.Context, email string) (*Contact, error) {
	if !s.storeActive() {
		return nil, ErrStoreDisabled
	}
	return s.store.Get(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// htmlToText renders an HTML part. Parts without an <html> wrapper are
// rendered whole.
func (s *SignatureService) htmlToText(body string) (string, error) {
	text, err := htmltext.Convert(body)
	if errors.Is(err, htmltext.ErrNoHTMLContent) {
		return htmltext.Render(strings.NewReader(body))
	}
	return text, err
}

// checkInput applies the sender and body guards shared by every entry point
func (s *SignatureService) checkInput(from, body string) error {
	if _, email := utils.SplitFrom(from); email == "" {
		return ErrInvalidFrom
	}
	if s.blocklist != nil && s.blocklist.IsBlocked(from) {
		return ErrAutomatedSender
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	if s.cfg.RejectMeetings && s.dict.IsMeetingText(body) {
		return ErrMeetingInvite
	}
	return nil
}

// remember stores a located signature for later lookup. Store failures are
// logged and never fail the parse.
func (s *SignatureService) remember(ctx context.Context, sig *ParsedSignature) {
	if !s.storeActive() || sig.IsEmpty() {
		return
	}

	now := time.Now()
	contact := &Contact{
		EmailAddress: sig.EmailAddress,
		Signature:    sig,
		LastSeen:     now,
	}
	if s.cfg.StoreTTL > 0 {
		contact.ExpiresAt = now.Add(s.cfg.StoreTTL)
	}

	if err := s.store.Set(ctx, contact); err != nil {
		s.logger.Error("Failed to store contact", zap.Error(err), zap.String("sender", sig.EmailAddress))
	}
}

func (s *SignatureService) storeActive() bool {
	return s.cfg.StoreEnabled && s.store != nil
}
