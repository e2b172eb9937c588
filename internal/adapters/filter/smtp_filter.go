package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
)

// HeaderNames are the headers added to relayed mail when annotation is on
type HeaderNames struct {
	Name    string
	Company string
	Phone   string
}

// RelayConfig is where processed mail is handed back to the MTA
type RelayConfig struct {
	Enabled bool
	Address string
	Port    int
}

// SMTPFilter is an SMTP content filter that parses the signature of every
// message it receives and optionally relays the message onward
type SMTPFilter struct {
	service    *core.SignatureService
	logger     *zap.Logger
	listenAddr string
	server     *smtp.Server
	annotate   bool
	headers    HeaderNames
	relay      RelayConfig
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	service *core.SignatureService,
	logger *zap.Logger,
	listenAddr string,
	annotate bool,
	headers HeaderNames,
	relay RelayConfig,
) *SMTPFilter {
	return &SMTPFilter{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
		annotate:   annotate,
		headers:    headers,
		relay:      relay,
	}
}

// Start starts the SMTP server
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail parses the signature of an email
func (f *SMTPFilter) ProcessEmail(ctx context.Context, email *core.Email) (*core.ParsedSignature, error) {
	return f.service.ParseEmail(ctx, email)
}

// annotateMessage prepends the signature headers to a raw message
func (f *SMTPFilter) annotateMessage(raw []byte, sig *core.ParsedSignature) []byte {
	var b bytes.Buffer

	writeHeader := func(name, value string) {
		value = headerValue(value)
		if name == "" || value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\r\n", name, value)
	}

	writeHeader(f.headers.Name, sig.Name)
	writeHeader(f.headers.Company, sig.CompanyName)
	if len(sig.Phones) > 0 {
		writeHeader(f.headers.Phone, sig.Phones[0].PhoneNumber)
	}

	b.Write(raw)
	return b.Bytes()
}

// headerValue flattens a value onto a single header line
func headerValue(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// relayMessage hands the message back to the MTA on the configured port
func (f *SMTPFilter) relayMessage(sender string, recipients []string, data []byte) error {
	addr := net.JoinHostPort(f.relay.Address, fmt.Sprint(f.relay.Port))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the envelope sender
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data parses the signature of the message. Mail is never rejected because
// of the parse outcome.
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := raw
	sig, err := s.filter.service.ParseMessage(ctx, bytes.NewReader(raw))
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		s.filter.logger.Debug("Message skipped",
			zap.String("sender", s.sender),
			zap.Error(err))
	case err != nil:
		s.filter.logger.Error("Failed to parse signature",
			zap.String("sender", s.sender),
			zap.Error(err))
	case s.filter.annotate && !sig.IsEmpty():
		data = s.filter.annotateMessage(raw, sig)
	}

	if !s.filter.relay.Enabled {
		return nil
	}

	if err := s.filter.relayMessage(s.sender, s.recipients, data); err != nil {
		s.filter.logger.Error("Failed to relay message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
