package mailparse

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"golang.org/x/text/encoding/charmap"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

// Message is the part of a decoded email the signature parser needs
type Message struct {
	From    string
	To      []string
	Subject string
	Date    time.Time
	Text    string
	HTML    string
}

// ParseFile parses an .eml file
func ParseFile(path string) (*Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a message, converting text parts to UTF-8. Parts in an
// unknown charset are kept as they are.
func Parse(r io.Reader) (*Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to create mail reader: %w", err)
	}
	defer mr.Close()

	msg := &Message{}
	header := mr.Header

	if from, err := header.Text("From"); err == nil {
		msg.From = strings.TrimSpace(from)
	} else {
		msg.From = strings.TrimSpace(header.Get("From"))
	}

	if subject, err := header.Subject(); err == nil {
		msg.Subject = subject
	}

	if toAddrs, err := header.AddressList("To"); err == nil {
		for _, addr := range toAddrs {
			msg.To = append(msg.To, addr.Address)
		}
	}

	if date, err := header.Date(); err == nil {
		msg.Date = date
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}
		if part == nil {
			continue
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			// attachments never carry the signature
			continue
		}

		contentType, _, _ := h.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}

		switch {
		case strings.HasPrefix(contentType, "text/html"):
			if msg.HTML == "" {
				msg.HTML = string(body)
			}
		case strings.HasPrefix(contentType, "text/plain"), contentType == "":
			if msg.Text == "" {
				msg.Text = string(body)
			}
		}
	}

	// Single-part messages sometimes carry HTML under text/plain
	if msg.HTML == "" && strings.Contains(strings.ToLower(msg.Text), "<html") {
		msg.HTML = msg.Text
		msg.Text = ""
	}

	return msg, nil
}
