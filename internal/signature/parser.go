package signature

import (
	"strings"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"go.uber.org/zap"
)

// Parser locates the signature of a message body and extracts the contact
// details it holds. It keeps no per-call state and is safe for concurrent use.
type Parser struct {
	dict    *dictionary.Dictionary
	labeler core.AddressLabeler
	logger  *zap.Logger
}

// NewParser creates a new signature parser
func NewParser(dict *dictionary.Dictionary, labeler core.AddressLabeler, logger *zap.Logger) *Parser {
	return &Parser{
		dict:    dict,
		labeler: labeler,
		logger:  logger,
	}
}

// Extract parses the signature of body sent by name <email>. name may be
// empty. A body without a recognisable signature yields an empty result,
// not an error.
func (p *Parser) Extract(name, email, body string) (*core.ParsedSignature, error) {
	if strings.TrimSpace(email) == "" {
		return nil, core.ErrInvalidFrom
	}
	if strings.TrimSpace(body) == "" {
		return nil, core.ErrEmptyBody
	}

	result := core.NewParsedSignature(name, email)
	named := strings.TrimSpace(name) != ""

	loc := Locate(body, name, email)
	if !named {
		result.Name = loc.RecoveredName
	}

	if !loc.Found() {
		p.logger.Debug("No signature found",
			zap.String("email", email),
			zap.Int("lines", len(loc.Lines)),
			zap.Bool("oversized", loc.Oversized))
		return result, nil
	}

	p.logger.Debug("Signature located",
		zap.String("email", email),
		zap.Int("start", loc.Start),
		zap.Int("end", loc.End),
		zap.Int("name_line", loc.NameIndex))

	lines := loc.Signature

	address, rejected := extractAddress(lines, p.labeler)
	if rejected {
		p.logger.Debug("Address assembly rejected", zap.String("email", email))
	}
	result.Address = address
	result.Phones = extractPhones(lines, p.dict)
	result.Links = extractLinks(lines, p.dict)
	result.CompanyName, result.JobTitle = extractCompanyAndTitle(lines, email, p.dict)

	if !named && result.Name == "" {
		result.Name = fallbackName(lines)
	}

	result.Text = strings.Join(texts(lines), "\n")

	return result, nil
}

// Classify runs the location and extraction passes and returns the lines
// with their final classification. It is meant for inspecting how a body
// was read.
func (p *Parser) Classify(name, email, body string) []*Line {
	loc := Locate(body, name, email)
	if !loc.Found() {
		return nil
	}
	extractAddress(loc.Signature, p.labeler)
	extractPhones(loc.Signature, p.dict)
	extractLinks(loc.Signature, p.dict)
	extractCompanyAndTitle(loc.Signature, email, p.dict)
	return loc.Signature
}
