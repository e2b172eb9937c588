package core

import (
	"context"
)

// SignatureExtractor locates and parses the signature block of a message body
type SignatureExtractor interface {
	// Extract parses body sent by name <email>. name may be empty.
	Extract(name, email, body string) (*ParsedSignature, error)
}

// AddressLabeler splits a line of text into labelled address fragments.
// It returns an empty slice rather than an error for text it cannot label.
type AddressLabeler interface {
	Label(line string) []AddressToken
}

// ContactStore keeps the most recent signature seen for each sender
type ContactStore interface {
	// Get retrieves the contact for an email address
	Get(ctx context.Context, email string) (*Contact, error)

	// Set stores or replaces a contact
	Set(ctx context.Context, contact *Contact) error

	// Delete removes a contact
	Delete(ctx context.Context, email string) error

	// Cleanup removes expired contacts
	Cleanup(ctx context.Context) error
}
