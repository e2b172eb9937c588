package core

import (
	"time"
)

// Email represents an email message
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
	Date     time.Time
	Headers  map[string][]string
}

// PhoneType classifies a phone number found in a signature
type PhoneType string

const (
	PhoneTypePhone      PhoneType = "Phone"
	PhoneTypeMobile     PhoneType = "Mobile"
	PhoneTypeOffice     PhoneType = "Office"
	PhoneTypeFax        PhoneType = "Fax"
	PhoneTypeDirectLine PhoneType = "Direct Line"
)

// Phone is a phone number extracted from a signature
type Phone struct {
	Type        PhoneType `json:"type"`
	PhoneNumber string    `json:"phone_number"`
	Country     string    `json:"country,omitempty"`
	Extension   string    `json:"extension,omitempty"`
}

// Links groups the hyperlinks found in a signature
type Links struct {
	SocialMedia map[string]string `json:"social_media"`
	Other       []string          `json:"other"`
}

// JobTitle holds the title sections and credential acronyms of a signature
type JobTitle struct {
	Titles   []string `json:"titles"`
	Acronyms []string `json:"acronyms"`
}

// ParsedSignature is the structured contact data extracted from a signature.
// An empty result is a valid, low-confidence outcome.
type ParsedSignature struct {
	Name          string     `json:"name"`
	EmailAddress  string     `json:"email_address"`
	Address       string     `json:"address"`
	Phones        []Phone    `json:"phones"`
	Links         Links      `json:"links"`
	JobTitle      JobTitle   `json:"job_title"`
	CompanyName   string     `json:"company_name"`
	Text          string     `json:"text"`
	SignatureDate *time.Time `json:"signature_datetime,omitempty"`
}

// NewParsedSignature creates a result with empty collections so it encodes
// as [] and {} rather than null
func NewParsedSignature(name, email string) *ParsedSignature {
	return &ParsedSignature{
		Name:         name,
		EmailAddress: email,
		Phones:       []Phone{},
		Links: Links{
			SocialMedia: map[string]string{},
			Other:       []string{},
		},
		JobTitle: JobTitle{
			Titles:   []string{},
			Acronyms: []string{},
		},
	}
}

// IsEmpty reports whether no signature text was located
func (p *ParsedSignature) IsEmpty() bool {
	return p.Text == ""
}

// Contact is the last signature seen for a sender
type Contact struct {
	EmailAddress string           `json:"email_address"`
	Signature    *ParsedSignature `json:"signature"`
	LastSeen     time.Time        `json:"last_seen"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

// AddressLabel is a semantic category assigned to part of an address line
type AddressLabel string

const (
	LabelHouse         AddressLabel = "house"
	LabelHouseNumber   AddressLabel = "house_number"
	LabelRoad          AddressLabel = "road"
	LabelPostcode      AddressLabel = "postcode"
	LabelCityDistrict  AddressLabel = "city_district"
	LabelCity          AddressLabel = "city"
	LabelStateDistrict AddressLabel = "state_district"
	LabelState         AddressLabel = "state"
	LabelCountryRegion AddressLabel = "country_region"
	LabelCountry       AddressLabel = "country"
)

// AddressToken is one labelled fragment of an address line
type AddressToken struct {
	Label AddressLabel `json:"label"`
	Value string       `json:"value"`
}
