package dictionary

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Dictionary holds the static lookup tables used by the signature engine.
// It is immutable once loaded and safe for concurrent use.
type Dictionary struct {
	jobTitles       map[string]struct{}
	acronyms        map[string]string
	companySuffixes map[string]struct{}
	callingCodes    map[string]string
	socialPlatforms []string
	webmailDomains  []string
	meetingDomains  []string
}

type domainLists struct {
	SocialPlatforms []string `yaml:"social_platforms"`
	WebmailDomains  []string `yaml:"webmail_domains"`
	MeetingDomains  []string `yaml:"meeting_domains"`
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the process-wide dictionary, loading it on first use.
// It panics if the embedded data cannot be decoded.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		defaultDict, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultDict
}

// Load decodes the embedded dictionary files
func Load() (*Dictionary, error) {
	d := &Dictionary{
		jobTitles:       make(map[string]struct{}),
		acronyms:        make(map[string]string),
		companySuffixes: make(map[string]struct{}),
		callingCodes:    make(map[string]string),
	}

	for _, file := range []string{"titles.yaml", "titles_es.yaml"} {
		var titles []string
		if err := decode(file, &titles); err != nil {
			return nil, err
		}
		addAll(d.jobTitles, titles)
	}

	var acronyms []string
	if err := decode("acronyms.yaml", &acronyms); err != nil {
		return nil, err
	}
	for _, a := range acronyms {
		d.acronyms[strings.ToLower(a)] = a
	}

	var suffixes []string
	if err := decode("company_suffixes.yaml", &suffixes); err != nil {
		return nil, err
	}
	addAll(d.companySuffixes, suffixes)

	if err := decode("calling_codes.yaml", &d.callingCodes); err != nil {
		return nil, err
	}

	var domains domainLists
	if err := decode("domains.yaml", &domains); err != nil {
		return nil, err
	}
	d.socialPlatforms = domains.SocialPlatforms
	d.webmailDomains = domains.WebmailDomains
	d.meetingDomains = domains.MeetingDomains

	return d, nil
}

func decode(file string, out interface{}) error {
	data, err := dataFS.ReadFile("data/" + file)
	if err != nil {
		return fmt.Errorf("failed to read dictionary %s: %w", file, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode dictionary %s: %w", file, err)
	}
	return nil
}

func addAll(set map[string]struct{}, words []string) {
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
}

// IsJobTitleWord reports whether word is a job title word
func (d *Dictionary) IsJobTitleWord(word string) bool {
	_, ok := d.jobTitles[strings.ToLower(word)]
	return ok
}

// Acronym returns the dictionary spelling of a job acronym, matching case-insensitively
func (d *Dictionary) Acronym(word string) (string, bool) {
	a, ok := d.acronyms[strings.ToLower(word)]
	return a, ok
}

// IsCompanySuffix reports whether word is a company legal-form or business word
func (d *Dictionary) IsCompanySuffix(word string) bool {
	_, ok := d.companySuffixes[strings.ToLower(word)]
	return ok
}

// CountryForCallingCode resolves the territory of an international number from
// its leading digits, trying the longest calling code first.
func (d *Dictionary) CountryForCallingCode(digits string) string {
	for n := 3; n > 0; n-- {
		if len(digits) < n {
			continue
		}
		if country, ok := d.callingCodes[digits[:n]]; ok {
			return country
		}
	}
	return ""
}

// SocialPlatforms returns the site labels treated as social media
func (d *Dictionary) SocialPlatforms() []string {
	out := make([]string, len(d.socialPlatforms))
	copy(out, d.socialPlatforms)
	return out
}

// SocialPlatform reports whether a site label names a social media platform
func (d *Dictionary) SocialPlatform(label string) (string, bool) {
	label = strings.ToLower(label)
	for _, p := range d.socialPlatforms {
		if p == label {
			return p, true
		}
	}
	return "", false
}

// IsWebmailDomain reports whether domain belongs to a public webmail provider
func (d *Dictionary) IsWebmailDomain(domain string) bool {
	domain = strings.ToLower(domain)
	for _, w := range d.webmailDomains {
		if strings.Contains(domain, w) {
			return true
		}
	}
	return false
}

// IsMeetingText reports whether text links to an online meeting service
func (d *Dictionary) IsMeetingText(text string) bool {
	text = strings.ToLower(text)
	for _, m := range d.meetingDomains {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
