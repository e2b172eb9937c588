package signature

import (
	"regexp"
	"strings"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/utils"
)

const (
	companySimilarityThreshold = 0.6
	companyLineLimit           = 3
	shortSectionWords          = 3
	acronymTrimChars           = ".;:()[]"
)

var sectionCleanPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// extractCompanyAndTitle reads the company name and job titles from the top
// of the signature. A company is recognised by a legal-form word or by its
// likeness to the sender's domain; titles by job title words and credential
// acronyms.
func extractCompanyAndTitle(lines []*Line, email string, dict *dictionary.Dictionary) (string, core.JobTitle) {
	title := core.JobTitle{Titles: []string{}, Acronyms: []string{}}
	domain := companyDomain(email, dict)

	var company []string
	examined := 0
	for _, line := range lines {
		if examined == companyLineLimit {
			break
		}
		if line.Kind != KindUnknown && line.Kind != KindName {
			continue
		}
		examined++

		text := strings.TrimSpace(line.Text)
		if strings.Contains(text, "@") || strings.Contains(text, "www") || strings.Contains(text, "http") {
			continue
		}

		touched := false
		for _, section := range strings.Split(text, ",") {
			clean := strings.TrimSpace(spacesPattern.ReplaceAllString(sectionCleanPattern.ReplaceAllString(section, " "), " "))
			words := strings.Fields(clean)
			if len(words) == 0 {
				continue
			}

			for _, w := range words {
				if dict.IsCompanySuffix(w) {
					company = []string{strings.TrimSpace(section)}
					touched = true
					break
				}
			}

			if len(company) == 0 && domain != "" {
				if matched := matchDomain(section, clean, words, domain); len(matched) > 0 {
					company = matched
					touched = true
					continue
				}
			}

			for _, w := range words {
				if dict.IsJobTitleWord(w) {
					title.Titles = appendUnique(title.Titles, strings.TrimSpace(spacesPattern.ReplaceAllString(section, " ")))
					touched = true
					break
				}
			}

			for _, w := range strings.Fields(section) {
				if acronym, ok := dict.Acronym(strings.Trim(w, acronymTrimChars)); ok {
					title.Acronyms = appendUnique(title.Acronyms, acronym)
					touched = true
				}
			}
		}

		if touched {
			line.claim(KindCompanyOrTitle)
		}
	}

	return strings.Join(unique(company), " "), title
}

// companyDomain returns the registrable label of the sender's domain, or ""
// for webmail senders and domains the public suffix list cannot split
func companyDomain(email string, dict *dictionary.Dictionary) string {
	_, domain, ok := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if !ok || domain == "" || dict.IsWebmailDomain(domain) {
		return ""
	}
	label, err := utils.RegistrableLabel(domain)
	if err != nil {
		return ""
	}
	return label
}

// matchDomain compares a section with the company domain, first as a whole
// and then word by word. A short section holding a close word is taken whole.
func matchDomain(section, clean string, words []string, domain string) []string {
	joined := strings.ToLower(strings.Join(strings.Fields(clean), ""))
	if utils.Similarity(joined, domain) >= companySimilarityThreshold {
		return []string{strings.TrimSpace(section)}
	}

	var matched []string
	for _, w := range words {
		score := utils.Similarity(strings.ToLower(w), domain)
		if score == 1 {
			return append(matched, w)
		}
		if score >= companySimilarityThreshold {
			if len(words) <= shortSectionWords {
				return append([]string(nil), words...)
			}
			matched = append(matched, w)
		}
	}
	return matched
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func unique(values []string) []string {
	var out []string
	for _, v := range values {
		out = appendUnique(out, v)
	}
	return out
}
