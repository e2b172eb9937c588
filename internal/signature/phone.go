package signature

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/dictionary"
	"github.com/mikey/email-signature-parser/internal/utils"
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

var (
	// A digit run with inner separators and an optional trailing label, or a
	// lone separator between numbers sharing a line
	phoneCandidatePattern = regexp.MustCompile(`(.*?\+?\d+(?:[\s\-\(\)\.]+\d+)*(?:\s*(?:\([^)]+\)|[A-Za-z][^,\n]*))?)|[|●,]`)
	phoneSeparatorPattern = regexp.MustCompile(`[|●,]`)
	extensionPattern      = regexp.MustCompile(`(?i)(\b(?:ext\.?|extension)[.:\s]*\d+)|(?:^|[^\w])(x[.:\s]*\d+)`)
	nonDigitPattern       = regexp.MustCompile(`\D`)
	numberStartPattern    = regexp.MustCompile(`[\d+(]`)
	phoneCharsPattern     = regexp.MustCompile(`[^+\d\s.()\-]`)
	repeatedPlusPattern   = regexp.MustCompile(`\+\s+\+|\++`)
	callingCodePattern    = regexp.MustCompile(`^\+(\d{1,3})`)
)

type phoneKeywords struct {
	phoneType core.PhoneType
	labels    []string
}

// Labels written before the number. Order matters: the first set that
// matches decides the type.
var prefixKeywords = []phoneKeywords{
	{core.PhoneTypeMobile, []string{"m:", "mobile", "movil", "móvil", "c:", "cell"}},
	{core.PhoneTypeOffice, []string{"o:", "office", "oficina", "work", "w:", "trabajo"}},
	{core.PhoneTypeFax, []string{"f:", "fax"}},
	{core.PhoneTypeDirectLine, []string{"d:"}},
}

// Labels written after the number
var suffixKeywords = []phoneKeywords{
	{core.PhoneTypeMobile, []string{"mobile", "movil", "móvil", "cell"}},
	{core.PhoneTypeOffice, []string{"office", "oficina", "work", "trabajo"}},
	{core.PhoneTypeFax, []string{"fax"}},
}

// extractPhones finds the phone numbers on every line after the first.
// Several numbers may share a line, and an extension written on its own
// is attached to the number before it.
func extractPhones(lines []*Line, dict *dictionary.Dictionary) []core.Phone {
	phones := []core.Phone{}
	if len(lines) < 2 {
		return phones
	}

	for _, line := range lines[1:] {
		if line.Kind == KindAddress {
			continue
		}

		text := utils.StripAnchors(line.Text)
		for _, candidate := range phoneCandidates(text) {
			candidate, extension := cutExtension(candidate)

			run := utils.MaxConsecutiveDigits(candidate)
			if run < minPhoneDigits || run > maxPhoneDigits {
				if extension != "" && len(phones) > 0 {
					phones[len(phones)-1].Extension = extension
				}
				continue
			}

			phone, ok := parsePhone(candidate, dict)
			if !ok {
				continue
			}
			phone.Extension = extension
			phones = append(phones, phone)
			line.claim(KindPhone)
		}
	}

	return phones
}

func phoneCandidates(text string) []string {
	var out []string
	for _, m := range phoneCandidatePattern.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(phoneSeparatorPattern.ReplaceAllString(m[1], ""))
		if candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

// cutExtension removes every extension marker from text and returns the
// digits of the first one
func cutExtension(text string) (string, string) {
	matches := extensionPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, ""
	}

	var b strings.Builder
	extension := ""
	last := 0
	for _, m := range matches {
		// the extension is whichever group matched; the character before a bare x stays
		start, end := m[2], m[3]
		if start < 0 {
			start, end = m[4], m[5]
		}
		if extension == "" {
			extension = nonDigitPattern.ReplaceAllString(text[start:end], "")
		}
		b.WriteString(text[last:start])
		last = end
	}
	b.WriteString(text[last:])

	return strings.TrimSpace(b.String()), extension
}

func parsePhone(text string, dict *dictionary.Dictionary) (core.Phone, bool) {
	phoneType := core.PhoneTypePhone

	if loc := numberStartPattern.FindStringIndex(text); loc != nil {
		prefixStart := 0
		if i := strings.LastIndex(text[:loc[0]], ")"); i >= 0 {
			prefixStart = i + 1
		}
		prefix := text[prefixStart:loc[0]]
		phoneType = matchKeywords(strings.ToLower(prefix), prefixKeywords)
		text = text[:prefixStart] + text[loc[0]:]
	}

	if phoneType == core.PhoneTypePhone {
		if i := strings.LastIndexFunc(text, isASCIIDigit); i >= 0 {
			phoneType = matchKeywords(strings.ToLower(text[i+1:]), suffixKeywords)
		}
	}

	number := phoneCharsPattern.ReplaceAllString(text, "")
	number = repeatedPlusPattern.ReplaceAllString(number, "+")
	number = strings.TrimSpace(spacesPattern.ReplaceAllString(number, " "))

	count := utils.CountDigits(number)
	if count < minPhoneDigits || count > maxPhoneDigits {
		return core.Phone{}, false
	}

	phone := core.Phone{Type: phoneType, PhoneNumber: number}
	if m := callingCodePattern.FindStringSubmatch(number); m != nil {
		phone.Country = dict.CountryForCallingCode(m[1])
	}
	return phone, true
}

// matchKeywords returns the type of the first keyword set found in text.
// "direct" together with "line" marks a direct line in either position.
func matchKeywords(text string, sets []phoneKeywords) core.PhoneType {
	for _, set := range sets {
		for _, label := range set.labels {
			if containsLabel(text, label) {
				return set.phoneType
			}
		}
	}
	if strings.Contains(text, "direct") && strings.Contains(text, "line") {
		return core.PhoneTypeDirectLine
	}
	return core.PhoneTypePhone
}

// containsLabel reports whether text holds label. Single letter labels such
// as "m:" must not be the tail of a longer word ("teléfono:").
func containsLabel(text, label string) bool {
	if len(label) != 2 || label[1] != ':' {
		return strings.Contains(text, label)
	}
	for from := 0; ; {
		i := strings.Index(text[from:], label)
		if i < 0 {
			return false
		}
		i += from
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		if i == 0 || !unicode.IsLetter(before) {
			return true
		}
		from = i + 1
	}
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
