package signature

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mikey/email-signature-parser/internal/core"
	"github.com/mikey/email-signature-parser/internal/utils"
)

const (
	maxAddressDigitRun = 9
	maxAddressLength   = 150
	streetDistance     = 2
	countryDistance    = 3
	postcodeDistance   = 3
)

var (
	labelPrefixPattern   = regexp.MustCompile(`[^:]*:`)
	addressNoisePattern  = regexp.MustCompile(`[|<>]`)
	spacesPattern        = regexp.MustCompile(`\s+`)
	addressCommasPattern = regexp.MustCompile(`,+| ,`)
)

// addressCounts tallies the address labels found on one line
type addressCounts map[core.AddressLabel]int

func (c addressCounts) street() bool {
	road, house, number := c[core.LabelRoad] > 0, c[core.LabelHouse] > 0, c[core.LabelHouseNumber] > 0
	return (road && house) || (road && number) || (house && number)
}

// extractAddress claims the lines that together form a postal address and
// returns them joined with commas. Lines are anchored on a city or state;
// street, postcode and country lines count only near such an anchor.
// An assembly too long to be an address is given up and reported as rejected.
func extractAddress(lines []*Line, labeler core.AddressLabeler) (address string, rejected bool) {
	var localities, postcodes, streets []int
	country := -1

	for i, line := range lines {
		if line.Kind != KindUnknown {
			continue
		}

		text := utils.StripAnchors(line.Text)
		lower := strings.ToLower(text)
		if strings.Contains(lower, "@") || strings.Contains(lower, "http") || strings.Contains(lower, "www") {
			continue
		}

		counts := addressCounts{}
		for _, token := range labeler.Label(text) {
			counts[token.Label]++
		}

		// long digit runs are phone numbers unless the line clearly is a full address
		if utils.MaxConsecutiveDigits(text) > maxAddressDigitRun &&
			!(counts[core.LabelCountry] > 0 && counts[core.LabelState] > 0) {
			continue
		}

		if i > 0 && (counts[core.LabelCity] > 0 || counts[core.LabelState] > 0) {
			localities = append(localities, i)
		}
		if i > 0 && counts[core.LabelCountry] > 0 && country < 0 {
			country = i
			line.Kind = KindAddress
		}
		if i > 0 && counts[core.LabelPostcode] > 0 {
			postcodes = append(postcodes, i)
		}
		if counts.street() {
			streets = append(streets, i)
		}
	}

	for _, locality := range localities {
		for _, street := range streets {
			if distance(locality, street) < streetDistance {
				lines[locality].Kind = KindAddress
				lines[street].Kind = KindAddress
			}
		}
		if country > 0 && distance(locality, country) < countryDistance {
			lines[locality].Kind = KindAddress
		}
		for _, postcode := range postcodes {
			if distance(locality, postcode) < postcodeDistance {
				lines[locality].Kind = KindAddress
				lines[postcode].Kind = KindAddress
			}
		}
	}

	var parts []string
	for _, line := range lines {
		if line.Kind != KindAddress {
			continue
		}
		part := utils.StripAnchors(line.Text)
		part = labelPrefixPattern.ReplaceAllString(part, " ")
		part = addressNoisePattern.ReplaceAllString(part, " ")
		parts = append(parts, part)
	}
	address = strings.Join(parts, ", ")

	if utf8.RuneCountInString(address) > maxAddressLength {
		for _, line := range lines {
			if line.Kind == KindAddress {
				line.Kind = KindUnknown
			}
		}
		return "", true
	}

	address = spacesPattern.ReplaceAllString(address, " ")
	address = addressCommasPattern.ReplaceAllString(address, ",")
	return strings.TrimSpace(address), false
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
