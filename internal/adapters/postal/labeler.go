package postal

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/email-signature-parser/internal/core"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed data/gazetteer.yaml
var dataFS embed.FS

// longest place name matched, in words
const maxPhraseWords = 4

var (
	segmentPattern    = regexp.MustCompile(`[,|;•·]`)
	zipPattern        = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	houseNumberRegexp = regexp.MustCompile(`^\d+[A-Za-z]?(?:-\d+)?$`)
	ukOutwardPattern  = regexp.MustCompile(`^[A-Z]{1,2}\d[A-Z\d]?$`)
	ukInwardPattern   = regexp.MustCompile(`^\d[A-Z]{2}$`)
	caOutwardPattern  = regexp.MustCompile(`^[A-Z]\d[A-Z]$`)
	caInwardPattern   = regexp.MustCompile(`^\d[A-Z]\d$`)
	regionCodePattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

type gazetteer struct {
	Countries         []string `yaml:"countries"`
	CountryCodes      []string `yaml:"country_codes"`
	Regions           []string `yaml:"regions"`
	RegionCodes       []string `yaml:"region_codes"`
	Cities            []string `yaml:"cities"`
	RoadWords         []string `yaml:"road_words"`
	RoadAbbreviations []string `yaml:"road_abbreviations"`
	HouseWords        []string `yaml:"house_words"`
}

// Labeler tags address fragments in free text using an embedded gazetteer
// of place names and street vocabulary. It implements core.AddressLabeler.
type Labeler struct {
	countries    map[string]struct{}
	countryCodes map[string]struct{}
	regions      map[string]struct{}
	regionCodes  map[string]struct{}
	cities       map[string]struct{}
	roadWords    map[string]struct{}
	roadAbbrevs  map[string]struct{}
	houseWords   map[string]struct{}
	logger       *zap.Logger
}

// NewLabeler loads the embedded gazetteer
func NewLabeler(logger *zap.Logger) (*Labeler, error) {
	data, err := dataFS.ReadFile("data/gazetteer.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer: %w", err)
	}

	var g gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode gazetteer: %w", err)
	}

	l := &Labeler{
		countries:    foldedSet(g.Countries),
		countryCodes: exactSet(g.CountryCodes),
		regions:      foldedSet(g.Regions),
		regionCodes:  exactSet(g.RegionCodes),
		cities:       foldedSet(g.Cities),
		roadWords:    foldedSet(g.RoadWords),
		roadAbbrevs:  foldedSet(g.RoadAbbreviations),
		houseWords:   foldedSet(g.HouseWords),
		logger:       logger,
	}

	logger.Debug("Gazetteer loaded",
		zap.Int("cities", len(l.cities)),
		zap.Int("regions", len(l.regions)),
		zap.Int("countries", len(l.countries)))

	return l, nil
}

// token is one whitespace-separated word of a segment
type token struct {
	raw    string // as written, outer punctuation removed
	folded string // lower-cased with accents removed
	label  core.AddressLabel
}

// Label splits line into comma-like segments and labels the words of each.
// Fragments that are not recognised are left out of the result.
func (l *Labeler) Label(line string) []core.AddressToken {
	var result []core.AddressToken
	var previous core.AddressLabel

	for _, segment := range segmentPattern.Split(line, -1) {
		tokens := tokenize(segment)
		if len(tokens) == 0 {
			continue
		}

		l.labelPostcodes(tokens)
		l.labelPlaces(tokens, previous)
		l.labelStreet(tokens)

		for _, t := range collapse(tokens) {
			result = append(result, t)
			previous = t.Label
		}
	}

	return result
}

func tokenize(segment string) []*token {
	var tokens []*token
	for _, word := range strings.Fields(segment) {
		raw := strings.Trim(word, ".,:;()[]\"'")
		if raw == "" {
			continue
		}
		tokens = append(tokens, &token{raw: raw, folded: fold(raw)})
	}
	return tokens
}

func (l *Labeler) labelPostcodes(tokens []*token) {
	hasRoad := l.segmentHasRoad(tokens)

	for i, t := range tokens {
		if t.label != "" {
			continue
		}

		// a leading five-digit number on a street line is a house number
		if zipPattern.MatchString(t.raw) && !(hasRoad && i == 0) {
			t.label = core.LabelPostcode
			continue
		}

		if i+1 < len(tokens) {
			next := tokens[i+1]
			if (ukOutwardPattern.MatchString(t.raw) && ukInwardPattern.MatchString(next.raw)) ||
				(caOutwardPattern.MatchString(t.raw) && caInwardPattern.MatchString(next.raw)) {
				t.label = core.LabelPostcode
				next.label = core.LabelPostcode
			}
		}
	}
}

func (l *Labeler) labelPlaces(tokens []*token, previous core.AddressLabel) {
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.label != "" {
			previous = t.label
			continue
		}

		if n, label := l.matchPhrase(tokens[i:]); n > 0 {
			for _, m := range tokens[i : i+n] {
				m.label = label
			}
			previous = label
			i += n - 1
			continue
		}

		code := strings.ReplaceAll(t.raw, ".", "")
		if _, ok := l.countryCodes[code]; ok {
			t.label = core.LabelCountry
			previous = t.label
			continue
		}

		if regionCodePattern.MatchString(t.raw) {
			if _, ok := l.regionCodes[t.raw]; ok {
				beforePostcode := i+1 < len(tokens) && tokens[i+1].label == core.LabelPostcode
				alone := len(tokens) == 1
				if beforePostcode || alone || previous == core.LabelCity {
					t.label = core.LabelState
					previous = t.label
				}
			}
		}
	}
}

// matchPhrase finds the longest place name starting at tokens[0]. Cities
// win over regions and regions over countries when a name is ambiguous.
func (l *Labeler) matchPhrase(tokens []*token) (int, core.AddressLabel) {
	for n := min(maxPhraseWords, len(tokens)); n > 0; n-- {
		words := make([]string, 0, n)
		free := true
		for _, t := range tokens[:n] {
			if t.label != "" {
				free = false
				break
			}
			words = append(words, t.folded)
		}
		if !free {
			continue
		}

		phrase := strings.Join(words, " ")
		switch {
		case contains(l.cities, phrase):
			return n, core.LabelCity
		case contains(l.regions, phrase):
			return n, core.LabelState
		case contains(l.countries, phrase):
			return n, core.LabelCountry
		}
	}
	return 0, ""
}

func (l *Labeler) labelStreet(tokens []*token) {
	if !l.segmentHasRoad(tokens) {
		l.labelHouse(tokens)
		return
	}

	numbered := false
	for _, t := range tokens {
		if t.label == "" && houseNumberRegexp.MatchString(t.raw) {
			t.label = core.LabelHouseNumber
			numbered = true
			break
		}
	}

	for _, t := range tokens {
		if t.label != "" {
			continue
		}
		if contains(l.roadWords, t.folded) || (numbered && contains(l.roadAbbrevs, t.folded)) {
			t.label = core.LabelRoad
		}
	}

	l.labelHouse(tokens)

	// the name words ahead of a road word belong to the road
	for i, t := range tokens {
		if t.label != core.LabelRoad {
			continue
		}
		for j := i - 1; j >= 0 && tokens[j].label == ""; j-- {
			tokens[j].label = core.LabelRoad
		}
	}
}

func (l *Labeler) labelHouse(tokens []*token) {
	for i, t := range tokens {
		if t.label != "" || !contains(l.houseWords, t.folded) {
			continue
		}
		t.label = core.LabelHouse
		if i+1 < len(tokens) && tokens[i+1].label == "" && houseNumberRegexp.MatchString(tokens[i+1].raw) {
			tokens[i+1].label = core.LabelHouse
		}
	}
}

func (l *Labeler) segmentHasRoad(tokens []*token) bool {
	numbered := false
	for _, t := range tokens {
		if houseNumberRegexp.MatchString(t.raw) {
			numbered = true
			break
		}
	}
	for _, t := range tokens {
		if contains(l.roadWords, t.folded) || (numbered && contains(l.roadAbbrevs, t.folded)) {
			return true
		}
	}
	return false
}

// collapse merges adjacent tokens sharing a label into one fragment
func collapse(tokens []*token) []core.AddressToken {
	var out []core.AddressToken
	for _, t := range tokens {
		if t.label == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Label == t.label {
			out[n-1].Value += " " + t.raw
			continue
		}
		out = append(out, core.AddressToken{Label: t.label, Value: t.raw})
	}
	return out
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

func foldedSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[fold(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}

func exactSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.TrimSpace(w)] = struct{}{}
	}
	return set
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
