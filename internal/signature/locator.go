package signature

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mikey/email-signature-parser/internal/utils"
)

const (
	nameSimilarityThreshold = 0.7
	maxBreakSymbols         = 5
	maxNameLineWords        = 7
	maxNameWordLength       = 15
	maxEmailDistance        = 8
	maxLineLength           = 150
	maxSignatureLines       = 12
)

var (
	lineSplitPattern  = regexp.MustCompile(`[\t\r\n]`)
	nameCleanPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	wordCleanPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s.@]`)
	localPartSplitter = regexp.MustCompile(`[._\-+]+`)
	digitPattern      = regexp.MustCompile(`\d`)
)

// Location is the outcome of searching a body for its signature block
type Location struct {
	// Lines holds every line of the body, in order
	Lines []*Line
	// Signature holds the non-empty lines inside the block. It is empty
	// when no signature was found.
	Signature []*Line
	// Start and End bound the block as line indices, End exclusive. Both
	// are -1 when no signature was found.
	Start, End int
	// NameIndex is the line recognised as the sender's name, or -1
	NameIndex int
	// RecoveredName is the display name rebuilt from the email local part
	RecoveredName string
	// Oversized is set when a block was found but dropped for having too many lines
	Oversized bool
}

// Found reports whether a signature block was located
func (l *Location) Found() bool {
	return len(l.Signature) > 0
}

// Locate finds the signature block at the end of body. name is the sender's
// display name and may be empty, in which case the name is rebuilt from the
// local part of email when a signature line spells it out.
func Locate(body, name, email string) *Location {
	loc := &Location{Start: -1, End: -1, NameIndex: -1}

	texts := splitLines(body)
	loc.Lines = make([]*Line, len(texts))
	for i, t := range texts {
		loc.Lines[i] = &Line{Text: t}
	}

	breaks := findBreaks(texts)
	if len(breaks) == 0 {
		return loc
	}

	email = strings.ToLower(strings.TrimSpace(email))
	localPart, _, _ := strings.Cut(email, "@")

	key := nameKey(name, localPart)
	rebuildFrom := ""
	if strings.TrimSpace(name) == "" {
		rebuildFrom = localPart
	}

	start, emailIndex := -1, -1
	for i := breaks[0]; i < len(texts); i++ {
		lower := strings.ToLower(texts[i])
		if strings.Contains(lower, "http") || strings.Contains(lower, "www") {
			continue
		}
		if emailIndex < 0 && email != "" && strings.Contains(lower, email) {
			emailIndex = i
		}

		words := strings.Fields(wordCleanPattern.ReplaceAllString(lower, " "))
		if len(words) == 0 || len(words) > maxNameLineWords {
			continue
		}
		words = nameCandidates(words)

		score := bestSimilarity(key, words)
		if rebuildFrom != "" {
			if recovered, ok := rebuildName(rebuildFrom, words); ok {
				score = 1
				loc.RecoveredName = recovered
			}
		}

		if score > nameSimilarityThreshold {
			start = i
			loc.NameIndex = i
		}
	}

	if start < 0 {
		start = emailAnchoredStart(breaks, emailIndex)
		if start < 0 {
			return loc
		}
	}

	end := findEnd(texts, start)

	var signature []*Line
	for i := start; i < end; i++ {
		line := loc.Lines[i]
		line.IsSignature = true
		if i == loc.NameIndex {
			line.Kind = KindName
		}
		if line.Text != "" {
			signature = append(signature, line)
		}
	}

	if len(signature) > maxSignatureLines {
		for i := start; i < end; i++ {
			loc.Lines[i].IsSignature = false
		}
		loc.Oversized = true
		return loc
	}

	loc.Start, loc.End, loc.Signature = start, end, signature
	return loc
}

// splitLines splits body on tabs and line breaks, trimming every line and
// dropping the blank lines at the end
func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := lineSplitPattern.Split(body, -1)
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func isBreak(line string) bool {
	return line == "" ||
		strings.Count(line, "*") > maxBreakSymbols ||
		strings.Count(line, "-") > maxBreakSymbols ||
		strings.Count(line, "_") > maxBreakSymbols
}

// findBreaks returns the index of the last line of every run of blank or
// divider lines, ignoring everything before the first line of real content
func findBreaks(lines []string) []int {
	var breaks []int
	started := false
	run := 0
	for i, line := range lines {
		if !started {
			started = len(strings.Fields(line)) > 2
			continue
		}
		if isBreak(line) {
			run++
			continue
		}
		if run > 0 {
			breaks = append(breaks, i-1)
		}
		run = 0
	}
	return breaks
}

// nameKey returns the lowercase words to look for: the display name when
// there is one, the words of the email local part otherwise
func nameKey(name, localPart string) []string {
	if name = strings.TrimSpace(name); name != "" {
		return strings.Fields(nameCleanPattern.ReplaceAllString(strings.ToLower(name), " "))
	}
	return strings.Fields(localPartSplitter.ReplaceAllString(localPart, " "))
}

// nameCandidates drops words that cannot be part of a name
func nameCandidates(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) >= maxNameWordLength || digitPattern.MatchString(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func bestSimilarity(key, words []string) float64 {
	best := 0.0
	for _, k := range key {
		for _, w := range words {
			if s := utils.Similarity(w, k); s > best {
				best = s
			}
		}
	}
	return best
}

// rebuildName tries the usual ways of turning a name into a mailbox
// (first, firstlast, first.last, flast, f.last and their middle name forms)
// on every run of words and returns the capitalized name that spells localPart.
func rebuildName(localPart string, words []string) (string, bool) {
	if localPart == "" {
		return "", false
	}
	lead, _ := utf8.DecodeRuneInString(localPart)

	found := ""
	for i, first := range words {
		rest := words[i+1:]
		if len(rest) == 0 {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(first); r != lead {
			continue
		}

		initial := firstRune(first)
		if matchesAny(localPart, mailboxForms(first, initial, rest[0])) {
			found = utils.CapitalizeWords(first, rest[0])
		}

		if len(rest) > 1 {
			middle, last := rest[0], rest[1]
			forms := append(mailboxForms(first, initial, last),
				first+middle+last,
				first+"."+middle+"."+last,
				initial+"."+middle+"."+last,
				initial+firstRune(middle)+last,
				first+firstRune(middle)+last,
			)
			if matchesAny(localPart, forms) {
				found = utils.CapitalizeWords(first, middle, last)
			}
		}
	}

	return found, found != ""
}

func mailboxForms(first, initial, last string) []string {
	return []string{
		first,
		first + last,
		first + "." + last,
		initial + last,
		initial + "." + last,
	}
}

func matchesAny(s string, candidates []string) bool {
	for _, c := range candidates {
		if c == s {
			return true
		}
	}
	return false
}

func firstRune(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// emailAnchoredStart places the start right after the break closest above
// the line holding the sender's address, if that break is near enough
func emailAnchoredStart(breaks []int, emailIndex int) int {
	if emailIndex < 0 {
		return -1
	}
	closest := -1
	for _, b := range breaks {
		if b < emailIndex && b > closest {
			closest = b
		}
	}
	if closest < 0 || emailIndex-closest >= maxEmailDistance {
		return -1
	}
	return closest + 1
}

// findEnd returns the index of the first line after start that closes the
// signature: a divider, an overlong line or two blank lines in a row
func findEnd(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		text := utils.StripAnchors(lines[i])
		if strings.Count(text, "*") > maxBreakSymbols ||
			strings.Count(text, "-") > maxBreakSymbols ||
			utf8.RuneCountInString(text) > maxLineLength {
			return i
		}
		if lines[i] == "" && i+1 < len(lines) && lines[i+1] == "" {
			return i
		}
	}
	return len(lines)
}
