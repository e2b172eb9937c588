package utils

import (
	"strings"
	"unicode/utf8"
)

// Similarity scores how alike a and b are on a 0..1 scale.
//
// Every substring of length two or more shared by both strings is collected,
// substrings contained in a longer shared substring are discarded, and the
// summed length of what remains is divided by the length of the longer input.
// Equal strings score 1. The comparison is case sensitive.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	longText := string(long)

	shared := make(map[string]struct{})
	for i := 0; i < len(short)-1; i++ {
		for j := i + 2; j <= len(short); j++ {
			sub := string(short[i:j])
			if !strings.Contains(longText, sub) {
				break
			}
			shared[sub] = struct{}{}
		}
	}

	total := 0
	for sub := range shared {
		maximal := true
		for other := range shared {
			if len(other) > len(sub) && strings.Contains(other, sub) {
				maximal = false
				break
			}
		}
		if maximal {
			total += utf8.RuneCountInString(sub)
		}
	}

	score := float64(total) / float64(len(long))
	if score > 1 {
		return 1
	}
	return score
}

// MaxConsecutiveDigits returns the longest run of digits in text, treating
// gaps of one or two separator characters (anything but digits and ASCII
// letters) between digits as part of the run. "(555) 123-4567" yields 10.
func MaxConsecutiveDigits(text string) int {
	runes := []rune(text)
	best, run := 0, 0
	for i := 0; i < len(runes); i++ {
		if !isDigit(runes[i]) {
			run = 0
			continue
		}
		run++
		if run > best {
			best = run
		}
		// bridge a short separator when another digit follows it
		switch {
		case i+3 < len(runes) && isGap(runes[i+1]) && isGap(runes[i+2]) && isDigit(runes[i+3]):
			i += 2
		case i+2 < len(runes) && isGap(runes[i+1]) && isDigit(runes[i+2]):
			i++
		}
	}
	return best
}

// CountDigits returns how many ASCII digits text contains.
func CountDigits(text string) int {
	n := 0
	for _, r := range text {
		if isDigit(r) {
			n++
		}
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isGap(r rune) bool {
	return !isDigit(r) && !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z')
}
