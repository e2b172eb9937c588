package utils

import (
	"mime"
	"regexp"
	"strings"

	"github.com/emersion/go-message/charset"
)

const maxNameWordLength = 15

var (
	// A reply header line carrying an address, or a rule followed by a From/De line
	replyMarkerPattern = regexp.MustCompile(`(?im)(^[ \t>]*(?:from|de):\s.*@.+)|(-{5,}\s*?^[ \t>]*(?:from|de):\s+\w+)`)
	forwardedPattern   = regexp.MustCompile(`(?i)-{5,}.*?(?:forwarded|reenviado|original)`)
	quotePattern       = regexp.MustCompile(`["']`)
	angleAddrPattern   = regexp.MustCompile(`<(.+?)>`)

	wordDecoder = &mime.WordDecoder{CharsetReader: charset.Reader}
)

// SplitThreads splits a message body at quoted reply headers. The first
// element is the newest message. Empty segments are dropped.
func SplitThreads(text string) []string {
	var messages []string
	last := 0
	for _, loc := range replyMarkerPattern.FindAllStringIndex(text, -1) {
		if msg := strings.TrimSpace(text[last:loc[0]]); msg != "" {
			messages = append(messages, msg)
		}
		last = loc[0]
	}
	if msg := strings.TrimSpace(text[last:]); msg != "" {
		messages = append(messages, msg)
	}
	return messages
}

// LatestMessage returns the newest message of a thread with any forwarded
// content removed.
func LatestMessage(text string) string {
	messages := SplitThreads(text)
	if len(messages) == 0 {
		return ""
	}
	return RemoveForwarded(messages[0])
}

// RemoveForwarded cuts text at a forwarded or original message separator
func RemoveForwarded(text string) string {
	if loc := forwardedPattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}

// SplitFrom splits a From header value into display name and lowercased address.
// Encoded words in the name are decoded. A name holding a word longer than
// 15 characters is discarded, as it is rarely a real person's name.
func SplitFrom(from string) (name, email string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}

	if strings.Contains(from, "<") && strings.Contains(from, ">") {
		name = strings.TrimSpace(from[:strings.Index(from, "<")])
		if decoded, err := wordDecoder.DecodeHeader(name); err == nil {
			name = decoded
		}
		name = strings.TrimSpace(quotePattern.ReplaceAllString(name, ""))
		if m := angleAddrPattern.FindStringSubmatch(from); m != nil {
			email = strings.TrimSpace(m[1])
		}
	} else {
		email = from
	}

	for _, word := range strings.Fields(name) {
		if len([]rune(word)) > maxNameWordLength {
			name = ""
			break
		}
	}

	return name, strings.ToLower(email)
}
