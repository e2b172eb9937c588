package htmltext

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoHTMLContent is returned when the input holds no <html>...</html> span
var ErrNoHTMLContent = errors.New("no HTML content found")

// Divider is the fixed-width rule emitted for <hr>, bordered boxes and long hyphen runs
var Divider = strings.Repeat("-", 145)

var (
	htmlSpanPattern    = regexp.MustCompile(`(?is)<html.*</html>`)
	solidBorderPattern = regexp.MustCompile(`border-\w*:\s*solid`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	lineBreakPattern   = regexp.MustCompile(`\r\n?`)
	nbspPattern        = regexp.MustCompile(`[ \t]*\x{00A0}+[ \t]*`)
	leadingDigits      = regexp.MustCompile(`^\s*(\d+)`)

	hyphenRun = strings.Repeat("-", 29)
)

// Convert isolates the <html>...</html> span of an email body and renders it as text
func Convert(body string) (string, error) {
	span := htmlSpanPattern.FindString(body)
	if span == "" {
		return "", ErrNoHTMLContent
	}
	return Render(strings.NewReader(span))
}

// Render walks an HTML document and produces plain text that keeps line
// breaks, list numbering and dividers. Links are kept inline as
// <a href="HREF">TEXT</a> so later passes can recognise them.
func Render(r io.Reader) (string, error) {
	w := &textWriter{}
	z := html.NewTokenizer(r)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return w.postprocess(), nil
			}
			return "", fmt.Errorf("failed to tokenize html: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			token := z.Token()
			w.startElement(token.Data)
			for _, a := range token.Attr {
				w.attr(token.Data, strings.ToLower(a.Key), a.Val)
			}
			w.attrsDone(token.Data)
			if token.Type == html.SelfClosingTagToken && token.Data != "br" && token.Data != "hr" {
				w.endElement(token.Data)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			w.endElement(string(name))

		case html.TextToken:
			w.text(string(z.Text()))
		}
	}
}

type listFrame struct {
	ordered bool
	level   int
	style   string
}

type textWriter struct {
	out     strings.Builder
	discard bool
	lists   []*listFrame

	inLink   bool
	linkHref strings.Builder
	linkText strings.Builder
}

func (w *textWriter) startElement(name string) {
	if isEmphasis(name) {
		w.out.WriteString(" ")
	}

	switch name {
	case "script", "style", "head", "meta", "title":
		w.discard = true
	default:
		w.discard = false
	}

	switch name {
	case "br":
		w.out.WriteString("\n")
	case "hr":
		w.writeDivider()
	case "ul", "ol":
		w.out.WriteString("\n")
		w.lists = append(w.lists, &listFrame{ordered: name == "ol", level: 1, style: "1"})
	case "a":
		w.inLink = true
		w.linkHref.Reset()
		w.linkText.Reset()
	}
}

func (w *textWriter) attr(element, key, value string) {
	switch {
	case element == "a" && key == "href":
		w.linkHref.WriteString(value)
	case element == "div" && key == "style" && solidBorderPattern.MatchString(value):
		w.writeDivider()
	case element == "ol" && key == "start" && len(w.lists) > 0:
		level := 0
		if m := leadingDigits.FindStringSubmatch(value); m != nil {
			level, _ = strconv.Atoi(m[1])
		}
		w.currentList().level = level
	case element == "ol" && key == "type" && len(w.lists) > 0:
		w.currentList().style = value
	}
}

func (w *textWriter) attrsDone(element string) {
	if element != "li" {
		return
	}
	list := w.currentList()
	if list == nil {
		// stray <li> outside any list
		return
	}

	if depth := len(w.lists); depth > 1 {
		w.out.WriteString(strings.Repeat(" ", 2*(depth-1)))
	}

	if !list.ordered {
		w.out.WriteString("* ")
		return
	}
	w.out.WriteString(ordinal(list.level, list.style))
	w.out.WriteString(". ")
}

func (w *textWriter) text(value string) {
	if value == "" {
		return
	}
	if w.inLink {
		w.linkText.WriteString(whitespacePattern.ReplaceAllString(value, " "))
		return
	}
	if w.discard {
		return
	}
	if strings.Contains(value, hyphenRun) {
		w.writeDivider()
		return
	}
	w.out.WriteString(whitespacePattern.ReplaceAllString(value, " "))
}

func (w *textWriter) endElement(name string) {
	w.discard = false

	if isEmphasis(name) {
		w.out.WriteString(" ")
	}

	switch name {
	case "p", "div", "table", "tr", "h1", "h2", "h3", "h4", "h5", "h6":
		w.out.WriteString("\n")
	case "a":
		fmt.Fprintf(&w.out, `<a href="%s">%s</a>`, w.linkHref.String(), w.linkText.String())
		w.inLink = false
		w.linkHref.Reset()
		w.linkText.Reset()
	case "li":
		w.out.WriteString("\n")
		if list := w.currentList(); list != nil && list.ordered {
			list.level++
		}
	case "ul", "ol":
		if len(w.lists) > 0 {
			w.lists = w.lists[:len(w.lists)-1]
		}
	}
}

func (w *textWriter) currentList() *listFrame {
	if len(w.lists) == 0 {
		return nil
	}
	return w.lists[len(w.lists)-1]
}

func (w *textWriter) writeDivider() {
	w.out.WriteString("\n" + Divider + "\n")
}

func (w *textWriter) postprocess() string {
	text := lineBreakPattern.ReplaceAllString(w.out.String(), "\n")
	text = nbspPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func isEmphasis(name string) bool {
	switch name {
	case "b", "strong", "i", "em":
		return true
	}
	return false
}

// ordinal renders a list position in the given <ol type> style
func ordinal(level int, style string) string {
	switch style {
	case "A":
		return string(rune('A' + wrapLetter(level)))
	case "a":
		return string(rune('a' + wrapLetter(level)))
	case "I":
		return roman(level)
	case "i":
		return strings.ToLower(roman(level))
	default:
		return strconv.Itoa(level)
	}
}

func wrapLetter(level int) int {
	n := (level - 1) % 26
	if n < 0 {
		n += 26
	}
	return n
}

var romanTable = []struct {
	value  int
	letter string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"}, {100, "C"},
	{90, "XC"}, {50, "L"}, {40, "XL"}, {10, "X"}, {9, "IX"},
	{5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(number int) string {
	var b strings.Builder
	for _, r := range romanTable {
		for number >= r.value {
			b.WriteString(r.letter)
			number -= r.value
		}
	}
	return b.String()
}
