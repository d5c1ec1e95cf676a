package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

// Sanitize neutralises item-supplied text for a single-line cell: escape
// sequences are stripped, newlines and tabs become spaces and every other
// control or bidi-override character is dropped.
func Sanitize(s string) string {
	return clean(s, false)
}

// SanitizeBody is Sanitize for multi-line bodies: newlines are kept.
func SanitizeBody(s string) string {
	return clean(s, true)
}

func clean(s string, keepNewlines bool) string {
	if s == "" {
		return s
	}
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' && keepNewlines:
			return r
		case r == '\n', r == '\t', r == '\r':
			return ' '
		case unicode.IsControl(r), isBidiControl(r):
			return -1
		default:
			return r
		}
	}, s)
}

func isBidiControl(r rune) bool {
	return (r >= '\u202a' && r <= '\u202e') || (r >= '\u2066' && r <= '\u2069') || r == '\u200e' || r == '\u200f'
}

// PlainText extracts the text of an HTML fragment (problem statements are
// delivered as HTML) and sanitises it as a body.
func PlainText(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return SanitizeBody(html.UnescapeString(fragment))
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(SanitizeBody(b.String()))
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "br", "li", "pre", "div":
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteByte('\n')
				}
			}
		}
	}
}
