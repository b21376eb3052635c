package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Hash computes the MD5 hex digest of a string. It identifies a text in
// snapshots and locale files.
func Hash(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}

// AllowedExplanationTags lists the inline tags kept in explanations.
var AllowedExplanationTags = []string{"br", "p", "strong", "em", "b", "i", "a", "code", "pre"}

// SanitizeExplanation strips every tag that is not in AllowedExplanationTags.
// Text between stripped tags is kept. Allowed tags keep their attributes
// except for event handlers.
func SanitizeExplanation(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !allowedTag(tok.Data) {
				continue
			}
			tok.Attr = safeAttrs(tok.Attr)
			b.WriteString(tok.String())
		}
	}
}

func allowedTag(name string) bool {
	for _, tag := range AllowedExplanationTags {
		if tag == name {
			return true
		}
	}
	return false
}

func safeAttrs(attrs []html.Attribute) []html.Attribute {
	out := attrs[:0]
	for _, a := range attrs {
		if strings.HasPrefix(strings.ToLower(a.Key), "on") {
			continue
		}
		out = append(out, a)
	}
	return out
}
