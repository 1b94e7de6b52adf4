// Package text holds the text helpers used when storing and rendering posts.
package text

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	specialChars = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"'", "&#039;",
		"<", "&lt;",
		">", "&gt;",
	)
	specialCharsDecode = strings.NewReplacer(
		"&amp;", "&",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#039;", "'",
		"&#39;", "'",
		"&lt;", "<",
		"&gt;", ">",
	)
	strict = bluemonday.StrictPolicy()
)

// CleanField escapes a user submitted field before it is stored. Invalid UTF-8
// is replaced with U+FFFD.
func CleanField(field string) string {
	return specialChars.Replace(strings.ToValidUTF8(field, "\uFFFD"))
}

// DecodeSpecialChars reverses CleanField.
func DecodeSpecialChars(s string) string {
	return specialCharsDecode.Replace(s)
}

// StripTags removes all markup and keeps the text content. The result is
// still entity encoded, so pair it with DecodeSpecialChars for plain text.
func StripTags(s string) string {
	return strict.Sanitize(s)
}

// RawURLEncode percent-encodes s the way RFC 3986 expects, spaces as %20.
func RawURLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// HumanFilesize formats a byte count with dec decimals. The unit is picked from
// the number of decimal digits, so 1000 bytes already reads as KB.
func HumanFilesize(bytes int64, dec int) string {
	factor := (len(strconv.FormatInt(bytes, 10)) - 1) / 3
	if factor >= len(sizeUnits) {
		factor = len(sizeUnits) - 1
	}
	return fmt.Sprintf("%.*f%s", dec, float64(bytes)/math.Pow(1024, float64(factor)), sizeUnits[factor])
}

// BreakLongWords inserts a newline into every space separated word longer than
// maxLen. Runs of spaces are preserved.
func BreakLongWords(input string, maxLen int) string {
	if maxLen <= 0 {
		return input
	}
	words := strings.Split(input, " ")
	for i, w := range words {
		words[i] = wrapWord(w, maxLen)
	}
	return strings.Join(words, " ")
}

// wrapWord cuts w into maxLen byte chunks. Embedded newlines reset the count.
func wrapWord(w string, maxLen int) string {
	lines := strings.Split(w, "\n")
	for i, line := range lines {
		if len(line) <= maxLen {
			continue
		}
		var sb strings.Builder
		for len(line) > maxLen {
			sb.WriteString(line[:maxLen])
			sb.WriteString("\n")
			line = line[maxLen:]
		}
		sb.WriteString(line)
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}
