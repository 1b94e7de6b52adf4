package text

import (
	"regexp"
	"sort"
	"strings"
)

const (
	htmlBreak = "<br>"
	lineBreak = "\n"
)

var (
	tagToken   = regexp.MustCompile(`(</?([\w+]+)[^>]*>)?([^<>]*)`)
	openingTag = regexp.MustCompile(`<[\w]+[^>]*>`)
	breakName  = regexp.MustCompile(`(?i)br`)
)

// TruncateLinebreak keeps input up to its brCount-th line break, counting both
// "<br>" and "\n". It reports whether anything was cut. With handleHTML every
// opening tag left in the kept text gets a closing tag appended, newest first.
//
// The repair does not match explicit closing tags, so an element closed before
// the cut is closed a second time. Existing rendered posts depend on this output.
func TruncateLinebreak(input string, brCount int, handleHTML bool) (string, bool) {
	if brCount <= 0 {
		return input, false
	}
	if strings.Count(input, htmlBreak)+strings.Count(input, lineBreak) <= brCount {
		return input, false
	}

	offsets := append(breakOffsets(input, htmlBreak), breakOffsets(input, lineBreak)...)
	sort.Ints(offsets)
	result := input[:offsets[brCount-1]]

	if !handleHTML {
		return result, true
	}

	var open []string
	for _, m := range tagToken.FindAllStringSubmatch(result, -1) {
		if breakName.MatchString(m[2]) {
			continue
		}
		if openingTag.MatchString(m[0]) {
			open = append([]string{m[2]}, open...)
		}
	}

	var sb strings.Builder
	sb.WriteString(result)
	for _, tag := range open {
		sb.WriteString("</" + tag + ">")
	}
	return sb.String(), true
}

func breakOffsets(s, sep string) []int {
	var offsets []int
	for i := 0; ; {
		pos := strings.Index(s[i:], sep)
		if pos == -1 {
			return offsets
		}
		offsets = append(offsets, i+pos)
		i += pos + len(sep)
	}
}
