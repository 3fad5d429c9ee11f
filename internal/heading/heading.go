package heading

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	labelPattern = regexp.MustCompile(`(heading|titulo)\s*(\d+)`)
	enumPrefix   = regexp.MustCompile(`^\s*(\d+[.)]\s*|\d+\s*-\s*)`)
)

// Normalize reduces text to its canonical comparable form: diacritics
// stripped, lowercased, runs of whitespace collapsed to single spaces,
// trimmed. Idempotent; empty input yields the empty string.
func Normalize(s string) string {
	s = stripMarks(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// BaseTitle strips one leading enumeration prefix ("12.", "3)", "4 - ")
// before normalizing, so numbered and unnumbered spellings of a title
// compare equal.
func BaseTitle(s string) string {
	return Normalize(enumPrefix.ReplaceAllString(s, ""))
}

// Classify maps a paragraph style label to a heading level. Both the English
// "Heading N" and Spanish "Título N" / "Titulo N" conventions are accepted,
// in any casing, with or without a space before the number. The second
// return is false when the label does not name a heading at all.
func Classify(label string) (int, bool) {
	m := labelPattern.FindStringSubmatch(Normalize(label))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return n, true
}

// stripMarks decomposes to NFD and drops combining marks, so "Título" and
// "Titulo" come out identical.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
