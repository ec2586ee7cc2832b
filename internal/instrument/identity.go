package instrument

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxIDLength bounds derived identifiers.
const MaxIDLength = 60

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9/ ]+`)
	slugSpace  = regexp.MustCompile(`\s+`)
	slugHyphen = regexp.MustCompile(`-+`)
)

// Slug derives a stable identifier from a title.
//
// Lowercases, drops everything outside [a-z0-9/ ], turns whitespace runs into
// single hyphens, collapses repeated hyphens and truncates to MaxIDLength.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugHyphen.ReplaceAllString(s, "-")
	if len(s) > MaxIDLength {
		s = s[:MaxIDLength]
	}
	return s
}

// zeroWidth matches U+200B..U+200D and U+FEFF, which index pages use as
// layout glue inside link labels.
var zeroWidth = runes.Predicate(func(r rune) bool {
	return (r >= '\u200B' && r <= '\u200D') || r == '\uFEFF'
})

// CleanTitle normalises a scraped label into a title: NFC form, zero-width
// characters removed, whitespace collapsed and trimmed.
func CleanTitle(label string) string {
	return clean(label, transform.Chain(norm.NFC, runes.Remove(zeroWidth)))
}

// LabelID derives the identifier for a scraped label. The slug is taken
// from the label as published, before NFC composition, so a decomposed
// accent ("e" + U+0301) keeps its base letter in the ID.
func LabelID(label string) string {
	return Slug(clean(label, runes.Remove(zeroWidth)))
}

func clean(label string, t transform.Transformer) string {
	s, _, err := transform.String(t, label)
	if err != nil {
		s = label
	}
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
