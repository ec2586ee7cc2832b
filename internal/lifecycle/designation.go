package lifecycle

import (
	"regexp"
	"strings"
)

// Designation is the "No. N of YYYY" reference that names an instrument.
type Designation struct {
	Number string
	Year   string
}

// designationPattern matches "No. 33 of 2021", "No 33 of 2021", "33/2021".
var designationPattern = regexp.MustCompile(`(?i)(?:\bNo\.?\s*)?\b(\d{1,4})\s*(?:of\s+|/\s*)(\d{4})\b`)

var (
	amendCue  = regexp.MustCompile(`(?i)amend`)
	repealCue = regexp.MustCompile(`(?i)repeal|replaced`)
)

// instrumentKind matches a title prefix that only names a kind of
// instrument, such as "Federal Decree-Law " or "Cabinet Resolution ".
var instrumentKind = regexp.MustCompile(`(?i)^\s*(?:(?:federal|ministerial|cabinet|executive|local)\s+)*(?:decree[\s-]*law|law|decree|resolution|regulation|order|circular|decision)?\s*$`)

// Designations returns every designation in title, in order of appearance.
func Designations(title string) []Designation {
	var out []Designation
	for _, m := range designationPattern.FindAllStringSubmatch(title, -1) {
		out = append(out, Designation{Number: strings.TrimLeft(m[1], "0"), Year: m[2]})
	}
	return out
}

// Primary returns the instrument's own designation: the first one before
// any amendment cue. A title that designates nothing before the cue, such as
// "Ministerial Resolution Amending Law No. 8 of 1980", has none.
func Primary(title string) (Designation, bool) {
	ds := Designations(ownPart(title))
	if len(ds) == 0 {
		return Designation{}, false
	}
	return ds[0], true
}

// NamedBy reports whether title is headed by its primary designation:
// "Federal Decree-Law No. 33 of 2021" is, "Guide to Federal Decree-Law
// No. 33 of 2021" only mentions it.
func NamedBy(title string) bool {
	own := ownPart(title)
	loc := designationPattern.FindStringIndex(own)
	return loc != nil && instrumentKind.MatchString(own[:loc[0]])
}

func ownPart(title string) string {
	if loc := amendCue.FindStringIndex(title); loc != nil {
		return title[:loc[0]]
	}
	return title
}

// AmendmentTargets returns the designations referenced after the first
// amendment cue. A title without the cue references nothing.
func AmendmentTargets(title string) []Designation {
	loc := amendCue.FindStringIndex(title)
	if loc == nil {
		return nil
	}
	return Designations(title[loc[1]:])
}

// IsRepealing reports whether title announces a repeal or replacement.
func IsRepealing(title string) bool {
	return repealCue.MatchString(title)
}
