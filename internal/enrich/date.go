package enrich

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/lexsync/internal/instrument"
)

var (
	isoDate  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	textDate = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\.?,?\s+(\d{4})`)
)

// EffectiveDate extracts the first date in region as YYYY-MM-DD.
//
// An ISO date wins over a "day month year" date. Anything that does not
// parse to a real calendar date yields "".
func EffectiveDate(region string) string {
	if m := isoDate.FindString(region); m != "" {
		return NormalizeDate(m)
	}
	if m := textDate.FindString(region); m != "" {
		return NormalizeDate(m)
	}
	return ""
}

// NormalizeDate converts an ISO or "day month year" string into ISO form.
// Month names may be full or abbreviated to three or more letters
// ("Sep", "Sept", "Sept."), in any case. Unparseable input returns "".
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	if isoDate.MatchString(s) && len(s) == len(instrument.DateLayout) {
		if _, err := time.Parse(instrument.DateLayout, s); err == nil {
			return s
		}
		return ""
	}

	m := textDate.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month, ok := monthByName(m[2])
	if !ok {
		return ""
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return ""
	}
	return t.Format(instrument.DateLayout)
}

// monthByName matches a full month name or a prefix of at least three letters.
func monthByName(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), w) {
			return m, true
		}
	}
	return 0, false
}
