package linkedin

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FlexibleDate is the result of parsing a date cell of unknown format.
// Raw always carries the original text so callers can preserve it next
// to the normalized value. Ambiguous is set when a slash date could be
// read as either MM/DD or DD/MM and the US reading was applied.
type FlexibleDate struct {
	Time      time.Time
	Raw       string
	Parsed    bool
	Ambiguous bool
}

// ISO returns the normalized YYYY-MM-DD form, or the raw text when the
// value never parsed.
func (d FlexibleDate) ISO() string {
	if !d.Parsed {
		return d.Raw
	}
	return d.Time.Format("2006-01-02")
}

var (
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dotDatePattern   = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	weekOfPattern    = regexp.MustCompile(`(?i)^Week of\s+(.+)$`)
	rangePattern2    = regexp.MustCompile(`^([A-Za-z]{3,9} \d{1,2})\s*-\s*[A-Za-z]{3,9} \d{1,2},\s*(\d{4})$`)
)

var monthNameLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseFlexibleDate normalizes the date formats LinkedIn mixes across
// export types. ISO forms are tried first; slash dates prefer the US
// MM/DD reading when both components fit a month, falling back to DD/MM
// when only the second does. Unparseable input comes back with Parsed
// false and the raw text intact.
func ParseFlexibleDate(value string) FlexibleDate {
	raw := value
	v := strings.TrimSpace(value)
	out := FlexibleDate{Raw: raw}
	if v == "" {
		return out
	}

	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			out.Time = t.UTC()
			out.Parsed = true
			return out
		}
	}

	if m := slashDatePattern.FindStringSubmatch(v); m != nil {
		return parseTwoPartDate(raw, m[1], m[2], m[3])
	}
	if m := dotDatePattern.FindStringSubmatch(v); m != nil {
		// Dotted dates are European: day first.
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if validYMD(month, day) {
			year, _ := strconv.Atoi(m[3])
			out.Time = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			out.Parsed = true
		}
		return out
	}

	if m := weekOfPattern.FindStringSubmatch(v); m != nil {
		inner := ParseFlexibleDate(m[1])
		inner.Raw = raw
		return inner
	}
	if m := rangePattern2.FindStringSubmatch(v); m != nil {
		// A range resolves to its start date.
		inner := ParseFlexibleDate(m[1] + ", " + m[2])
		inner.Raw = raw
		return inner
	}

	for _, layout := range monthNameLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			out.Time = t.UTC()
			out.Parsed = true
			return out
		}
	}

	return out
}

// parseTwoPartDate resolves a/b/year. US order wins whenever the first
// component can be a month; when both can, the result is flagged
// ambiguous rather than silently trusted.
func parseTwoPartDate(raw, a, b, y string) FlexibleDate {
	out := FlexibleDate{Raw: raw}
	first, _ := strconv.Atoi(a)
	second, _ := strconv.Atoi(b)
	year, _ := strconv.Atoi(y)

	switch {
	case validYMD(first, second):
		out.Time = time.Date(year, time.Month(first), second, 0, 0, 0, 0, time.UTC)
		out.Parsed = true
		out.Ambiguous = validYMD(second, first)
	case validYMD(second, first):
		out.Time = time.Date(year, time.Month(second), first, 0, 0, 0, 0, time.UTC)
		out.Parsed = true
	}
	return out
}

func validYMD(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}
