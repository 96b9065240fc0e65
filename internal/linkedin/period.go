package linkedin

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNumbers resolves both abbreviated and full month names, lowercase.
var monthNumbers = map[string]int{
	"jan": 1, "january": 1, "feb": 2, "february": 2, "mar": 3, "march": 3,
	"apr": 4, "april": 4, "may": 5, "jun": 6, "june": 6,
	"jul": 7, "july": 7, "aug": 8, "august": 8, "sep": 9, "september": 9,
	"oct": 10, "october": 10, "nov": 11, "november": 11, "dec": 12, "december": 12,
}

const (
	fullMonthAlt  = `january|february|march|april|may|june|july|august|september|october|november|december`
	shortMonthAlt = `jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`
)

type datePatternKind int

const (
	kindMonthYear datePatternKind = iota // "august2025", "aug2025"
	kindDayMonth                         // "26august2025", "26aug2025", year optional
	kindISODate                          // "2025-08-26", "2025_08_26"
	kindYearMonth                        // "2025_08"
	kindYearWeek                         // "2025_week_34"
	kindWeekYear                         // "week_34_2025", "week34_2025"
)

type datePattern struct {
	kind datePatternKind
	re   *regexp.Regexp
}

// datePatterns is tried in order; the first pattern yielding a valid month
// wins. Month-name patterns carry a leading non-digit guard so that
// "26aug2025" falls through to the day-aware pattern instead of matching as
// a bare "aug2025".
var datePatterns = []datePattern{
	{kindMonthYear, regexp.MustCompile(`(?i)(?:^|[^0-9])(` + fullMonthAlt + `)(\d{4})`)},
	{kindMonthYear, regexp.MustCompile(`(?i)(?:^|[^0-9])(` + shortMonthAlt + `)(\d{4})`)},
	{kindDayMonth, regexp.MustCompile(`(?i)(\d{1,2})(` + fullMonthAlt + `)(\d{4})?`)},
	{kindDayMonth, regexp.MustCompile(`(?i)(\d{1,2})(` + shortMonthAlt + `)(\d{4})?`)},
	{kindISODate, regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)},
	{kindISODate, regexp.MustCompile(`(\d{4})_(\d{1,2})_(\d{1,2})`)},
	{kindYearMonth, regexp.MustCompile(`(\d{4})_(\d{1,2})`)},
	{kindYearWeek, regexp.MustCompile(`(?i)(\d{4})_week_?(\d{1,2})`)},
	{kindWeekYear, regexp.MustCompile(`(?i)week_?(\d{1,2})_?(\d{4})`)},
}

// weeksPerMonth approximates a month from a week-of-year number.
const weeksPerMonth = 4.33

// extractedDate is the raw result of filename date inference.
type extractedDate struct {
	Year, Month, Day int
	Week             int
	MatchedText      string
	Detected         bool
}

// extractDate tries the ordered filename patterns, falling back to now
// (with Detected=false) when nothing matches. A match whose month falls
// outside 1-12 is rejected and the next pattern is tried.
func extractDate(fileName string, now time.Time) extractedDate {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(fileName)
		if m == nil {
			continue
		}

		var year, month, day, weekNum int
		switch p.kind {
		case kindMonthYear:
			month = monthNumbers[strings.ToLower(m[1])]
			year = atoiOr(m[2], now.Year())
			day = 1
		case kindDayMonth:
			day = atoiOr(m[1], 1)
			month = monthNumbers[strings.ToLower(m[2])]
			year = atoiOr(m[3], now.Year())
		case kindISODate:
			year = atoiOr(m[1], 0)
			month = atoiOr(m[2], 0)
			day = atoiOr(m[3], 1)
		case kindYearMonth:
			year = atoiOr(m[1], 0)
			month = atoiOr(m[2], 0)
			day = 1
		case kindYearWeek, kindWeekYear:
			if p.kind == kindYearWeek {
				year = atoiOr(m[1], 0)
				weekNum = atoiOr(m[2], 0)
			} else {
				weekNum = atoiOr(m[1], 0)
				year = atoiOr(m[2], 0)
			}
			month = int(math.Ceil(float64(weekNum) / weeksPerMonth))
			day = 1
		}

		// Weeks 52-53 approximate to month 13 and are rejected here, so a
		// late-December week filename degrades to the fallback below.
		if year == 0 || month < 1 || month > 12 {
			continue
		}
		if day < 1 {
			day = 1
		}

		extracted := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		_, week := extracted.ISOWeek()

		return extractedDate{
			Year:        year,
			Month:       month,
			Day:         day,
			Week:        week,
			MatchedText: matchedText(m, p.kind),
			Detected:    true,
		}
	}

	_, week := now.ISOWeek()
	return extractedDate{
		Year:        now.Year(),
		Month:       int(now.Month()),
		Day:         now.Day(),
		Week:        week,
		MatchedText: now.Format("2006-01-02"),
		Detected:    false,
	}
}

// matchedText reassembles the matched filename fragment from the capture
// groups, dropping the non-digit guard character month-name patterns consume.
func matchedText(m []string, kind datePatternKind) string {
	switch kind {
	case kindMonthYear, kindDayMonth:
		var b strings.Builder
		for _, g := range m[1:] {
			b.WriteString(g)
		}
		return b.String()
	default:
		return m[0]
	}
}

// ExtractPeriod infers the reporting period from a filename, anchored to
// the current date for fallback and year defaulting.
func ExtractPeriod(fileName string) PeriodInfo {
	return ExtractPeriodAt(fileName, time.Now().UTC())
}

// ExtractPeriodAt is ExtractPeriod with an explicit clock.
func ExtractPeriodAt(fileName string, now time.Time) PeriodInfo {
	d := extractDate(fileName, now)

	source := "filename"
	if !d.Detected {
		source = "fallback"
	}

	// Period bounds are UTC-anchored: day 0 of the following month is the
	// last day of this one.
	start := time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(d.Year, time.Month(d.Month)+1, 0, 0, 0, 0, 0, time.UTC)

	return PeriodInfo{
		Year:        d.Year,
		Month:       d.Month,
		Day:         d.Day,
		Week:        d.Week,
		Detected:    d.Detected,
		Source:      source,
		MatchedText: d.MatchedText,
		PeriodStart: start,
		PeriodEnd:   end,
	}
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
