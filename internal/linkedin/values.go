package linkedin

import (
	"regexp"
	"strings"
)

// Company-size buckets and other range-shaped strings that a naive
// formatter would happily coerce into dates ("2-10" reads as Feb 10).
var (
	rangePattern      = regexp.MustCompile(`^\d+-\d+$`)
	plusPattern       = regexp.MustCompile(`^\d+\+$`)
	kPlusPattern      = regexp.MustCompile(`(?i)^\d+k\+$`)
	soloEmployeeValue = "1"
)

// Proper date shapes as they appear in export cells.
var cellDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),                                    // 2024-12-25
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`),                  // 2024-12-25 14:30:00
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),                                    // 12/25/2024
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),                                // 1/5/2024
	regexp.MustCompile(`^[A-Za-z]{3,9} \d{1,2}, \d{4}$`),                         // July 15, 2025
	regexp.MustCompile(`(?i)^Week of [A-Za-z]{3,9} \d{1,2}, \d{4}$`),             // Week of Jul 15, 2025
	regexp.MustCompile(`(?i)^[A-Za-z]{3,9} \d{1,2} - [A-Za-z]{3,9} \d{1,2}, \d{4}$`), // Jul 15 - Jul 21, 2025
}

// CellClass carries the three independent structural predicates the
// storage layer consults before coercing a value. They are not mutually
// exclusive states; the classifier never parses semantically.
type CellClass struct {
	CompanySizeRange bool
	RangeNotDate     bool
	Date             bool
}

// ClassifyCell evaluates the trimmed value against all three predicates.
func ClassifyCell(value string) CellClass {
	return CellClass{
		CompanySizeRange: LooksLikeCompanySize(value),
		RangeNotDate:     LooksLikeRangeNotDate(value),
		Date:             LooksLikeDate(value),
	}
}

// LooksLikeCompanySize reports whether the value is a company-size bucket:
// "2-10", "10001+", "10k+", or the literal "1" (single-employee bucket).
func LooksLikeCompanySize(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return rangePattern.MatchString(v) || plusPattern.MatchString(v) ||
		kPlusPattern.MatchString(v) || v == soloEmployeeValue
}

// LooksLikeRangeNotDate reports whether the value is range-shaped text
// that must not be interpreted as a date by a downstream formatter.
func LooksLikeRangeNotDate(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return rangePattern.MatchString(v) || plusPattern.MatchString(v) ||
		kPlusPattern.MatchString(v)
}

// LooksLikeDate reports whether the value matches one of the proper date
// shapes found in these exports.
func LooksLikeDate(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	for _, p := range cellDatePatterns {
		if p.MatchString(v) {
			return true
		}
	}
	return false
}

