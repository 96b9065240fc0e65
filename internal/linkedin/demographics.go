package linkedin

import (
	"strings"

	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

// Section boundary markers: a line carrying both is a section header.
const (
	sectionMarker     = "Segment"
	impressionsMarker = "Impressions"
)

// CanonicalJobTitleSegment is the single label all "Job Title(s)" header
// variants collapse to; the export is inconsistent about pluralization.
const CanonicalJobTitleSegment = "Job Title Segment"

// placeholderValues are the zero-padding cells some exports fill rows
// with; a row whose every non-segment value is one of these is dropped.
var placeholderValues = map[string]bool{
	"": true, "0": true, "0%": true, "0.000%": true,
}

// ParseDemographicsSections splits a bundled demographics export into its
// independently-headered sections. The file has no explicit delimiter
// between sections beyond the repeating header signature, so this runs a
// two-state scan: seeking a section header, then collecting its data rows.
// Rows whose cell count disagrees with the section header are repaired via
// RealignColumns; rows that stay broken are skipped, never fatal.
func ParseDemographicsSections(content string) []Section {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var sections []Section
	var current *Section

	flush := func() {
		if current != nil && len(current.Records) > 0 {
			sections = append(sections, *current)
		}
		current = nil
	}

	for i, line := range lines {
		line = strings.TrimRight(line, "\r")

		if strings.Contains(line, sectionMarker) && strings.Contains(line, impressionsMarker) {
			flush()

			headers := SplitCSVLine(line)
			sectionType := headers[0]
			if strings.Contains(strings.ToLower(sectionType), "job title") {
				sectionType = CanonicalJobTitleSegment
			}

			current = &Section{
				Type:      sectionType,
				Headers:   headers,
				StartLine: i,
			}
			continue
		}

		if current == nil || len(line) == 0 {
			continue
		}
		// Report-title lines and blank-first-cell artifacts are not data.
		if strings.Contains(line, "Report") || strings.HasPrefix(line, ",") {
			continue
		}

		values := SplitCSVLine(line)
		if len(values) != len(current.Headers) {
			fixed := RealignColumns(values, len(current.Headers))
			if len(fixed) != len(current.Headers) {
				logger.Warn("skipping unfixable row",
					"section", current.Type, "line", i+1,
					"expected", len(current.Headers), "got", len(values))
				continue
			}
			values = fixed
		}

		if values[0] == "" {
			continue
		}

		rec := make(map[string]string, len(current.Headers))
		meaningful := false
		for j, header := range current.Headers {
			val := ""
			if j < len(values) {
				val = values[j]
			}
			rec[header] = val
			if j > 0 && !placeholderValues[strings.TrimSpace(val)] {
				meaningful = true
			}
		}
		if meaningful {
			current.Records = append(current.Records, rec)
		}
	}

	flush()
	return sections
}

// SplitCSVLine splits a single comma-delimited line, honoring quoted
// fields and doubled-quote escapes. Unlike the bulk tokenizer it works
// line-by-line so each section is parsed independently.
func SplitCSVLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ',':
			if inQuotes {
				current.WriteByte(c)
			} else {
				values = append(values, strings.TrimSpace(current.String()))
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	values = append(values, strings.TrimSpace(current.String()))

	for i, v := range values {
		if len(v) > 1 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
			values[i] = v[1 : len(v)-1]
		}
	}
	return values
}

// RealignColumns repairs a row whose cell count disagrees with its
// section header, which happens when a segment name contains an unescaped
// comma ("Retail, Wholesale"). Everything before the first purely numeric
// cell (thousands separators stripped) is merged back into the segment
// column; short rows are padded with trailing empties. Rows that stay too
// long are returned unchanged for the caller to skip.
func RealignColumns(values []string, expected int) []string {
	if len(values) == expected {
		return values
	}

	if len(values) > expected {
		firstNumeric := -1
		for i := 1; i < len(values); i++ {
			if isNumericCell(values[i]) {
				firstNumeric = i
				break
			}
		}
		if firstNumeric > 1 {
			merged := strings.Join(values[:firstNumeric], ", ")
			fixed := append([]string{merged}, values[firstNumeric:]...)
			if len(fixed) == expected {
				return fixed
			}
		}
		return values
	}

	padded := make([]string, expected)
	copy(padded, values)
	return padded
}

// isNumericCell reports whether a cell is purely numeric after stripping
// thousands-separator commas (percentages and currency are not numeric
// here; they never start a metrics block in these exports).
func isNumericCell(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
