package linkedin

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// Tokenizer failure modes. Anything else coming out of Tokenize wraps one
// of these.
var (
	ErrContentTooShort  = errors.New("content too short to be real data")
	ErrNoParseableRows  = errors.New("no rows parsed from content")
	ErrInsufficientRows = errors.New("insufficient data rows")
)

// minContentLength mirrors the export validator: anything shorter is noise.
const minContentLength = 10

// minTokenizedRows is a header plus at least one data row.
const minTokenizedRows = 2

// DetectDelimiter picks tab or comma, whichever occurs more often in the
// raw content.
func DetectDelimiter(content string) rune {
	if strings.Count(content, "\t") > strings.Count(content, ",") {
		return '\t'
	}
	return ','
}

// Tokenize turns raw export text into rows of trimmed cells. delimiter 0
// means auto-detect. Quoted fields (embedded delimiters, doubled quotes)
// are handled; rows that are entirely blank after trimming are dropped.
// If the chosen delimiter yields nothing, the other one is tried once
// before giving up. Malformed individual rows never abort the file.
func Tokenize(content string, delimiter rune) ([][]string, error) {
	content = strings.TrimSpace(content)
	if len(content) < minContentLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooShort, len(content))
	}

	if delimiter == 0 {
		delimiter = DetectDelimiter(content)
	}

	rows := parseAll(content, delimiter)
	if len(rows) == 0 {
		alt := otherDelimiter(delimiter)
		rows = parseAll(content, alt)
		if len(rows) == 0 {
			return nil, ErrNoParseableRows
		}
	}

	filtered := make([][]string, 0, len(rows))
	for _, row := range rows {
		blank := true
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				blank = false
			}
		}
		if !blank {
			filtered = append(filtered, row)
		}
	}

	if len(filtered) < minTokenizedRows {
		return nil, fmt.Errorf("%w: %d", ErrInsufficientRows, len(filtered))
	}
	return filtered, nil
}

// parseAll reads every well-formed record, skipping lines the CSV reader
// rejects rather than failing the whole file.
func parseAll(content string, delimiter rune) [][]string {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if record != nil {
			rows = append(rows, record)
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				continue
			}
			break
		}
	}
	return rows
}

func otherDelimiter(d rune) rune {
	if d == '\t' {
		return ','
	}
	return '\t'
}
