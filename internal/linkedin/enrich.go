package linkedin

import (
	"fmt"
	"time"
)

// Temporal columns appended to every objectified table before storage.
const (
	ColPeriodStart    = "Period Start Date"
	ColPeriodEnd      = "Period End Date"
	ColMonth          = "Month"
	ColYear           = "Year"
	ColYearMonth      = "Year_Month"
	ColQuarter        = "Quarter"
	ColDaysInPeriod   = "Days in Period"
	ColReportDate     = "Report Date"
	ColProcessingDate = "Processing Date"
	ColDateSource     = "Date Source"
	ColWeek           = "Week"

	ColDateParseStatus = "Date Parse Status"
)

// Date parse statuses recorded in the side channel.
const (
	DateStatusOK        = "ok"
	DateStatusAmbiguous = "ambiguous"
	DateStatusUnparsed  = "unparsed"
	DateStatusSkipped   = "skipped"
)

// EnrichOptions configures table enrichment for one export file.
type EnrichOptions struct {
	Period      PeriodInfo
	ProcessedAt time.Time
	// DateColumns names the columns whose cells get normalized to ISO.
	// Originals are preserved under "Original <column>".
	DateColumns []string
}

// EnrichTable appends the temporal context columns to every record and
// normalizes the designated date columns in place. Range-shaped values
// ("2-10", "501+") are left untouched so they never get mangled into
// dates downstream.
func EnrichTable(t *Table, opts EnrichOptions) {
	if t == nil || len(t.Headers) == 0 {
		return
	}
	normalizeDateColumns(t, opts.DateColumns)
	appendPeriodColumns(t, opts)
}

func normalizeDateColumns(t *Table, columns []string) {
	present := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		present[h] = true
	}

	touched := false
	for _, col := range columns {
		if !present[col] {
			continue
		}
		originalCol := "Original " + col
		t.Headers = append(t.Headers, originalCol)
		touched = true

		for _, rec := range t.Records {
			raw := rec[col]
			rec[originalCol] = raw
			status, iso := normalizeDateCell(raw)
			if iso != "" {
				rec[col] = iso
			}
			// One status column per record; the worst status wins.
			if worseDateStatus(status, rec[ColDateParseStatus]) {
				rec[ColDateParseStatus] = status
			}
		}
	}

	if touched {
		t.Headers = append(t.Headers, ColDateParseStatus)
		for _, rec := range t.Records {
			if rec[ColDateParseStatus] == "" {
				rec[ColDateParseStatus] = DateStatusOK
			}
		}
	}
}

// normalizeDateCell returns the parse status and, when parsing
// succeeded, the ISO form to write back.
func normalizeDateCell(raw string) (status, iso string) {
	if raw == "" {
		return DateStatusSkipped, ""
	}
	if LooksLikeRangeNotDate(raw) || LooksLikeCompanySize(raw) {
		return DateStatusSkipped, ""
	}
	fd := ParseFlexibleDate(raw)
	if !fd.Parsed {
		return DateStatusUnparsed, ""
	}
	if fd.Ambiguous {
		return DateStatusAmbiguous, fd.ISO()
	}
	return DateStatusOK, fd.ISO()
}

var dateStatusRank = map[string]int{
	DateStatusOK:        0,
	DateStatusSkipped:   1,
	DateStatusAmbiguous: 2,
	DateStatusUnparsed:  3,
}

func worseDateStatus(candidate, current string) bool {
	if current == "" {
		return true
	}
	return dateStatusRank[candidate] > dateStatusRank[current]
}

func appendPeriodColumns(t *Table, opts EnrichOptions) {
	p := opts.Period
	cols := []string{
		ColPeriodStart, ColPeriodEnd, ColMonth, ColYear, ColYearMonth,
		ColQuarter, ColDaysInPeriod, ColReportDate, ColProcessingDate,
		ColDateSource,
	}
	if p.Week > 0 {
		cols = append(cols, ColWeek)
	}
	t.Headers = append(t.Headers, cols...)

	processed := opts.ProcessedAt.UTC().Format("2006-01-02")
	for _, rec := range t.Records {
		rec[ColPeriodStart] = p.PeriodStart.Format("2006-01-02")
		rec[ColPeriodEnd] = p.PeriodEnd.Format("2006-01-02")
		rec[ColMonth] = p.MonthName()
		rec[ColYear] = fmt.Sprintf("%d", p.Year)
		rec[ColYearMonth] = p.YearMonth()
		rec[ColQuarter] = fmt.Sprintf("Q%d", p.Quarter())
		rec[ColDaysInPeriod] = fmt.Sprintf("%d", p.DaysInPeriod())
		rec[ColReportDate] = p.MatchedText
		rec[ColProcessingDate] = processed
		rec[ColDateSource] = p.Source
		if p.Week > 0 {
			rec[ColWeek] = fmt.Sprintf("%d", p.Week)
		}
	}
}
