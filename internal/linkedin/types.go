// Package linkedin recovers tabular structure from LinkedIn analytics
// export files: report-type detection from filenames, reporting-period
// inference, delimiter-tolerant CSV tokenization, header discovery, and
// multi-section demographics parsing.
package linkedin

import "time"

// ReportType is the report category enum assigned to an export file.
type ReportType string

const (
	TypeCampaignPerformance ReportType = "campaign_performance"
	TypeDemographicsReport  ReportType = "demographics_report"
	TypeContentAnalytics    ReportType = "content_analytics"

	TypeVisitorMetrics     ReportType = "visitor_metrics"
	TypeVisitorCompanySize ReportType = "visitor_company_size"
	TypeVisitorIndustry    ReportType = "visitor_industry"
	TypeVisitorSeniority   ReportType = "visitor_seniority"
	TypeVisitorFunction    ReportType = "visitor_function"
	TypeVisitorLocation    ReportType = "visitor_location"

	TypeFollowerMetrics     ReportType = "follower_metrics"
	TypeFollowerCompanySize ReportType = "follower_company_size"
	TypeFollowerIndustry    ReportType = "follower_industry"
	TypeFollowerSeniority   ReportType = "follower_seniority"
	TypeFollowerFunction    ReportType = "follower_function"
	TypeFollowerLocation    ReportType = "follower_location"

	TypeCompetitorAnalytics ReportType = "competitor_analytics"
	TypeUnknown             ReportType = "unknown"
)

// IsVisitor reports whether the type is one of the visitor categories.
func (t ReportType) IsVisitor() bool {
	switch t {
	case TypeVisitorMetrics, TypeVisitorCompanySize, TypeVisitorIndustry,
		TypeVisitorSeniority, TypeVisitorFunction, TypeVisitorLocation:
		return true
	}
	return false
}

// IsFollower reports whether the type is one of the follower categories.
func (t ReportType) IsFollower() bool {
	switch t {
	case TypeFollowerMetrics, TypeFollowerCompanySize, TypeFollowerIndustry,
		TypeFollowerSeniority, TypeFollowerFunction, TypeFollowerLocation:
		return true
	}
	return false
}

// Group collapses the type to its tally bucket: campaign, demographics,
// content, visitor, follower, competitor, or unknown.
func (t ReportType) Group() string {
	switch {
	case t == TypeCampaignPerformance:
		return "campaign"
	case t == TypeDemographicsReport:
		return "demographics"
	case t == TypeContentAnalytics:
		return "content"
	case t.IsVisitor():
		return "visitor"
	case t.IsFollower():
		return "follower"
	case t == TypeCompetitorAnalytics:
		return "competitor"
	default:
		return "unknown"
	}
}

// PeriodInfo is the reporting period inferred from a filename. It is
// computed once per file and attached to every record derived from it.
type PeriodInfo struct {
	Year  int
	Month int // 1-12
	Day   int // defaults to 1 when absent from the filename
	Week  int // ISO week number

	// Detected is false when no filename pattern matched and the current
	// date was substituted. Source is "filename" or "fallback".
	Detected    bool
	Source      string
	MatchedText string

	PeriodStart time.Time // first day of the month, UTC
	PeriodEnd   time.Time // last day of the month, UTC
}

// MonthName returns the short month name ("Aug").
func (p PeriodInfo) MonthName() string {
	return time.Month(p.Month).String()[:3]
}

// Quarter returns the calendar quarter (1-4).
func (p PeriodInfo) Quarter() int {
	return (p.Month-1)/3 + 1
}

// YearMonth returns the sortable "2025-08" key.
func (p PeriodInfo) YearMonth() string {
	return p.PeriodStart.Format("2006-01")
}

// DaysInPeriod returns the number of calendar days in the month.
func (p PeriodInfo) DaysInPeriod() int {
	return p.PeriodEnd.Day()
}

// Table is an ordered sequence of keyed rows sharing one header list.
// Records hold only keys present in Headers.
type Table struct {
	Headers []string
	Records []map[string]string
}

// Empty reports whether the table has no usable data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Records) == 0
}

// Section is an independently-headered sub-table recovered from a bundled
// demographics export. Type is the canonicalized first header cell.
type Section struct {
	Type      string
	Headers   []string
	Records   []map[string]string
	StartLine int
}
