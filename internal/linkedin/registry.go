package linkedin

import "fmt"

// WriteMode controls how a destination table receives a new batch.
type WriteMode int

const (
	// Append adds the batch below existing rows.
	Append WriteMode = iota
	// Replace drops existing rows first; used for snapshot-style tables
	// where only the latest breakdown is meaningful.
	Replace
)

func (m WriteMode) String() string {
	if m == Replace {
		return "replace"
	}
	return "append"
}

// Destination describes where and how one report type lands.
type Destination struct {
	Table string
	Mode  WriteMode
	// DelimiterHint forces tokenization when LinkedIn ships a type with
	// a fixed delimiter regardless of content shape (campaign exports
	// are tab-separated even with a .csv extension).
	DelimiterHint rune
	// DateColumns are normalized to ISO during enrichment.
	DateColumns []string
	// LocateHeader scans for the real header row instead of trusting
	// row zero. HeaderKeywords overrides the default keyword list for
	// exports whose columns don't look like organic content.
	LocateHeader   bool
	HeaderKeywords []string
}

var destinations = map[ReportType]Destination{
	TypeCampaignPerformance: {
		Table:         "campaign_performance",
		DelimiterHint: '\t',
		DateColumns:   []string{"Start Date", "End Date"},
		LocateHeader:  true,
		HeaderKeywords: []string{
			"campaign name", "start date", "end date", "impressions",
			"clicks", "ctr", "spent", "conversions",
		},
	},
	TypeContentAnalytics: {
		Table:        "content_analytics",
		DateColumns:  []string{"Created date", "Date"},
		LocateHeader: true,
	},
	TypeCompetitorAnalytics: {Table: "competitor_analytics"},

	TypeVisitorMetrics:     {Table: "visitor_metrics", DateColumns: []string{"Date"}},
	TypeVisitorCompanySize: {Table: "visitor_company_size"},
	TypeVisitorIndustry:    {Table: "visitor_industry"},
	TypeVisitorSeniority:   {Table: "visitor_seniority"},
	TypeVisitorFunction:    {Table: "visitor_function"},
	TypeVisitorLocation:    {Table: "visitor_location"},

	TypeFollowerMetrics: {Table: "follower_metrics", DateColumns: []string{"Date"}},

	// Follower breakdowns are point-in-time snapshots of the current
	// audience, so each run replaces the previous one.
	TypeFollowerCompanySize: {Table: "follower_company_size", Mode: Replace},
	TypeFollowerIndustry:    {Table: "follower_industry", Mode: Replace},
	TypeFollowerSeniority:   {Table: "follower_seniority", Mode: Replace},
	TypeFollowerFunction:    {Table: "follower_function", Mode: Replace},
	TypeFollowerLocation:    {Table: "follower_location", Mode: Replace},
}

// DestinationFor returns the storage destination for a classified file.
func DestinationFor(t ReportType) (Destination, error) {
	d, ok := destinations[t]
	if !ok {
		return Destination{}, fmt.Errorf("no destination registered for report type %q", t)
	}
	return d, nil
}

// Demographics sections route by their segment label. The registry is
// deliberately closed: a label LinkedIn adds in a future export version
// must surface as an error, not vanish into a catch-all table.
var sectionDestinations = map[string]Destination{
	"Job Title Segment": {Table: "demographics_job_title", Mode: Replace},
	"Company Segment":   {Table: "demographics_company", Mode: Replace},
	"Location Segment":  {Table: "demographics_location", Mode: Replace},
	"Industry Segment":  {Table: "demographics_industry", Mode: Replace},
	"Seniority Segment": {Table: "demographics_seniority", Mode: Replace},
	"Company Size Segment": {
		Table: "demographics_company_size",
		Mode:  Replace,
	},
	"Function Segment": {Table: "demographics_function", Mode: Replace},
}

// SectionDestination routes one demographics section by label.
func SectionDestination(label string) (Destination, error) {
	d, ok := sectionDestinations[label]
	if !ok {
		return Destination{}, fmt.Errorf("unrecognized demographics section %q", label)
	}
	return d, nil
}
