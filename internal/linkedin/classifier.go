package linkedin

import "regexp"

// filePattern pairs a report category with its filename recognition regex.
// The slice is ordered: more specific patterns come before the general ones
// they overlap with, and the first match wins.
type filePattern struct {
	reportType ReportType
	re         *regexp.Regexp
}

var filePatterns = []filePattern{
	// Campaign files (LinkedIn Ads)
	{TypeCampaignPerformance, regexp.MustCompile(`(?i)campaign.*performance|ads.*performance|sponsored.*content`)},
	{TypeDemographicsReport, regexp.MustCompile(`(?i)demographics.*report|audience.*demographics|campaign.*demographics`)},

	// Organic content files
	{TypeContentAnalytics, regexp.MustCompile(`(?i)content.*analytics|post.*performance|organic.*content`)},

	// Visitor analytics files
	{TypeVisitorMetrics, regexp.MustCompile(`(?i)visitor.*metrics|page.*views|visitor.*overview`)},
	{TypeVisitorCompanySize, regexp.MustCompile(`(?i)company.*size.*table|visitors.*company.*size`)},
	{TypeVisitorIndustry, regexp.MustCompile(`(?i)industry.*table|visitors.*industry`)},
	{TypeVisitorSeniority, regexp.MustCompile(`(?i)seniority.*table|visitors.*seniority`)},
	{TypeVisitorFunction, regexp.MustCompile(`(?i)job.*function.*table|visitors.*function`)},
	{TypeVisitorLocation, regexp.MustCompile(`(?i)location.*table|visitors.*location`)},

	// Follower files. The "follower" stem also covers plural "followers"
	// exports, which drifted in and out of LinkedIn's naming over time.
	{TypeFollowerMetrics, regexp.MustCompile(`(?i)follower.*metrics|new.*followers|follower.*new.*followers`)},
	{TypeFollowerCompanySize, regexp.MustCompile(`(?i)follower.*company.*size|followers.*company.*size`)},
	{TypeFollowerIndustry, regexp.MustCompile(`(?i)follower.*industry|followers.*industry`)},
	{TypeFollowerSeniority, regexp.MustCompile(`(?i)follower.*seniority|followers.*seniority`)},
	{TypeFollowerFunction, regexp.MustCompile(`(?i)follower.*function|followers.*function|follower.*job.*function`)},
	{TypeFollowerLocation, regexp.MustCompile(`(?i)follower.*location|followers.*location`)},

	// Competitor files
	{TypeCompetitorAnalytics, regexp.MustCompile(`(?i)competitor.*analytics|competitive.*analysis`)},
}

// exportKeywords is the looser "is this a LinkedIn export at all" check.
var exportKeywords = regexp.MustCompile(
	`(?i)linkedin|campaign|content|visitor|follower|competitor|demographics|sponsored|organic`)

// squashSeparators removes spaces, underscores, and hyphens so that names
// like "follower company-size" still hit the category regexes on retry.
var squashSeparators = regexp.MustCompile(`[ _\-]+`)

// Classifier assigns a report category to a filename.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify tests the filename against the ordered category patterns and
// returns the first match. A filename that looks like a LinkedIn export but
// matches no category is retried with separator characters squashed out;
// if that also fails, TypeUnknown is returned. Never errors.
func (c *Classifier) Classify(fileName string) ReportType {
	if fileName == "" {
		return TypeUnknown
	}

	for _, p := range filePatterns {
		if p.re.MatchString(fileName) {
			return p.reportType
		}
	}

	if c.IsExport(fileName) {
		squashed := squashSeparators.ReplaceAllString(fileName, "")
		for _, p := range filePatterns {
			if p.re.MatchString(squashed) {
				return p.reportType
			}
		}
	}

	return TypeUnknown
}

// IsExport reports whether the filename plausibly belongs to the platform
// at all, using the looser keyword set.
func (c *Classifier) IsExport(fileName string) bool {
	if fileName == "" {
		return false
	}
	if exportKeywords.MatchString(fileName) {
		return true
	}
	for _, p := range filePatterns {
		if p.re.MatchString(fileName) {
			return true
		}
	}
	return false
}
