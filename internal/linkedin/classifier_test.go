package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKnownReportTypes(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name     string
		fileName string
		want     ReportType
	}{
		{"campaign performance", "linkedin_campaign_performance_aug2025.csv", TypeCampaignPerformance},
		{"ads performance alias", "Ads Performance Report 2025_08.csv", TypeCampaignPerformance},
		{"sponsored content", "sponsored_content_export.csv", TypeCampaignPerformance},
		{"demographics report", "campaign_demographics_report_jul2025.csv", TypeDemographicsReport},
		{"audience demographics", "audience_demographics_q3.csv", TypeDemographicsReport},
		{"content analytics", "content_analytics_2025_08_01.csv", TypeContentAnalytics},
		{"post performance alias", "post_performance_summary.csv", TypeContentAnalytics},
		{"visitor metrics", "visitor_metrics_week34_2025.csv", TypeVisitorMetrics},
		{"visitor company size", "visitors_company_size_table.csv", TypeVisitorCompanySize},
		{"visitor industry", "visitors_industry_aug2025.csv", TypeVisitorIndustry},
		{"visitor seniority", "visitors_seniority_2025_08.csv", TypeVisitorSeniority},
		{"visitor function", "visitors_function_2025_08.csv", TypeVisitorFunction},
		{"visitor location", "visitors_location_2025_08.csv", TypeVisitorLocation},
		{"follower metrics", "follower_metrics_26aug2025.csv", TypeFollowerMetrics},
		{"new followers alias", "new_followers_aug2025.csv", TypeFollowerMetrics},
		{"follower company size", "follower_company_size.csv", TypeFollowerCompanySize},
		{"follower industry", "followers_industry.csv", TypeFollowerIndustry},
		{"follower seniority", "follower_seniority_snapshot.csv", TypeFollowerSeniority},
		{"follower function", "follower_job_function.csv", TypeFollowerFunction},
		{"follower location", "followers_location.csv", TypeFollowerLocation},
		{"competitor analytics", "competitor_analytics_aug2025.csv", TypeCompetitorAnalytics},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.fileName))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := NewClassifier()

	// "campaign" and "demographics" both appear; campaign patterns are
	// tried first for names that hit both.
	got := c.Classify("campaign_performance_demographics_report.csv")
	assert.Equal(t, TypeCampaignPerformance, got)
}

func TestClassifyUnknown(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, TypeUnknown, c.Classify(""))
	assert.Equal(t, TypeUnknown, c.Classify("quarterly_budget.xlsx"))
	assert.Equal(t, TypeUnknown, c.Classify("randomfile.csv"))
}

func TestIsExport(t *testing.T) {
	c := NewClassifier()

	assert.True(t, c.IsExport("linkedin_stats_aug2025.csv"))
	assert.True(t, c.IsExport("organic_reach.csv"))
	assert.False(t, c.IsExport("invoice_2025.pdf"))
}

func TestReportTypeGrouping(t *testing.T) {
	assert.True(t, TypeVisitorIndustry.IsVisitor())
	assert.False(t, TypeVisitorIndustry.IsFollower())
	assert.True(t, TypeFollowerLocation.IsFollower())
	assert.False(t, TypeCampaignPerformance.IsVisitor())
}
