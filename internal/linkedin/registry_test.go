package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationForEveryReportType(t *testing.T) {
	types := []ReportType{
		TypeCampaignPerformance, TypeContentAnalytics, TypeCompetitorAnalytics,
		TypeVisitorMetrics, TypeVisitorCompanySize, TypeVisitorIndustry,
		TypeVisitorSeniority, TypeVisitorFunction, TypeVisitorLocation,
		TypeFollowerMetrics, TypeFollowerCompanySize, TypeFollowerIndustry,
		TypeFollowerSeniority, TypeFollowerFunction, TypeFollowerLocation,
	}

	for _, rt := range types {
		d, err := DestinationFor(rt)
		require.NoError(t, err, rt)
		assert.NotEmpty(t, d.Table, rt)
	}
}

func TestDestinationForUnknown(t *testing.T) {
	_, err := DestinationFor(TypeUnknown)
	assert.Error(t, err)
}

func TestFollowerBreakdownsReplace(t *testing.T) {
	for _, rt := range []ReportType{
		TypeFollowerCompanySize, TypeFollowerIndustry, TypeFollowerSeniority,
		TypeFollowerFunction, TypeFollowerLocation,
	} {
		d, err := DestinationFor(rt)
		require.NoError(t, err)
		assert.Equal(t, Replace, d.Mode, rt)
	}

	// Time-series tables append.
	d, err := DestinationFor(TypeFollowerMetrics)
	require.NoError(t, err)
	assert.Equal(t, Append, d.Mode)
}

func TestCampaignDestinationHints(t *testing.T) {
	d, err := DestinationFor(TypeCampaignPerformance)
	require.NoError(t, err)
	assert.Equal(t, '\t', d.DelimiterHint)
	assert.True(t, d.LocateHeader)
	assert.Contains(t, d.DateColumns, "Start Date")
}

func TestSectionDestinationKnownLabels(t *testing.T) {
	d, err := SectionDestination(CanonicalJobTitleSegment)
	require.NoError(t, err)
	assert.Equal(t, "demographics_job_title", d.Table)

	d, err = SectionDestination("Industry Segment")
	require.NoError(t, err)
	assert.Equal(t, "demographics_industry", d.Table)
}

func TestSectionDestinationUnknownLabelFailsLoudly(t *testing.T) {
	_, err := SectionDestination("Astrological Sign Segment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Astrological Sign Segment")
}

func TestWriteModeString(t *testing.T) {
	assert.Equal(t, "append", Append.String())
	assert.Equal(t, "replace", Replace.String())
}
