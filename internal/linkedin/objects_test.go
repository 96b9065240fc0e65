package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectifyBasic(t *testing.T) {
	rows := [][]string{
		{"Date", "Impressions", "Clicks"},
		{"2025-08-01", "100", "5"},
		{"2025-08-02", "140", "8"},
	}

	table := Objectify(rows, 0)
	require.Equal(t, []string{"Date", "Impressions", "Clicks"}, table.Headers)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "140", table.Records[1]["Impressions"])
}

func TestObjectifyHeaderBelowPreamble(t *testing.T) {
	rows := [][]string{
		{"Visitor report"},
		{"Date", "Page views"},
		{"2025-08-01", "55"},
	}

	table := Objectify(rows, 1)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "55", table.Records[0]["Page views"])
}

func TestObjectifyDropsBlankHeaderColumns(t *testing.T) {
	rows := [][]string{
		{"Date", "", "Clicks"},
		{"2025-08-01", "orphaned", "5"},
	}

	table := Objectify(rows, 0)
	require.Equal(t, []string{"Date", "Clicks"}, table.Headers)
	// The cell under the blank header is unreachable, not shifted.
	assert.Equal(t, "5", table.Records[0]["Clicks"])
	assert.NotContains(t, table.Records[0], "")
}

func TestObjectifyShortRowsPadEmpty(t *testing.T) {
	rows := [][]string{
		{"Date", "Impressions", "Clicks"},
		{"2025-08-01", "100"},
	}

	table := Objectify(rows, 0)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "", table.Records[0]["Clicks"])
}

func TestObjectifyDiscardsEmptyRecords(t *testing.T) {
	rows := [][]string{
		{"Date", "Impressions"},
		{"", ""},
		{"2025-08-01", "100"},
	}

	table := Objectify(rows, 0)
	assert.Len(t, table.Records, 1)
}

func TestObjectifyDegenerateInput(t *testing.T) {
	assert.Empty(t, Objectify(nil, 0).Headers)
	assert.Empty(t, Objectify([][]string{{"", ""}}, 0).Headers)
	assert.Empty(t, Objectify([][]string{{"a"}}, 5).Headers)
}
