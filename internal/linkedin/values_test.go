package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeCompanySize(t *testing.T) {
	for _, v := range []string{"1", "2-10", "11-50", "51-200", "10001+", "10k+", "10K+"} {
		assert.True(t, LooksLikeCompanySize(v), v)
	}
	for _, v := range []string{"", "Technology", "12/25/2024", "2024-12-25", "-5", "10-"} {
		assert.False(t, LooksLikeCompanySize(v), v)
	}
}

func TestLooksLikeRangeNotDate(t *testing.T) {
	// "2-10" reads as February 10 to a naive date formatter; the range
	// check is what keeps it textual.
	assert.True(t, LooksLikeRangeNotDate("2-10"))
	assert.True(t, LooksLikeRangeNotDate("501+"))
	assert.True(t, LooksLikeRangeNotDate("10k+"))

	// The lone "1" is a company-size bucket but not range-shaped.
	assert.False(t, LooksLikeRangeNotDate("1"))
	assert.False(t, LooksLikeRangeNotDate("2024-12-25"))
	assert.False(t, LooksLikeRangeNotDate("12/25/2024"))
}

func TestLooksLikeDate(t *testing.T) {
	for _, v := range []string{
		"2024-12-25",
		"2024-12-25 14:30:00",
		"12/25/2024",
		"1/5/2024",
		"July 15, 2025",
		"Week of Jul 15, 2025",
		"Jul 15 - Jul 21, 2025",
	} {
		assert.True(t, LooksLikeDate(v), v)
	}

	for _, v := range []string{"", "2-10", "11-50", "10001+", "Technology", "2024"} {
		assert.False(t, LooksLikeDate(v), v)
	}
}

func TestClassifyCellDisjointness(t *testing.T) {
	// Company-size ranges must never read as dates, and real dates must
	// never read as ranges.
	size := ClassifyCell("11-50")
	assert.True(t, size.CompanySizeRange)
	assert.True(t, size.RangeNotDate)
	assert.False(t, size.Date)

	date := ClassifyCell("12/25/2024")
	assert.True(t, date.Date)
	assert.False(t, date.CompanySizeRange)
	assert.False(t, date.RangeNotDate)

	plain := ClassifyCell("Technology")
	assert.False(t, plain.CompanySizeRange || plain.RangeNotDate || plain.Date)
}
