package linkedin

import "strings"

// maxHeaderScanRows bounds the metadata preamble scan; LinkedIn exports
// put up to a handful of title/date lines above the real header.
const maxHeaderScanRows = 10

// defaultHeaderKeywords covers the common organic-content export columns,
// used when a caller has no category-specific list.
var defaultHeaderKeywords = []string{
	"post title", "impressions", "clicks", "likes", "comments", "reposts",
	"engagement", "views", "follows", "ctr", "click through rate",
}

// LocateHeaderRow scans the first rows for the one that most plausibly
// holds column headers: a row qualifies when at least max(3, 30%) of the
// expected keywords appear as substrings of its lower-cased joined cells.
// If nothing qualifies, row 0 is assumed: best effort, never block.
func LocateHeaderRow(rows [][]string, expectedKeywords []string) int {
	if len(rows) == 0 {
		return 0
	}

	keywords := expectedKeywords
	if len(keywords) == 0 {
		keywords = defaultHeaderKeywords
	}

	// max(3, ceil(0.3 * len(keywords)))
	required := ceilDiv(len(keywords)*3, 10)
	if required < 3 {
		required = 3
	}

	limit := len(rows)
	if limit > maxHeaderScanRows {
		limit = maxHeaderScanRows
	}

	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], ""))
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(rowText, strings.ToLower(kw)) {
				matches++
			}
		}
		if matches >= required {
			return i
		}
	}

	return 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
