package linkedin

// Objectify zips the rows after headerIndex against the header row's
// non-blank cells. Blank header cells are dropped, which can shrink the
// effective column count; data cells at dropped positions become
// unreachable by name. Missing trailing cells read as empty strings, and
// rows whose every field is empty are discarded.
func Objectify(rows [][]string, headerIndex int) *Table {
	if headerIndex < 0 || len(rows) <= headerIndex {
		return &Table{}
	}

	var headers []string
	var indices []int
	for i, h := range rows[headerIndex] {
		if h != "" {
			headers = append(headers, h)
			indices = append(indices, i)
		}
	}
	if len(headers) == 0 {
		return &Table{}
	}

	var records []map[string]string
	for _, row := range rows[headerIndex+1:] {
		rec := make(map[string]string, len(headers))
		empty := true
		for j, header := range headers {
			val := ""
			if idx := indices[j]; idx < len(row) {
				val = row[idx]
			}
			rec[header] = val
			if val != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, rec)
		}
	}

	return &Table{Headers: headers, Records: records}
}
