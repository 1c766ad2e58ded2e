package merge

// chunk is a contiguous run of rows assigned to one worker and one output
// file, together with its template-page total.
type chunk struct {
	rows  []resolvedRow
	pages int
}

// partition splits rows into page-bounded chunks. The running page sum
// resets whenever it reaches the limit; the row that crossed the limit ends
// its chunk, so a single row larger than the limit still forms one chunk.
// Chunks are disjoint, exhaustive, and preserve row order.
func partition(rows []resolvedRow, limit int) []chunk {
	var chunks []chunk
	start := 0
	pages := 0

	for i, row := range rows {
		pages += row.pageCount
		if pages >= limit {
			chunks = append(chunks, chunk{rows: rows[start : i+1], pages: pages})
			start = i + 1
			pages = 0
		}
	}
	if start < len(rows) {
		chunks = append(chunks, chunk{rows: rows[start:], pages: pages})
	}
	return chunks
}
