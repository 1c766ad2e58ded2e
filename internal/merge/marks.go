package merge

// OMR mark geometry in points. Marks sit in a column near the left edge so
// inserter cameras can read them across the whole output file.
const (
	omrInsetX     = 18.0
	omrTopY       = 36.0
	omrMarkLength = 14.0
	omrMarkPitch  = 9.0
	omrMarkWidth  = 1.5
)

// drawOMRMarks draws the mark column on the current output page. The gate
// mark is always present; the first page of a row additionally carries the
// start-of-collation mark. In duplex mode marks belong on fronts only, so
// even page numbers are skipped.
func (w *worker) drawOMRMarks(page *Page, pageNumber int, firstOfRow bool) error {
	if w.omr == OMRNone {
		return nil
	}
	if w.omr == OMRDuplex && pageNumber%2 == 0 {
		return nil
	}

	y := page.Height - omrTopY
	if err := w.session.DrawLine(omrInsetX, y, omrInsetX+omrMarkLength, y, omrMarkWidth); err != nil {
		return err
	}
	if firstOfRow {
		y -= omrMarkPitch
		if err := w.session.DrawLine(omrInsetX, y, omrInsetX+omrMarkLength, y, omrMarkWidth); err != nil {
			return err
		}
	}
	return nil
}
