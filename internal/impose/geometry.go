package impose

import "math"

// pointsPerInch converts the CLI's inch dimensions to engine points.
const pointsPerInch = 72.0

// Placement holds one slot's page origin for front sheets and for
// duplex-mirrored back sheets, in points.
type Placement struct {
	FrontX, FrontY float64
	BackX, BackY   float64
}

// Layout is the full imposition geometry for one input document.
type Layout struct {
	// SheetWidth and SheetHeight are the output page size in points.
	SheetWidth  float64
	SheetHeight float64
	// Slots is rows*columns.
	Slots int
	// SignaturePages is the number of output sheets; even under duplex so
	// fronts and backs pair correctly.
	SignaturePages int
	// Signature maps each slot to its starting source-page offset.
	Signature []int
	// CellWidth and CellHeight are the source page size plus gutter.
	CellWidth  float64
	CellHeight float64
	// MarginX and MarginY center the grid on the sheet, floored at zero.
	MarginX float64
	MarginY float64
	// GutterX and GutterY are the per-edge gutter after halving and bleed
	// subtraction.
	GutterX float64
	GutterY float64
	// Placements holds per-slot coordinates in row-major order, top row
	// first.
	Placements []Placement
}

// ComputeLayout derives the signature and placement geometry for an input
// document with the given first-page size (points) and total page count.
func ComputeLayout(opts Options, pageWidth, pageHeight float64, pageCount int) Layout {
	// The gutter is split between adjoining cells, and bleed eats into it.
	gutterX := math.Max(0, opts.GutterWidth*pointsPerInch/2-opts.BleedWidth*pointsPerInch)
	gutterY := math.Max(0, opts.GutterHeight*pointsPerInch/2-opts.BleedHeight*pointsPerInch)

	slots := opts.Up()
	signaturePages := int(math.Ceil(float64(pageCount) / float64(slots)))
	if opts.Duplex && signaturePages%2 != 0 {
		signaturePages++
	}

	cellWidth := pageWidth + gutterX*2
	cellHeight := pageHeight + gutterY*2

	sheetWidth := opts.SheetWidth * pointsPerInch
	sheetHeight := opts.SheetHeight * pointsPerInch
	marginX := math.Max(0, (sheetWidth-cellWidth*float64(opts.Columns))/2)
	marginY := math.Max(0, (sheetHeight-cellHeight*float64(opts.Rows))/2)

	signature := make([]int, slots)
	for i := range signature {
		signature[i] = i*signaturePages + 1
	}

	placements := make([]Placement, 0, slots)
	for row := 0; row < opts.Rows; row++ {
		y := cellHeight*float64(opts.Rows) - cellHeight*float64(row+1) + gutterY + marginY
		for col := 0; col < opts.Columns; col++ {
			placements = append(placements, Placement{
				FrontX: cellWidth*float64(col) + gutterX + marginX,
				FrontY: y,
				BackX:  cellWidth*float64(opts.Columns) - cellWidth*float64(col+1) + gutterX + marginX,
				BackY:  y,
			})
		}
	}

	return Layout{
		SheetWidth:     sheetWidth,
		SheetHeight:    sheetHeight,
		Slots:          slots,
		SignaturePages: signaturePages,
		Signature:      signature,
		CellWidth:      cellWidth,
		CellHeight:     cellHeight,
		MarginX:        marginX,
		MarginY:        marginY,
		GutterX:        gutterX,
		GutterY:        gutterY,
		Placements:     placements,
	}
}

// slotOrigin returns the placement origin for a slot on the given 0-based
// sheet index. Under duplex the odd sheets are backs and use the mirrored
// coordinates.
func (l Layout) slotOrigin(slot, sheet int, duplex bool) (float64, float64) {
	p := l.Placements[slot]
	if duplex && sheet%2 == 1 {
		return p.BackX, p.BackY
	}
	return p.FrontX, p.FrontY
}
