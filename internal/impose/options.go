package impose

import (
	"errors"
	"fmt"
)

// Options configures an imposition run. Linear dimensions are in inches.
type Options struct {
	Rows    int
	Columns int
	// SheetWidth and SheetHeight size the output sheet.
	SheetWidth  float64
	SheetHeight float64
	// Duplex pairs output sheets front/back and mirrors back placements.
	Duplex bool
	// Gutter is the spacing budget between adjoining cells; each cell
	// receives half of it per edge.
	GutterWidth  float64
	GutterHeight float64
	// Bleed is subtracted from the halved gutter, floored at zero.
	BleedWidth  float64
	BleedHeight float64
	// CropMarks draws trim marks at every cell corner.
	CropMarks bool
}

func (o Options) validate() error {
	if o.Rows < 1 || o.Columns < 1 {
		return fmt.Errorf("rows and columns must be at least 1, got %dx%d", o.Rows, o.Columns)
	}
	if o.SheetWidth <= 0 || o.SheetHeight <= 0 {
		return errors.New("sheet size must be positive")
	}
	if o.GutterWidth < 0 || o.GutterHeight < 0 {
		return errors.New("gutter must not be negative")
	}
	if o.BleedWidth < 0 || o.BleedHeight < 0 {
		return errors.New("bleed must not be negative")
	}
	return nil
}

// Up returns the number of grid slots per sheet.
func (o Options) Up() int {
	return o.Rows * o.Columns
}
