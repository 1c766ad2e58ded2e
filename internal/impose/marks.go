package impose

import "gopress/internal/pdfengine"

// Crop mark geometry in points.
const (
	cropMarkLength = 9.0
	cropMarkGap    = 3.0
	cropMarkWidth  = 0.5
)

// drawCropMarks strokes trim marks at all four corners of every slot on the
// current output sheet, using the side-appropriate placement coordinates.
// pageWidth/pageHeight are the source page trim size in points.
func drawCropMarks(session pdfengine.Session, layout Layout, sheet int, duplex bool, pageWidth, pageHeight float64) error {
	for slot := 0; slot < layout.Slots; slot++ {
		x, y := layout.slotOrigin(slot, sheet, duplex)

		corners := [4][2]float64{
			{x, y},
			{x + pageWidth, y},
			{x, y + pageHeight},
			{x + pageWidth, y + pageHeight},
		}
		for i, corner := range corners {
			cx, cy := corner[0], corner[1]
			hdir := 1.0
			if i == 1 || i == 3 {
				hdir = -1
			}
			vdir := 1.0
			if i >= 2 {
				vdir = -1
			}

			// Horizontal tick, pointing away from the trim area.
			if err := session.DrawLine(
				cx-hdir*(cropMarkGap+cropMarkLength), cy,
				cx-hdir*cropMarkGap, cy,
				cropMarkWidth,
			); err != nil {
				return err
			}
			// Vertical tick.
			if err := session.DrawLine(
				cx, cy-vdir*(cropMarkGap+cropMarkLength),
				cx, cy-vdir*cropMarkGap,
				cropMarkWidth,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
