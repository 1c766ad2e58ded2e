package impose

import (
	"context"
	"fmt"
	"path/filepath"

	"gopress/internal/pdfengine"
	"gopress/internal/progress"
)

// worker imposes one input document into one output document. Like a merge
// worker it owns its session exclusively and composes sequentially.
type worker struct {
	id         int
	session    pdfengine.Session
	inputPath  string
	outputPath string
	opts       Options
	reporter   *progress.Reporter
}

// run composes the imposed output. Cancellation is polled before each
// sheet; a cancelled run is not an error.
func (w *worker) run(ctx context.Context) error {
	if err := w.impose(ctx); err != nil {
		w.reporter.Errorf("%v", err)
		return err
	}
	return nil
}

func (w *worker) impose(ctx context.Context) error {
	doc, err := w.session.OpenDocument(w.inputPath)
	if err != nil {
		return fmt.Errorf("open input document: %w", err)
	}
	defer w.session.CloseDocument(doc)

	pageCount, err := w.session.PageCount(doc)
	if err != nil {
		return err
	}
	pageWidth, pageHeight, err := w.session.PageSize(doc, 1)
	if err != nil {
		return err
	}

	layout := ComputeLayout(w.opts, pageWidth, pageHeight, pageCount)

	if err := w.session.BeginDocument(w.outputPath); err != nil {
		return fmt.Errorf("begin document %s: %w", w.outputPath, err)
	}
	defer func() { _ = w.session.EndDocument() }()

	for sheet := 0; sheet < layout.SignaturePages; sheet++ {
		select {
		case <-ctx.Done():
			w.reporter.Warningf("Shutting down")
			return nil
		default:
		}

		if err := w.composeSheet(doc, layout, sheet, pageCount, pageWidth, pageHeight); err != nil {
			return err
		}
	}

	w.reporter.Advance(1)
	w.reporter.Messagef("Wrote file %s", filepath.Base(w.outputPath))
	return nil
}

func (w *worker) composeSheet(doc pdfengine.DocHandle, layout Layout, sheet, pageCount int, pageWidth, pageHeight float64) error {
	if err := w.session.BeginPage(layout.SheetWidth, layout.SheetHeight); err != nil {
		return err
	}

	for slot := 0; slot < layout.Slots; slot++ {
		pageNumber := layout.Signature[slot] + sheet
		if pageNumber > pageCount {
			continue
		}

		page, err := w.session.OpenPage(doc, pageNumber)
		if err != nil {
			return err
		}
		x, y := layout.slotOrigin(slot, sheet, w.opts.Duplex)
		err = w.session.PlacePage(page, x, y)
		w.session.ClosePage(page)
		if err != nil {
			return err
		}
	}

	if w.opts.CropMarks {
		if err := drawCropMarks(w.session, layout, sheet, w.opts.Duplex, pageWidth, pageHeight); err != nil {
			return err
		}
	}
	return w.session.EndPage()
}
