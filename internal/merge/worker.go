package merge

import (
	"context"
	"fmt"
	"path/filepath"

	"gopress/internal/barcode"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
)

// worker composes one output document from one chunk of rows. It owns its
// session, cache, and barcode generator exclusively; nothing inside a
// worker runs concurrently.
type worker struct {
	id         int
	session    pdfengine.Session
	cache      *Cache
	barcodes   *barcode.Generator
	rows       []resolvedRow
	outputPath string
	reporter   *progress.Reporter
	omr        OMRMode
}

func newWorker(id int, session pdfengine.Session, rows []resolvedRow, outputPath string, reporter *progress.Reporter, omr OMRMode) *worker {
	return &worker{
		id:         id,
		session:    session,
		cache:      NewCache(session),
		barcodes:   barcode.NewGenerator(session),
		rows:       rows,
		outputPath: outputPath,
		reporter:   reporter,
		omr:        omr,
	}
}

// run merges every row into the output document. Cancellation is polled
// before each row; a cancelled run is not an error. Any fatal error has
// already been reported through the reporter when run returns it.
func (w *worker) run(ctx context.Context) error {
	if err := w.session.BeginDocument(w.outputPath); err != nil {
		err = fmt.Errorf("begin document %s: %w", w.outputPath, err)
		w.reporter.Errorf("%v", err)
		return err
	}

	for _, row := range w.rows {
		select {
		case <-ctx.Done():
			w.reporter.Warningf("Shutting down")
			w.finalize()
			return nil
		default:
		}

		if err := w.mergeRow(row); err != nil {
			w.reporter.Errorf("%v", err)
			w.finalize()
			return err
		}
		w.reporter.Advance(row.pageCount)
	}

	w.finalize()
	w.reporter.Messagef("Wrote file %s", filepath.Base(w.outputPath))
	return nil
}

// finalize releases the cache and closes the output document. Partial
// output from a cancelled or failed chunk stays on disk.
func (w *worker) finalize() {
	w.cache.Clear()
	_ = w.session.EndDocument()
}

// mergeRow composes every page of the row's template.
func (w *worker) mergeRow(row resolvedRow) error {
	doc, err := w.cache.Document(row.templatePath)
	if err != nil {
		return err
	}

	for _, page := range doc.Pages {
		if err := w.mergePage(doc, page, row); err != nil {
			return err
		}
	}
	return nil
}

// mergePage begins an output page at the template page's size, lays the
// captured template image down as the background, attaches the template
// page so its blocks resolve, then merges each block in page order.
func (w *worker) mergePage(doc *Document, page *Page, row resolvedRow) error {
	if err := w.session.BeginPage(page.Width, page.Height); err != nil {
		return fmt.Errorf("begin page %d of document '%s': %w", page.Number, doc.Path, err)
	}
	if err := w.session.PlaceImage(page.background, 0, 0); err != nil {
		return err
	}
	if err := w.session.AttachPage(page.handle); err != nil {
		return err
	}

	for _, block := range page.Blocks {
		if err := w.mergeBlock(doc, page, block, row); err != nil {
			return err
		}
	}

	if err := w.drawOMRMarks(page, page.Number, page.Number == 1); err != nil {
		return err
	}
	return w.session.EndPage()
}
