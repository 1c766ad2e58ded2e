package merge

import (
	"fmt"
	"strings"

	"gopress/internal/barcode"
	"gopress/internal/pdfengine"
)

// mergeBlock fills one block for one row. Missing block resources degrade
// to a warning with the block left unfilled; substitution failures,
// unsupported block types, and engine fill failures are fatal to the chunk.
func (w *worker) mergeBlock(doc *Document, page *Page, block pdfengine.Block, row resolvedRow) error {
	text, err := SubstituteFields(block.Text, row.row)
	if err != nil {
		return fmt.Errorf("block '%s' on page %d of document '%s' could not be filled: %w",
			block.Name, page.Number, doc.Path, err)
	}

	var fillErr error
	switch strings.ToLower(block.Type) {
	case "text":
		fillErr = w.session.FillTextBlock(page.handle, block.Name, text)
	case "image":
		fillErr = w.mergeImageBlock(page, block, text)
	case "pdf":
		fillErr = w.mergePDFBlock(page, block, text)
	case "graphics":
		fillErr = w.mergeGraphicsBlock(page, block, text)
	default:
		return fmt.Errorf("unsupported block type: %s", block.Type)
	}

	if fillErr != nil {
		return fmt.Errorf("block '%s' on page %d of document '%s' could not be filled: %w",
			block.Name, page.Number, doc.Path, fillErr)
	}
	return nil
}

func (w *worker) mergeImageBlock(page *Page, block pdfengine.Block, text string) error {
	source := text
	if kindName, ok := block.Properties["barcode"]; ok {
		kind, err := barcode.ParseKind(kindName)
		if err != nil {
			w.reporter.Warningf("Barcode could not be placed '%s': %v", text, err)
			return nil
		}
		source, err = w.barcodes.VirtualPath(kind, text)
		if err != nil {
			w.reporter.Warningf("Barcode could not be placed '%s': %v", text, err)
			return nil
		}
	}

	handle, err := w.cache.Image(source)
	if err != nil {
		w.reporter.Warningf("Image could not be placed: %s", source)
		return nil
	}
	return w.session.FillImageBlock(page.handle, block.Name, handle)
}

func (w *worker) mergeGraphicsBlock(page *Page, block pdfengine.Block, text string) error {
	handle, err := w.cache.Graphics(text)
	if err != nil {
		w.reporter.Warningf("Graphics could not be placed: %s", text)
		return nil
	}
	return w.session.FillGraphicsBlock(page.handle, block.Name, handle)
}

func (w *worker) mergePDFBlock(page *Page, block pdfengine.Block, text string) error {
	handle, err := w.cache.PDFPage(text, block.PDFPage)
	if err != nil {
		w.reporter.Warningf("PDF could not be placed '%s': %v", text, err)
		return nil
	}
	return w.session.FillPDFBlock(page.handle, block.Name, handle)
}
