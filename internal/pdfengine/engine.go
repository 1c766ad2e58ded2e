package pdfengine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handle types are opaque engine identifiers. Distinct types keep a page
// handle from being released as an image handle and vice versa.
type (
	// DocHandle identifies an opened input document.
	DocHandle int
	// PageHandle identifies an opened page of an input document.
	PageHandle int
	// ImageHandle identifies a loaded raster image or captured page image.
	ImageHandle int
	// GraphicsHandle identifies loaded vector graphics.
	GraphicsHandle int
)

// Block describes one named placeholder region on a template page.
type Block struct {
	Name string
	// Type is the engine-reported block subtype: "text", "image", "pdf",
	// or "graphics". Matching is case-insensitive.
	Type string
	// Text is the literal default text, possibly containing merge fields.
	Text string
	// PDFPage is the target sub-page for pdf-type blocks, 1-based.
	// Zero for every other type.
	PDFPage int
	// Properties carries the block's custom string properties.
	Properties map[string]string
}

// Settings carries the engine construction parameters persisted in the
// gopress configuration file.
type Settings struct {
	LicenseKey string
	Version    int
}

// Session is a single-goroutine connection to the rendering engine. All
// composition methods operate on one output document at a time; Begin and
// End calls must pair in the usual document/page nesting order.
type Session interface {
	// BeginDocument starts writing the output document at path.
	BeginDocument(path string) error
	// EndDocument finalizes and closes the current output document.
	EndDocument() error
	// BeginPage starts a new output page of the given size in points.
	BeginPage(width, height float64) error
	// EndPage finishes the current output page.
	EndPage() error

	// OpenDocument opens an existing document for reading.
	OpenDocument(path string) (DocHandle, error)
	CloseDocument(doc DocHandle)
	// PageCount reports the number of pages in an opened document.
	PageCount(doc DocHandle) (int, error)
	// PageSize reports the size of page number (1-based) in points.
	PageSize(doc DocHandle, number int) (width, height float64, err error)
	// OpenPage opens page number (1-based) of an opened document.
	OpenPage(doc DocHandle, number int) (PageHandle, error)
	ClosePage(page PageHandle)
	// CapturePageImage renders an opened page into a reusable image of the
	// given size, suitable for placing as a page background.
	CapturePageImage(page PageHandle, width, height float64) (ImageHandle, error)
	// PageBlocks enumerates the named blocks on page number (1-based).
	PageBlocks(doc DocHandle, number int) ([]Block, error)

	// PlaceImage draws an image onto the current output page.
	PlaceImage(img ImageHandle, x, y float64) error
	// PlacePage draws an opened input page onto the current output page.
	PlacePage(page PageHandle, x, y float64) error
	// AttachPage registers a template page with the current output page so
	// its blocks can be filled without drawing the page itself.
	AttachPage(page PageHandle) error
	// DrawLine strokes a line on the current output page.
	DrawLine(x1, y1, x2, y2, width float64) error

	FillTextBlock(page PageHandle, name, text string) error
	FillImageBlock(page PageHandle, name string, img ImageHandle) error
	FillPDFBlock(page PageHandle, name string, src PageHandle) error
	FillGraphicsBlock(page PageHandle, name string, g GraphicsHandle) error

	// LoadImage loads a raster image from a file path or a virtual file.
	LoadImage(path string) (ImageHandle, error)
	CloseImage(img ImageHandle)
	// LoadGraphics loads vector graphics from a file path.
	LoadGraphics(path string) (GraphicsHandle, error)
	CloseGraphics(g GraphicsHandle)
	// CreateVirtualFile publishes in-memory bytes under a virtual path so
	// generated rasters can be loaded without touching disk. Creating the
	// same path twice is an error; callers cache by path.
	CreateVirtualFile(path string, data []byte) error

	// Close releases the session. Handles still open are engine-owned
	// garbage at this point; callers release them beforehand.
	Close() error
}

// Factory creates engine sessions. Implementations must allow concurrent
// NewSession calls; the sessions themselves are single-goroutine.
type Factory interface {
	NewSession(settings Settings) (Session, error)
}

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// ErrNoEngine indicates that no engine binding is linked into this build.
var ErrNoEngine = errors.New("no document engine registered")

// Register makes an engine factory available under the given name. It is
// intended to be called from a binding's init function and panics on
// duplicate names, like database/sql driver registration.
func Register(name string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if factory == nil {
		panic("pdfengine: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("pdfengine: Register called twice for engine " + name)
	}
	factories[name] = factory
}

// Lookup returns the factory registered under name. With an empty name it
// returns the sole registered factory, or an error naming the candidates
// when the choice is ambiguous.
func Lookup(name string) (Factory, error) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	if name != "" {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("document engine %q not registered (have %s)", name, registeredNames())
		}
		return factory, nil
	}

	switch len(factories) {
	case 0:
		return nil, ErrNoEngine
	case 1:
		for _, factory := range factories {
			return factory, nil
		}
	}
	return nil, fmt.Errorf("multiple document engines registered (%s); select one explicitly", registeredNames())
}

func registeredNames() string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// unregister removes a factory. Test support only.
func unregister(name string) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	delete(factories, name)
}
