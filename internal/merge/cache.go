package merge

import (
	"fmt"

	"gopress/internal/pdfengine"
)

// Document is a fully loaded template document owned by one worker's cache.
type Document struct {
	Path   string
	handle pdfengine.DocHandle
	Pages  []*Page
}

// Page is one loaded template page: its handle, the captured background
// image, and the named blocks in page order.
type Page struct {
	handle     pdfengine.PageHandle
	background pdfengine.ImageHandle
	Number     int
	Width      float64
	Height     float64
	Blocks     []pdfengine.Block
}

// embedDoc is a document opened only as an embeddable PDF block target.
// Pages are opened lazily as bare handles; no background capture, no block
// enumeration.
type embedDoc struct {
	handle    pdfengine.DocHandle
	pageCount int
	pages     map[int]pdfengine.PageHandle
	pageOrder []int
}

// Cache holds every engine handle a worker acquires, keyed by resolved
// path, so each unique resource is opened exactly once per worker lifetime.
// The cache owns its handles until Clear, which releases them in reverse
// acquisition order: images and graphics first, then pages, then documents.
type Cache struct {
	session pdfengine.Session

	documents     map[string]*Document
	docOrder      []string
	embeds        map[string]*embedDoc
	embedOrder    []string
	images        map[string]pdfengine.ImageHandle
	imageOrder    []string
	graphics      map[string]pdfengine.GraphicsHandle
	graphicsOrder []string
}

// NewCache builds an empty cache bound to one worker's session.
func NewCache(session pdfengine.Session) *Cache {
	return &Cache{
		session:   session,
		documents: make(map[string]*Document),
		embeds:    make(map[string]*embedDoc),
		images:    make(map[string]pdfengine.ImageHandle),
		graphics:  make(map[string]pdfengine.GraphicsHandle),
	}
}

// Document returns the fully loaded template for path, loading it on first
// use.
func (c *Cache) Document(path string) (*Document, error) {
	if doc, ok := c.documents[path]; ok {
		return doc, nil
	}
	doc, err := c.loadDocument(path)
	if err != nil {
		return nil, err
	}
	c.documents[path] = doc
	c.docOrder = append(c.docOrder, path)
	return doc, nil
}

// Image returns the image handle for path, loading it on first use.
func (c *Cache) Image(path string) (pdfengine.ImageHandle, error) {
	if handle, ok := c.images[path]; ok {
		return handle, nil
	}
	handle, err := c.session.LoadImage(path)
	if err != nil {
		return 0, err
	}
	c.images[path] = handle
	c.imageOrder = append(c.imageOrder, path)
	return handle, nil
}

// Graphics returns the vector-graphics handle for path, loading it on first
// use.
func (c *Cache) Graphics(path string) (pdfengine.GraphicsHandle, error) {
	if handle, ok := c.graphics[path]; ok {
		return handle, nil
	}
	handle, err := c.session.LoadGraphics(path)
	if err != nil {
		return 0, err
	}
	c.graphics[path] = handle
	c.graphicsOrder = append(c.graphicsOrder, path)
	return handle, nil
}

// PDFPage returns the embeddable page handle for (path, number). A number
// below 1 selects the first page.
func (c *Cache) PDFPage(path string, number int) (pdfengine.PageHandle, error) {
	if number < 1 {
		number = 1
	}

	embed, ok := c.embeds[path]
	if !ok {
		handle, err := c.session.OpenDocument(path)
		if err != nil {
			return 0, err
		}
		count, err := c.session.PageCount(handle)
		if err != nil {
			c.session.CloseDocument(handle)
			return 0, err
		}
		embed = &embedDoc{handle: handle, pageCount: count, pages: make(map[int]pdfengine.PageHandle)}
		c.embeds[path] = embed
		c.embedOrder = append(c.embedOrder, path)
	}

	if number > embed.pageCount {
		return 0, fmt.Errorf("page %d out of range, %s has %d pages", number, path, embed.pageCount)
	}
	if page, ok := embed.pages[number]; ok {
		return page, nil
	}
	page, err := c.session.OpenPage(embed.handle, number)
	if err != nil {
		return 0, err
	}
	embed.pages[number] = page
	embed.pageOrder = append(embed.pageOrder, number)
	return page, nil
}

// Clear releases every handle the cache created, leaving the cache empty
// and reusable. Release order satisfies the engine's teardown rules:
// loaded images and graphics, then embed pages and their documents, then
// template backgrounds, pages, and documents.
func (c *Cache) Clear() {
	for _, path := range c.imageOrder {
		c.session.CloseImage(c.images[path])
	}
	c.images = make(map[string]pdfengine.ImageHandle)
	c.imageOrder = nil

	for _, path := range c.graphicsOrder {
		c.session.CloseGraphics(c.graphics[path])
	}
	c.graphics = make(map[string]pdfengine.GraphicsHandle)
	c.graphicsOrder = nil

	for _, path := range c.embedOrder {
		embed := c.embeds[path]
		for _, number := range embed.pageOrder {
			c.session.ClosePage(embed.pages[number])
		}
		c.session.CloseDocument(embed.handle)
	}
	c.embeds = make(map[string]*embedDoc)
	c.embedOrder = nil

	for _, path := range c.docOrder {
		doc := c.documents[path]
		for _, page := range doc.Pages {
			c.session.CloseImage(page.background)
			c.session.ClosePage(page.handle)
		}
		c.session.CloseDocument(doc.handle)
	}
	c.documents = make(map[string]*Document)
	c.docOrder = nil
}

func (c *Cache) loadDocument(path string) (*Document, error) {
	handle, err := c.session.OpenDocument(path)
	if err != nil {
		return nil, err
	}

	count, err := c.session.PageCount(handle)
	if err != nil {
		c.session.CloseDocument(handle)
		return nil, err
	}

	doc := &Document{Path: path, handle: handle}
	for number := 1; number <= count; number++ {
		page, err := c.loadPage(handle, number)
		if err != nil {
			// Unwind the partially loaded document.
			for _, loaded := range doc.Pages {
				c.session.CloseImage(loaded.background)
				c.session.ClosePage(loaded.handle)
			}
			c.session.CloseDocument(handle)
			return nil, err
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

func (c *Cache) loadPage(doc pdfengine.DocHandle, number int) (*Page, error) {
	width, height, err := c.session.PageSize(doc, number)
	if err != nil {
		return nil, err
	}

	handle, err := c.session.OpenPage(doc, number)
	if err != nil {
		return nil, err
	}

	background, err := c.session.CapturePageImage(handle, width, height)
	if err != nil {
		c.session.ClosePage(handle)
		return nil, err
	}

	blocks, err := c.session.PageBlocks(doc, number)
	if err != nil {
		c.session.CloseImage(background)
		c.session.ClosePage(handle)
		return nil, err
	}

	return &Page{
		handle:     handle,
		background: background,
		Number:     number,
		Width:      width,
		Height:     height,
		Blocks:     blocks,
	}, nil
}
