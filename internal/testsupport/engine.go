package testsupport

import (
	"fmt"
	"strings"
	"sync"

	"gopress/internal/pdfengine"
)

// Engine is an in-memory pdfengine.Factory. Input documents and loadable
// resource paths are declared up front; every session created from the
// engine records its activity for later inspection.
type Engine struct {
	mu sync.Mutex

	// Docs maps an openable document path to its page specs.
	Docs map[string]*Doc
	// Files is the set of loadable image/graphics paths.
	Files map[string]bool

	// OnBeginPage, when set, runs at every output BeginPage call. Tests use
	// it to trigger cancellation at a deterministic point.
	OnBeginPage func(outputPath string)

	sessions []*Session
}

// Doc describes a fake input document.
type Doc struct {
	Pages []PageSpec
}

// PageSpec describes one page of a fake input document.
type PageSpec struct {
	Width  float64
	Height float64
	Blocks []pdfengine.Block
}

// NewEngine returns an empty fake engine.
func NewEngine() *Engine {
	return &Engine{Docs: make(map[string]*Doc), Files: make(map[string]bool)}
}

// AddDoc registers an input document with the given page specs.
func (e *Engine) AddDoc(path string, pages ...PageSpec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Docs[path] = &Doc{Pages: pages}
}

// AddFile marks a resource path as loadable.
func (e *Engine) AddFile(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Files[path] = true
}

// NewSession implements pdfengine.Factory.
func (e *Engine) NewSession(settings pdfengine.Settings) (pdfengine.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	session := &Session{
		engine:       e,
		Settings:     settings,
		nextHandle:   1,
		openDocs:     make(map[pdfengine.DocHandle]string),
		openPages:    make(map[pdfengine.PageHandle]pageRef),
		openImages:   make(map[pdfengine.ImageHandle]string),
		openGraphics: make(map[pdfengine.GraphicsHandle]string),
		virtual:      make(map[string][]byte),
		Outputs:      make(map[string]*Output),
	}
	e.sessions = append(e.sessions, session)
	return session, nil
}

// Sessions returns every session the engine has handed out.
func (e *Engine) Sessions() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Session(nil), e.sessions...)
}

// Output captures one composed output document.
type Output struct {
	Path      string
	Pages     []*OutputPage
	Finalized bool
}

// OutputPage captures the contents placed on one output page.
type OutputPage struct {
	Width, Height float64
	Images        []string
	Placed        []Placed
	Attached      []string
	Fills         []Fill
	Lines         []Line
}

// Placed records a PlacePage call.
type Placed struct {
	Doc    string
	Number int
	X, Y   float64
}

// Fill records a block fill.
type Fill struct {
	Block string
	Kind  string
	// Text for text blocks, the resource source otherwise.
	Value string
}

// Line records a DrawLine call.
type Line struct {
	X1, Y1, X2, Y2, Width float64
}

type pageRef struct {
	doc    string
	number int
}

// Session implements pdfengine.Session in memory.
type Session struct {
	engine   *Engine
	Settings pdfengine.Settings

	nextHandle   int
	openDocs     map[pdfengine.DocHandle]string
	openPages    map[pdfengine.PageHandle]pageRef
	openImages   map[pdfengine.ImageHandle]string
	openGraphics map[pdfengine.GraphicsHandle]string
	virtual      map[string][]byte

	// Ops is the chronological call log, used for release-order checks.
	Ops []string

	Outputs map[string]*Output
	current *Output
	curPage *OutputPage

	Closed bool
}

func (s *Session) handle() int {
	h := s.nextHandle
	s.nextHandle++
	return h
}

func (s *Session) log(format string, args ...any) {
	s.Ops = append(s.Ops, fmt.Sprintf(format, args...))
}

func (s *Session) BeginDocument(path string) error {
	if s.current != nil {
		return fmt.Errorf("fake engine: document %s still open", s.current.Path)
	}
	s.current = &Output{Path: path}
	s.Outputs[path] = s.current
	s.log("begin-doc:%s", path)
	return nil
}

func (s *Session) EndDocument() error {
	if s.current == nil {
		return fmt.Errorf("fake engine: no open document")
	}
	s.current.Finalized = true
	s.log("end-doc:%s", s.current.Path)
	s.current = nil
	return nil
}

func (s *Session) BeginPage(width, height float64) error {
	if s.current == nil {
		return fmt.Errorf("fake engine: BeginPage outside document")
	}
	if hook := s.engine.OnBeginPage; hook != nil {
		hook(s.current.Path)
	}
	s.curPage = &OutputPage{Width: width, Height: height}
	s.current.Pages = append(s.current.Pages, s.curPage)
	return nil
}

func (s *Session) EndPage() error {
	if s.curPage == nil {
		return fmt.Errorf("fake engine: EndPage outside page")
	}
	s.curPage = nil
	return nil
}

func (s *Session) OpenDocument(path string) (pdfengine.DocHandle, error) {
	s.engine.mu.Lock()
	_, ok := s.engine.Docs[path]
	s.engine.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("cannot open document: %s", path)
	}
	h := pdfengine.DocHandle(s.handle())
	s.openDocs[h] = path
	s.log("open-doc:%s", path)
	return h, nil
}

func (s *Session) CloseDocument(doc pdfengine.DocHandle) {
	if path, ok := s.openDocs[doc]; ok {
		s.log("close-doc:%s", path)
		delete(s.openDocs, doc)
	}
}

func (s *Session) doc(h pdfengine.DocHandle) (*Doc, string, error) {
	path, ok := s.openDocs[h]
	if !ok {
		return nil, "", fmt.Errorf("fake engine: stale document handle %d", h)
	}
	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	return s.engine.Docs[path], path, nil
}

func (s *Session) PageCount(doc pdfengine.DocHandle) (int, error) {
	d, _, err := s.doc(doc)
	if err != nil {
		return 0, err
	}
	return len(d.Pages), nil
}

func (s *Session) PageSize(doc pdfengine.DocHandle, number int) (float64, float64, error) {
	d, path, err := s.doc(doc)
	if err != nil {
		return 0, 0, err
	}
	if number < 1 || number > len(d.Pages) {
		return 0, 0, fmt.Errorf("page %d out of range for %s", number, path)
	}
	spec := d.Pages[number-1]
	return spec.Width, spec.Height, nil
}

func (s *Session) OpenPage(doc pdfengine.DocHandle, number int) (pdfengine.PageHandle, error) {
	d, path, err := s.doc(doc)
	if err != nil {
		return 0, err
	}
	if number < 1 || number > len(d.Pages) {
		return 0, fmt.Errorf("page %d out of range for %s", number, path)
	}
	h := pdfengine.PageHandle(s.handle())
	s.openPages[h] = pageRef{doc: path, number: number}
	s.log("open-page:%s#%d", path, number)
	return h, nil
}

func (s *Session) ClosePage(page pdfengine.PageHandle) {
	if ref, ok := s.openPages[page]; ok {
		s.log("close-page:%s#%d", ref.doc, ref.number)
		delete(s.openPages, page)
	}
}

func (s *Session) CapturePageImage(page pdfengine.PageHandle, width, height float64) (pdfengine.ImageHandle, error) {
	ref, ok := s.openPages[page]
	if !ok {
		return 0, fmt.Errorf("fake engine: stale page handle %d", page)
	}
	h := pdfengine.ImageHandle(s.handle())
	source := fmt.Sprintf("capture:%s#%d", ref.doc, ref.number)
	s.openImages[h] = source
	s.log("capture:%s#%d", ref.doc, ref.number)
	return h, nil
}

func (s *Session) PageBlocks(doc pdfengine.DocHandle, number int) ([]pdfengine.Block, error) {
	d, path, err := s.doc(doc)
	if err != nil {
		return nil, err
	}
	if number < 1 || number > len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range for %s", number, path)
	}
	return append([]pdfengine.Block(nil), d.Pages[number-1].Blocks...), nil
}

func (s *Session) PlaceImage(img pdfengine.ImageHandle, x, y float64) error {
	source, ok := s.openImages[img]
	if !ok {
		return fmt.Errorf("fake engine: stale image handle %d", img)
	}
	if s.curPage == nil {
		return fmt.Errorf("fake engine: PlaceImage outside page")
	}
	_ = x
	_ = y
	s.curPage.Images = append(s.curPage.Images, source)
	return nil
}

func (s *Session) PlacePage(page pdfengine.PageHandle, x, y float64) error {
	ref, ok := s.openPages[page]
	if !ok {
		return fmt.Errorf("fake engine: stale page handle %d", page)
	}
	if s.curPage == nil {
		return fmt.Errorf("fake engine: PlacePage outside page")
	}
	s.curPage.Placed = append(s.curPage.Placed, Placed{Doc: ref.doc, Number: ref.number, X: x, Y: y})
	return nil
}

func (s *Session) AttachPage(page pdfengine.PageHandle) error {
	ref, ok := s.openPages[page]
	if !ok {
		return fmt.Errorf("fake engine: stale page handle %d", page)
	}
	if s.curPage == nil {
		return fmt.Errorf("fake engine: AttachPage outside page")
	}
	s.curPage.Attached = append(s.curPage.Attached, fmt.Sprintf("%s#%d", ref.doc, ref.number))
	return nil
}

func (s *Session) DrawLine(x1, y1, x2, y2, width float64) error {
	if s.curPage == nil {
		return fmt.Errorf("fake engine: DrawLine outside page")
	}
	s.curPage.Lines = append(s.curPage.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width})
	return nil
}

func (s *Session) fill(page pdfengine.PageHandle, kind, block, value string) error {
	if _, ok := s.openPages[page]; !ok {
		return fmt.Errorf("fake engine: stale page handle %d", page)
	}
	if s.curPage == nil {
		return fmt.Errorf("fake engine: fill outside page")
	}
	s.curPage.Fills = append(s.curPage.Fills, Fill{Block: block, Kind: kind, Value: value})
	return nil
}

func (s *Session) FillTextBlock(page pdfengine.PageHandle, name, textValue string) error {
	return s.fill(page, "text", name, textValue)
}

func (s *Session) FillImageBlock(page pdfengine.PageHandle, name string, img pdfengine.ImageHandle) error {
	source, ok := s.openImages[img]
	if !ok {
		return fmt.Errorf("fake engine: stale image handle %d", img)
	}
	return s.fill(page, "image", name, source)
}

func (s *Session) FillPDFBlock(page pdfengine.PageHandle, name string, src pdfengine.PageHandle) error {
	ref, ok := s.openPages[src]
	if !ok {
		return fmt.Errorf("fake engine: stale page handle %d", src)
	}
	return s.fill(page, "pdf", name, fmt.Sprintf("%s#%d", ref.doc, ref.number))
}

func (s *Session) FillGraphicsBlock(page pdfengine.PageHandle, name string, g pdfengine.GraphicsHandle) error {
	source, ok := s.openGraphics[g]
	if !ok {
		return fmt.Errorf("fake engine: stale graphics handle %d", g)
	}
	return s.fill(page, "graphics", name, source)
}

func (s *Session) LoadImage(path string) (pdfengine.ImageHandle, error) {
	if strings.HasPrefix(path, "/pvf/") {
		if _, ok := s.virtual[path]; !ok {
			return 0, fmt.Errorf("virtual file not found: %s", path)
		}
	} else {
		s.engine.mu.Lock()
		ok := s.engine.Files[path]
		s.engine.mu.Unlock()
		if !ok {
			return 0, fmt.Errorf("image does not exist: %s", path)
		}
	}
	h := pdfengine.ImageHandle(s.handle())
	s.openImages[h] = path
	s.log("load-image:%s", path)
	return h, nil
}

func (s *Session) CloseImage(img pdfengine.ImageHandle) {
	if source, ok := s.openImages[img]; ok {
		s.log("close-image:%s", source)
		delete(s.openImages, img)
	}
}

func (s *Session) LoadGraphics(path string) (pdfengine.GraphicsHandle, error) {
	s.engine.mu.Lock()
	ok := s.engine.Files[path]
	s.engine.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("graphics does not exist: %s", path)
	}
	h := pdfengine.GraphicsHandle(s.handle())
	s.openGraphics[h] = path
	s.log("load-graphics:%s", path)
	return h, nil
}

func (s *Session) CloseGraphics(g pdfengine.GraphicsHandle) {
	if source, ok := s.openGraphics[g]; ok {
		s.log("close-graphics:%s", source)
		delete(s.openGraphics, g)
	}
}

func (s *Session) CreateVirtualFile(path string, data []byte) error {
	if _, exists := s.virtual[path]; exists {
		return fmt.Errorf("virtual file already exists: %s", path)
	}
	s.virtual[path] = append([]byte(nil), data...)
	s.log("create-pvf:%s", path)
	return nil
}

func (s *Session) Close() error {
	s.Closed = true
	s.log("close-session")
	return nil
}

// OpenHandles reports how many input handles are still open, for leak
// assertions.
func (s *Session) OpenHandles() int {
	return len(s.openDocs) + len(s.openPages) + len(s.openImages) + len(s.openGraphics)
}

// OpCount returns the number of logged ops matching prefix.
func (s *Session) OpCount(prefix string) int {
	count := 0
	for _, op := range s.Ops {
		if strings.HasPrefix(op, prefix) {
			count++
		}
	}
	return count
}

// OpIndex returns the position of the first op matching prefix, or -1.
func (s *Session) OpIndex(prefix string) int {
	for i, op := range s.Ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}
