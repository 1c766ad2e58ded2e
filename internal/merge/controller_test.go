package merge_test

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gopress/internal/barcode"
	"gopress/internal/merge"
	"gopress/internal/pdfengine"
	"gopress/internal/progress"
	"gopress/internal/testsupport"
)

// recordingDisplay captures every event a run publishes.
type recordingDisplay struct {
	mu      sync.Mutex
	total   int64
	pages   int
	events  []progress.Event
	outcome progress.Outcome
	done    bool
}

func (d *recordingDisplay) Start(total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.total = total
}

func (d *recordingDisplay) Handle(event progress.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	if event.Kind == progress.KindAdvance {
		d.pages += event.Pages
	}
}

func (d *recordingDisplay) Finish(outcome progress.Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcome = outcome
	d.done = true
}

func (d *recordingDisplay) warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var texts []string
	for _, event := range d.events {
		if event.Kind == progress.KindWarning {
			texts = append(texts, event.Text)
		}
	}
	return texts
}

func findOutput(t *testing.T, engine *testsupport.Engine, path string) *testsupport.Output {
	t.Helper()
	for _, session := range engine.Sessions() {
		if output, ok := session.Outputs[path]; ok {
			return output
		}
	}
	t.Fatalf("no session produced output %s", path)
	return nil
}

func fillValue(t *testing.T, page *testsupport.OutputPage, block string) string {
	t.Helper()
	for _, fill := range page.Fills {
		if fill.Block == block {
			return fill.Value
		}
	}
	t.Fatalf("block %q not filled on page", block)
	return ""
}

func letterTemplate() testsupport.PageSpec {
	return testsupport.PageSpec{
		Width:  612,
		Height: 792,
		Blocks: []pdfengine.Block{
			{Name: "salutation", Type: "text", Text: "Dear «name»,"},
			{Name: "photo", Type: "image", Text: "/img/«name».png"},
		},
	}
}

func TestMergeRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name,city",
		"Ada,London",
		"Grace,Arlington",
	)

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", letterTemplate())
	engine.AddFile("/img/Ada.png")
	engine.AddFile("/img/Grace.png")

	display := &recordingDisplay{}
	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, display)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	result, err := controller.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Outcome != progress.OutcomeSuccess {
		t.Fatalf("expected success, got %s", result.Outcome)
	}
	if result.Rows != 2 || result.Pages != 2 {
		t.Fatalf("unexpected totals: %d rows, %d pages", result.Rows, result.Pages)
	}

	want := filepath.Join(dir, "letters_1.pdf")
	if len(result.OutputFiles) != 1 || result.OutputFiles[0] != want {
		t.Fatalf("unexpected output files: %v", result.OutputFiles)
	}

	output := findOutput(t, engine, want)
	if !output.Finalized {
		t.Fatal("output document was not finalized")
	}
	if len(output.Pages) != 2 {
		t.Fatalf("expected 2 output pages, got %d", len(output.Pages))
	}

	first := output.Pages[0]
	if len(first.Images) == 0 || !strings.HasPrefix(first.Images[0], "capture:") {
		t.Fatalf("first page should carry the captured template background, got %v", first.Images)
	}
	if len(first.Attached) != 1 {
		t.Fatalf("template page should be attached, got %v", first.Attached)
	}
	if got := fillValue(t, first, "salutation"); got != "Dear Ada," {
		t.Fatalf("unexpected salutation: %q", got)
	}
	if got := fillValue(t, first, "photo"); got != "/img/Ada.png" {
		t.Fatalf("unexpected photo source: %q", got)
	}
	if got := fillValue(t, output.Pages[1], "salutation"); got != "Dear Grace," {
		t.Fatalf("unexpected salutation on second page: %q", got)
	}

	display.mu.Lock()
	defer display.mu.Unlock()
	if display.total != 2 || display.pages != 2 || !display.done {
		t.Fatalf("display saw total=%d pages=%d done=%v", display.total, display.pages, display.done)
	}
}

func TestMergeRunSplitsByPageLimit(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
		"Grace",
		"Edith",
	)

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", testsupport.PageSpec{
		Width:  612,
		Height: 792,
		Blocks: []pdfengine.Block{{Name: "salutation", Type: "text", Text: "«name»"}},
	})

	opts := merge.Options{
		InputPath:     input,
		OutputPath:    filepath.Join(dir, "letters.pdf"),
		TemplatePath:  "/tpl/letter.pdf",
		FilePageLimit: 1,
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	result, err := controller.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(result.OutputFiles) != 3 {
		t.Fatalf("expected 3 output files, got %v", result.OutputFiles)
	}

	names := []string{"Ada", "Grace", "Edith"}
	for i, path := range result.OutputFiles {
		wantPath := filepath.Join(dir, fmt.Sprintf("letters_%d.pdf", i+1))
		if path != wantPath {
			t.Fatalf("unexpected output name: %q", path)
		}
		output := findOutput(t, engine, path)
		if len(output.Pages) != 1 {
			t.Fatalf("file %d: expected 1 page, got %d", i+1, len(output.Pages))
		}
		if got := fillValue(t, output.Pages[0], "salutation"); got != names[i] {
			t.Fatalf("file %d: expected %q, got %q", i+1, names[i], got)
		}
	}
}

func TestMergeRunMissingColumnFails(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
	)

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", testsupport.PageSpec{
		Width:  612,
		Height: 792,
		Blocks: []pdfengine.Block{{Name: "salutation", Type: "text", Text: "«street»"}},
	})

	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	result, err := controller.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "column 'street' not found") {
		t.Fatalf("expected missing column error, got %v", err)
	}
	if result.Outcome != progress.OutcomeError {
		t.Fatalf("expected error outcome, got %s", result.Outcome)
	}
}

func TestMergeRunMissingImageWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
	)

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", letterTemplate())
	// /img/Ada.png deliberately absent.

	display := &recordingDisplay{}
	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, display)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	result, err := controller.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Outcome != progress.OutcomeSuccess {
		t.Fatalf("expected success despite missing image, got %s", result.Outcome)
	}

	warned := false
	for _, text := range display.warnings() {
		if strings.Contains(text, "/img/Ada.png") {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected a warning naming the missing image, got %v", display.warnings())
	}

	output := findOutput(t, engine, filepath.Join(dir, "letters_1.pdf"))
	for _, fill := range output.Pages[0].Fills {
		if fill.Block == "photo" {
			t.Fatal("missing image should leave the block unfilled")
		}
	}
}

func TestMergeRunCancellation(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
		"Grace",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", testsupport.PageSpec{
		Width:  612,
		Height: 792,
		Blocks: []pdfengine.Block{{Name: "salutation", Type: "text", Text: "«name»"}},
	})
	engine.OnBeginPage = func(string) { cancel() }

	display := &recordingDisplay{}
	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, display)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}

	result, err := controller.Run(ctx)
	if err != nil {
		t.Fatalf("cancellation must not surface as an error, got %v", err)
	}
	if result.Outcome != progress.OutcomeCancelled {
		t.Fatalf("expected cancelled outcome, got %s", result.Outcome)
	}

	shutdown := false
	for _, text := range display.warnings() {
		if text == "Shutting down" {
			shutdown = true
		}
	}
	if !shutdown {
		t.Fatalf("expected a shutdown warning, got %v", display.warnings())
	}

	// Partial output stays on disk but is finalized.
	output := findOutput(t, engine, filepath.Join(dir, "letters_1.pdf"))
	if !output.Finalized {
		t.Fatal("partial output should still be finalized")
	}
	if len(output.Pages) != 1 {
		t.Fatalf("expected the started page only, got %d", len(output.Pages))
	}
}

func TestMergeRunOMRSimplex(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
	)

	page := testsupport.PageSpec{Width: 612, Height: 792}
	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", page, page)

	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
		DrawOMR:      merge.OMRSimplex,
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	if _, err := controller.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	output := findOutput(t, engine, filepath.Join(dir, "letters_1.pdf"))
	// Gate plus start-of-collation on the row's first page, gate only after.
	if got := len(output.Pages[0].Lines); got != 2 {
		t.Fatalf("expected 2 marks on first page, got %d", got)
	}
	if got := len(output.Pages[1].Lines); got != 1 {
		t.Fatalf("expected 1 mark on second page, got %d", got)
	}
}

func TestMergeRunOMRDuplexSkipsBacks(t *testing.T) {
	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"name",
		"Ada",
	)

	page := testsupport.PageSpec{Width: 612, Height: 792}
	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", page, page)

	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
		DrawOMR:      merge.OMRDuplex,
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	if _, err := controller.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	output := findOutput(t, engine, filepath.Join(dir, "letters_1.pdf"))
	if got := len(output.Pages[0].Lines); got != 2 {
		t.Fatalf("expected 2 marks on the front, got %d", got)
	}
	if got := len(output.Pages[1].Lines); got != 0 {
		t.Fatalf("expected no marks on the back, got %d", got)
	}
}

func TestMergeRunBarcodeBlock(t *testing.T) {
	barcode.RegisterEncoder(barcode.KindQRCode, func(data string) (image.Image, error) {
		return image.NewGray(image.Rect(0, 0, 8, 8)), nil
	})

	dir := t.TempDir()
	input := testsupport.WriteCSV(t, dir,
		"account",
		"ACCT-001",
	)

	engine := testsupport.NewEngine()
	engine.AddDoc("/tpl/letter.pdf", testsupport.PageSpec{
		Width:  612,
		Height: 792,
		Blocks: []pdfengine.Block{{
			Name:       "code",
			Type:       "image",
			Text:       "«account»",
			Properties: map[string]string{"barcode": "qr_code"},
		}},
	})

	opts := merge.Options{
		InputPath:    input,
		OutputPath:   filepath.Join(dir, "letters.pdf"),
		TemplatePath: "/tpl/letter.pdf",
	}
	controller, err := merge.NewController(opts, engine, pdfengine.Settings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewController returned error: %v", err)
	}
	if _, err := controller.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	output := findOutput(t, engine, filepath.Join(dir, "letters_1.pdf"))
	got := fillValue(t, output.Pages[0], "code")
	if !strings.HasPrefix(got, "/pvf/barcode/") || !strings.HasSuffix(got, ".png") {
		t.Fatalf("barcode block should fill from a published raster, got %q", got)
	}
}
