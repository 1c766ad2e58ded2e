package main

import "testing"

func TestParseImposeArgs(t *testing.T) {
	inputs, outputDir, opts, err := parseImposeArgs([]string{
		"a.pdf", "b.pdf", "/out", "2", "3", "17", "11",
	})
	if err != nil {
		t.Fatalf("parseImposeArgs returned error: %v", err)
	}
	if len(inputs) != 2 || inputs[0] != "a.pdf" || inputs[1] != "b.pdf" {
		t.Fatalf("unexpected inputs: %v", inputs)
	}
	if outputDir != "/out" {
		t.Fatalf("unexpected output dir: %q", outputDir)
	}
	if opts.Rows != 2 || opts.Columns != 3 {
		t.Fatalf("unexpected grid: %dx%d", opts.Rows, opts.Columns)
	}
	if opts.SheetWidth != 17 || opts.SheetHeight != 11 {
		t.Fatalf("unexpected sheet: %gx%g", opts.SheetWidth, opts.SheetHeight)
	}
}

func TestParseImposeArgsRejectsNonNumeric(t *testing.T) {
	_, _, _, err := parseImposeArgs([]string{"a.pdf", "/out", "two", "2", "17", "11"})
	if err == nil {
		t.Fatal("expected error for non-numeric rows")
	}
}

func TestPairInches(t *testing.T) {
	w, h, err := pairInches("gutter", nil)
	if err != nil || w != 0 || h != 0 {
		t.Fatalf("nil: %g %g %v", w, h, err)
	}

	w, h, err = pairInches("gutter", []float64{0.5})
	if err != nil || w != 0.5 || h != 0.5 {
		t.Fatalf("single: %g %g %v", w, h, err)
	}

	w, h, err = pairInches("gutter", []float64{0.5, 0.25})
	if err != nil || w != 0.5 || h != 0.25 {
		t.Fatalf("pair: %g %g %v", w, h, err)
	}

	if _, _, err := pairInches("gutter", []float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for three values")
	}
}
