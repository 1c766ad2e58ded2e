package merge

import (
	"errors"
	"testing"

	"gopress/internal/rowdata"
)

func row(values map[string]string) rowdata.Row {
	return rowdata.NewRow(1, values)
}

func TestSubstituteFieldsReplacesPlaceholders(t *testing.T) {
	r := row(map[string]string{"name": "Ada", "city": "London"})

	got, err := SubstituteFields("Dear «name» of «city»,", r)
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != "Dear Ada of London," {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestSubstituteFieldsFoldsColumnNames(t *testing.T) {
	r := row(map[string]string{"Name": "Ada"})

	got, err := SubstituteFields("«NAME»", r)
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != "Ada" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestSubstituteFieldsMissingColumn(t *testing.T) {
	r := row(map[string]string{"name": "Ada"})

	_, err := SubstituteFields("«name» «Street»", r)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Column != "street" {
		t.Fatalf("error should carry the folded column name, got %q", fieldErr.Column)
	}
}

func TestSubstituteFieldsFirstMissingColumnWins(t *testing.T) {
	r := row(map[string]string{})

	_, err := SubstituteFields("«alpha» «beta»", r)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fieldErr.Column != "alpha" {
		t.Fatalf("expected first missing column, got %q", fieldErr.Column)
	}
}

func TestSubstituteFieldsCollapsesLineBreaks(t *testing.T) {
	r := row(map[string]string{"a": "x", "b": "y"})

	got, err := SubstituteFields("«a»\r\n\r\n\n«b»", r)
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != "x\ny" {
		t.Fatalf("line breaks not collapsed: %q", got)
	}
}

func TestSubstituteFieldsTrimsWhitespace(t *testing.T) {
	r := row(map[string]string{"a": "  padded  "})

	got, err := SubstituteFields("  «a»  ", r)
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != "padded" {
		t.Fatalf("whitespace not trimmed: %q", got)
	}
}

func TestSubstituteFieldsEmptyResultBecomesSpace(t *testing.T) {
	r := row(map[string]string{"a": ""})

	got, err := SubstituteFields("«a»", r)
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != " " {
		t.Fatalf("empty result should be a single space, got %q", got)
	}
}

func TestSubstituteFieldsNoPlaceholders(t *testing.T) {
	got, err := SubstituteFields("plain text", row(nil))
	if err != nil {
		t.Fatalf("SubstituteFields returned error: %v", err)
	}
	if got != "plain text" {
		t.Fatalf("unexpected result: %q", got)
	}
}
