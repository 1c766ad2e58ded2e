package merge

import (
	"fmt"
	"regexp"
	"strings"

	"gopress/internal/rowdata"
)

var (
	fieldPattern   = regexp.MustCompile("«(.*?)»")
	newlinePattern = regexp.MustCompile(`(\r\n|\r|\n)+`)
)

// FieldError reports a merge field referencing a column the row does not
// have.
type FieldError struct {
	Column string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("column '%s' not found in data", e.Column)
}

// SubstituteFields replaces every «name» placeholder in text with the row's
// value for the case-folded column name, collapses repeated line breaks, and
// trims surrounding whitespace. A placeholder naming an unknown column
// yields a FieldError. An empty result becomes a single space so the engine
// does not skip or shrink the block.
func SubstituteFields(text string, row rowdata.Row) (string, error) {
	var missing *FieldError

	replaced := fieldPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "«"), "»")
		value, ok := row.Value(name)
		if !ok {
			if missing == nil {
				missing = &FieldError{Column: rowdata.FoldName(name)}
			}
			return match
		}
		return value
	})
	if missing != nil {
		return "", missing
	}

	replaced = newlinePattern.ReplaceAllString(replaced, "\n")
	replaced = strings.TrimSpace(replaced)

	if replaced == "" {
		// Avoid an empty block so the engine is forced to fill it.
		return " ", nil
	}
	return replaced, nil
}
