package merge

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopress/internal/pdfengine"
	"gopress/internal/rowdata"
)

// resolvedRow pairs a row with its template document and page count.
type resolvedRow struct {
	row          rowdata.Row
	templatePath string
	pageCount    int
}

// resolveTemplates attaches a template path and page count to every row.
// Page counts are memoized per distinct path, so each unique document is
// opened exactly once regardless of row count. If any resolved template
// cannot be opened, resolution fails with the full list before any worker
// starts.
func resolveTemplates(session pdfengine.Session, set *rowdata.Set, opts Options) ([]resolvedRow, error) {
	counts := make(map[string]int)
	var notFound []string
	seenMissing := make(map[string]bool)

	pageCount := func(path string) (int, bool) {
		if count, ok := counts[path]; ok {
			return count, true
		}
		if seenMissing[path] {
			return 0, false
		}
		doc, err := session.OpenDocument(path)
		if err != nil {
			seenMissing[path] = true
			notFound = append(notFound, path)
			return 0, false
		}
		count, err := session.PageCount(doc)
		session.CloseDocument(doc)
		if err != nil {
			seenMissing[path] = true
			notFound = append(notFound, path)
			return 0, false
		}
		counts[path] = count
		return count, true
	}

	resolved := make([]resolvedRow, 0, set.Len())
	for _, row := range set.Rows {
		path, err := templatePathForRow(row, opts)
		if err != nil {
			return nil, err
		}
		count, ok := pageCount(path)
		if !ok {
			continue
		}
		resolved = append(resolved, resolvedRow{row: row, templatePath: path, pageCount: count})
	}

	if len(notFound) > 0 {
		sort.Strings(notFound)
		return nil, fmt.Errorf("templates not found: %s", strings.Join(notFound, ", "))
	}
	return resolved, nil
}

// templatePathForRow resolves the template document for one row. With a
// variable column the value names a file inside the template directory,
// gaining a .pdf extension unless it already carries one.
func templatePathForRow(row rowdata.Row, opts Options) (string, error) {
	if opts.VariableColumn == "" {
		return opts.TemplatePath, nil
	}

	value, ok := row.Value(opts.VariableColumn)
	if !ok {
		return "", fmt.Errorf("variable column '%s' not found in data", rowdata.FoldName(opts.VariableColumn))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("row %d has no value in variable column '%s'", row.Ordinal, rowdata.FoldName(opts.VariableColumn))
	}
	if !strings.HasSuffix(strings.ToLower(value), ".pdf") {
		value += ".pdf"
	}
	return filepath.Join(opts.TemplatePath, value), nil
}
