package rowdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads a delimited file whose first record is the header. All values
// are treated as strings. Rows with no values at all are dropped; each drop
// is described in the returned warnings.
func Load(path string) (*Set, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open row data: %w", err)
	}
	defer f.Close()

	set, warnings, err := Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read row data %s: %w", path, err)
	}
	return set, warnings, nil
}

// Read parses delimited row data from r.
func Read(r io.Reader) (*Set, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("row data is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = FoldName(name)
	}

	set := &Set{Columns: columns}
	var warnings []string

	for ordinal := 1; ; ordinal++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse row %d: %w", ordinal, err)
		}

		values := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(record) {
				values[name] = record[i]
			} else {
				values[name] = ""
			}
		}

		row := Row{Ordinal: ordinal, columns: values}
		if row.Empty() {
			warnings = append(warnings, fmt.Sprintf("row %d has no values and was dropped", ordinal))
			continue
		}
		set.Rows = append(set.Rows, row)
	}

	return set, warnings, nil
}
