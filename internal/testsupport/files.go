package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCSV writes delimited row data into dir and returns the file path.
// Lines are joined with newlines; a trailing newline is added.
func WriteCSV(t testing.TB, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "input.csv")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv %s: %v", path, err)
	}
	return path
}
