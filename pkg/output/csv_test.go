package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
)

func TestCSVFormatter_Format(t *testing.T) {
	f := NewCSVFormatter(FormatOptions{Mode: DisplayConcise})
	if f.Name() != "csv" {
		t.Errorf("Name() = %q, want %q", f.Name(), "csv")
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	want := [][]string{
		{"file", "line", "state", "date", "description"},
		{"./file.rs", "3", "valid", "2024-01-15", "Valid TODO on line 3"},
		{"./file.rs", "5", "overdue", "2024-01-01", "Expired TODO on line 5"},
		{"./file.rs", "7", "malformed", "", "XX is not a valid date."},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Errorf("rows[%d][%d] = %q, want %q", i, j, rows[i][j], want[i][j])
			}
		}
	}
}
