// package formatter serializes collected datasets (CSV files, JSON for terminal output)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/trackset/internal/models"
)

// ExportToCSV converts a Dataset to CSV. The header is the dataset's column union; missing fields are empty cells.
func ExportToCSV(ds *models.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV streams a Dataset as CSV into w.
func WriteCSV(w io.Writer, ds *models.Dataset) error {
	writer := csv.NewWriter(w)

	cols := ds.Columns()
	if len(cols) == 0 {
		return nil
	}
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range ds.Rows() {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// WriteDatasetCSV writes a Dataset to path, creating parent directories as needed.
func WriteDatasetCSV(ds *models.Dataset, path string) error {
	if path == "" {
		return fmt.Errorf("empty output path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	csvData, err := ExportToCSV(ds)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, csvData, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// Table is a CSV file read back into memory.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Get returns the cell for column name in row i, or "" when the column does not exist.
func (t *Table) Get(i int, name string) string {
	for j, c := range t.Columns {
		if c == name && i < len(t.Rows) && j < len(t.Rows[i]) {
			return t.Rows[i][j]
		}
	}
	return ""
}

// ReadDatasetCSV reads a CSV file written by [WriteDatasetCSV].
func ReadDatasetCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV file: %w", err)
	}

	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

// RecommendationsPath derives the sibling file used for the recommendations dataset, e.g.
// data/raw/tracks.csv -> data/raw/tracks_recommendations.csv
func RecommendationsPath(output string) string {
	ext := filepath.Ext(output)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "_recommendations" + ext
}

// MarshalJSON encodes v as JSON, indented when pretty is set.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
