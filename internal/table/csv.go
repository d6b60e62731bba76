package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ErrNotFound is returned when a CSV file to be read does not exist.
var ErrNotFound = errors.New("file not found")

const utf8BOM = "\ufeff"

// SchemaError reports a CSV file that lacks one of the recognised columns.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("file %s doesn't have the %s column", e.Path, e.Column)
}

// LoadCSV reads a CSV file into a new table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, path)
}

// ReadCSV parses CSV data with a header row. Header names are matched
// case-insensitively; extra columns are ignored and row order is kept.
// source names the input in a SchemaError.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Path: source, Column: Columns[0]}
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.ToLower(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	positions := make([]int, len(Columns))
	for i, column := range Columns {
		pos, ok := index[column]
		if !ok {
			return nil, &SchemaError{Path: source, Column: column}
		}
		positions[i] = pos
	}

	t := New()
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}

		cell := func(column int) string {
			pos := positions[column]
			if pos >= len(fields) {
				return ""
			}
			return fields[pos]
		}
		t.Append(Record{
			Name:     cell(0),
			URL:      cell(1),
			Username: cell(2),
			Password: cell(3),
		})
	}

	return t, nil
}

// WriteCSV writes the table with exactly the recognised columns, in order.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, r := range t.rows {
		if err := writer.Write(r.Fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the table to path, replacing any existing file.
func (t *Table) SaveCSV(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
