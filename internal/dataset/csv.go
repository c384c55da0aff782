package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/finshield/pkg/finshield"
)

// ReadCSV reads a header row and data rows from r and infers column types.
func ReadCSV(r io.Reader) (*finshield.Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row: %w", finshield.ErrInvalidDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %v: %w", err, finshield.ErrInvalidDataset)
	}

	cells := make([][]string, len(header))
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %v: %w", err, finshield.ErrInvalidDataset)
		}
		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}
	}

	columns := make([]finshield.Column, len(header))
	for i, name := range header {
		typ := InferType(cells[i])
		columns[i] = finshield.Column{
			Name:   strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")),
			Type:   typ,
			Values: Convert(cells[i], typ),
		}
	}

	return finshield.NewDataset(columns...)
}

// ReadCSVFile reads the CSV file at path.
func ReadCSVFile(path string) (*finshield.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// WriteCSV writes ds with a header row.
func WriteCSV(w io.Writer, ds *finshield.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return err
	}

	record := make([]string, len(ds.Columns))
	for i := 0; i < ds.Len(); i++ {
		for j, c := range ds.Columns {
			record[j] = format(c.Values[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes ds to path, creating parent directories.
func WriteCSVFile(path string, ds *finshield.Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
