package finshield

import (
	"fmt"
	"time"
)

// SemanticType is the closed set of column types a Dataset can carry.
type SemanticType int

const (
	TypeText      SemanticType = iota // Strings and anything mixed or unrecognized
	TypeInteger                       // int64
	TypeFloat                         // float64
	TypeBoolean                       // bool
	TypeTimestamp                     // time.Time, no time zone semantics
)

// String returns a human-readable string representation of the SemanticType.
func (t SemanticType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	case TypeText:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// IsValid returns true if the SemanticType is a defined value.
func (t SemanticType) IsValid() bool {
	return t >= TypeText && t <= TypeTimestamp
}

// Column is a named, typed column. Values hold nil for NULL or the Go value
// of the column's type: int64, float64, bool, time.Time or string.
type Column struct {
	Name   string
	Type   SemanticType
	Values []any
}

// Dataset is an ordered collection of columns with a uniform row count.
//
// Thread-Safety: read-only use is safe from multiple goroutines; the loader
// never mutates a Dataset.
type Dataset struct {
	Columns []Column
}

// NewDataset creates a Dataset from columns and validates it.
func NewDataset(columns ...Column) (*Dataset, error) {
	ds := &Dataset{Columns: columns}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Len returns the number of rows. A dataset without columns has zero rows.
func (d *Dataset) Len() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []any {
	row := make([]any, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// Rows materializes rows [lo, hi) in order.
func (d *Dataset) Rows(lo, hi int) [][]any {
	rows := make([][]any, 0, hi-lo)
	for i := lo; i < hi; i++ {
		rows = append(rows, d.Row(i))
	}
	return rows
}

// Validate checks the dataset invariants: unique column names, defined types,
// uniform row count and values matching the declared column type.
func (d *Dataset) Validate() error {
	if d == nil {
		return fmt.Errorf("dataset is nil: %w", ErrInvalidDataset)
	}

	seen := make(map[string]bool, len(d.Columns))
	rows := d.Len()
	for _, c := range d.Columns {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q: %w", c.Name, ErrInvalidDataset)
		}
		seen[c.Name] = true

		if !c.Type.IsValid() {
			return fmt.Errorf("column %q has undefined type %s: %w", c.Name, c.Type, ErrInvalidDataset)
		}
		if len(c.Values) != rows {
			return fmt.Errorf("column %q has %d rows, expected %d: %w", c.Name, len(c.Values), rows, ErrInvalidDataset)
		}
		for i, v := range c.Values {
			if !valueMatches(c.Type, v) {
				return fmt.Errorf("column %q row %d: %T is not a %s value: %w", c.Name, i, v, c.Type, ErrInvalidDataset)
			}
		}
	}
	return nil
}

func valueMatches(t SemanticType, v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case TypeInteger:
		_, ok := v.(int64)
		return ok
	case TypeFloat:
		_, ok := v.(float64)
		return ok
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeTimestamp:
		_, ok := v.(time.Time)
		return ok
	default:
		_, ok := v.(string)
		return ok
	}
}

// LoadOutcome is the result of one bulk load call.
type LoadOutcome struct {
	Success    bool
	ChunkCount int
	RowCount   int64
}

// String formats the outcome the way it is reported on the console.
func (o LoadOutcome) String() string {
	return fmt.Sprintf("success=%t nchunks=%d nrows=%d", o.Success, o.ChunkCount, o.RowCount)
}
