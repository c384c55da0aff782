package schema

import (
	"fmt"
	"strings"

	"github.com/vvka-141/finshield/pkg/finshield"
)

const createTableSQL = "CREATE TABLE IF NOT EXISTS %s (%s)"

// ColumnDef is one column clause of the generated statement.
type ColumnDef struct {
	Source string // column name as it appears in the dataset
	Name   string // normalized destination name
	Type   string // warehouse type
}

// InferColumns maps every dataset column to its destination name and type,
// preserving dataset order.
func InferColumns(d finshield.Dialect, table string, ds *finshield.Dataset) ([]ColumnDef, error) {
	names, err := NormalizeColumns(table, ds)
	if err != nil {
		return nil, err
	}

	defs := make([]ColumnDef, len(ds.Columns))
	for i, c := range ds.Columns {
		defs[i] = ColumnDef{Source: c.Name, Name: names[i], Type: d.TypeName(c.Type)}
	}
	return defs, nil
}

// BuildCreateTable renders the CREATE TABLE IF NOT EXISTS statement for ds.
// The table name is validated and used verbatim; column names are normalized and quoted.
func BuildCreateTable(d finshield.Dialect, table string, ds *finshield.Dataset) (string, error) {
	stmt, _, err := buildCreateTable(d, table, ds)
	return stmt, err
}

func buildCreateTable(d finshield.Dialect, table string, ds *finshield.Dataset) (string, []ColumnDef, error) {
	if err := ValidateTableName(table); err != nil {
		return "", nil, err
	}
	if ds == nil || len(ds.Columns) == 0 {
		return "", nil, fmt.Errorf("dataset has no columns")
	}

	defs, err := InferColumns(d, table, ds)
	if err != nil {
		return "", nil, err
	}

	clauses := make([]string, len(defs))
	for i, def := range defs {
		clauses[i] = d.QuoteIdentifier(def.Name) + " " + def.Type
	}
	return fmt.Sprintf(createTableSQL, table, strings.Join(clauses, ", ")), defs, nil
}
