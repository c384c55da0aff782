package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/finshield/pkg/finshield"
)

var (
	plainIdentifier  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
	quotedIdentifier = regexp.MustCompile(`^"(?:[^"]|"")+"$`)
)

// NormalizeColumnName trims whitespace, replaces spaces with underscores and uppercases.
func NormalizeColumnName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// NormalizeColumns returns the normalized name of every column in order.
// Columns whose names collide after normalization produce a *finshield.SchemaAmbiguityError.
func NormalizeColumns(table string, ds *finshield.Dataset) ([]string, error) {
	normalized := make([]string, len(ds.Columns))
	sources := make(map[string][]string, len(ds.Columns))

	for i, c := range ds.Columns {
		n := NormalizeColumnName(c.Name)
		if n == "" {
			return nil, fmt.Errorf("column %d has a blank name", i+1)
		}
		normalized[i] = n
		sources[n] = append(sources[n], c.Name)
	}

	collisions := make(map[string][]string)
	for n, names := range sources {
		if len(names) > 1 {
			collisions[n] = names
		}
	}
	if len(collisions) > 0 {
		return nil, &finshield.SchemaAmbiguityError{Table: table, Collisions: collisions}
	}

	return normalized, nil
}

// ValidateTableName accepts TABLE, SCHEMA.TABLE and DB.SCHEMA.TABLE where each
// part is a plain identifier or a double-quoted identifier. The name is used
// verbatim in statements, so anything else is rejected.
func ValidateTableName(table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("table name is empty")
	}

	parts := splitQualified(table)
	if len(parts) > 3 {
		return fmt.Errorf("table name %q has more than three parts", table)
	}
	for _, p := range parts {
		if !plainIdentifier.MatchString(p) && !quotedIdentifier.MatchString(p) {
			return fmt.Errorf("malformed identifier %q in table name %q", p, table)
		}
	}
	return nil
}

// splitQualified splits on dots outside double quotes.
func splitQualified(name string) []string {
	var parts []string
	var b strings.Builder
	inQuotes := false
	for _, r := range name {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			b.WriteRune(r)
		case r == '.' && !inQuotes:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	return append(parts, b.String())
}

// TablePart is one dot-separated part of a table name.
type TablePart struct {
	Name   string // unquoted text
	Quoted bool   // written as a double-quoted identifier
}

// TableParts splits a validated table name into its parts, unquoting quoted ones.
func TableParts(table string) []TablePart {
	raw := splitQualified(table)
	parts := make([]TablePart, len(raw))
	for i, p := range raw {
		if quotedIdentifier.MatchString(p) {
			parts[i] = TablePart{Name: strings.ReplaceAll(p[1:len(p)-1], `""`, `"`), Quoted: true}
		} else {
			parts[i] = TablePart{Name: p}
		}
	}
	return parts
}
