package schema

import (
	"strings"

	"github.com/vvka-141/finshield/pkg/finshield"
)

type dialect struct {
	name  string
	types map[finshield.SemanticType]string
	text  string
}

func (d *dialect) Name() string { return d.name }

// TypeName falls back to the text type for anything unmapped.
func (d *dialect) TypeName(t finshield.SemanticType) string {
	if name, ok := d.types[t]; ok {
		return name
	}
	return d.text
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
// Both Snowflake and PostgreSQL follow the SQL standard here.
func (d *dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Snowflake is the dialect of the Snowflake warehouse.
var Snowflake finshield.Dialect = &dialect{
	name: "snowflake",
	types: map[finshield.SemanticType]string{
		finshield.TypeInteger:   "NUMBER",
		finshield.TypeFloat:     "FLOAT",
		finshield.TypeBoolean:   "BOOLEAN",
		finshield.TypeTimestamp: "TIMESTAMP_NTZ",
		finshield.TypeText:      "STRING",
	},
	text: "STRING",
}

// Postgres is the dialect of PostgreSQL.
var Postgres finshield.Dialect = &dialect{
	name: "postgres",
	types: map[finshield.SemanticType]string{
		finshield.TypeInteger:   "BIGINT",
		finshield.TypeFloat:     "DOUBLE PRECISION",
		finshield.TypeBoolean:   "BOOLEAN",
		finshield.TypeTimestamp: "TIMESTAMP WITHOUT TIME ZONE",
		finshield.TypeText:      "TEXT",
	},
	text: "TEXT",
}

// DialectFor returns the dialect of backend. Unknown backends get Snowflake.
func DialectFor(b finshield.Backend) finshield.Dialect {
	if b == finshield.BackendPostgres {
		return Postgres
	}
	return Snowflake
}
