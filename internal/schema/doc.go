// Package schema derives a warehouse table definition from a dataset and
// provisions it with CREATE TABLE IF NOT EXISTS.
//
// # Type Mapping
//
// Each warehouse has a Dialect with a fixed, total mapping from semantic type
// to column type:
//
//	semantic    Snowflake       PostgreSQL
//	integer     NUMBER          BIGINT
//	float       FLOAT           DOUBLE PRECISION
//	boolean     BOOLEAN         BOOLEAN
//	timestamp   TIMESTAMP_NTZ   TIMESTAMP WITHOUT TIME ZONE
//	text        STRING          TEXT
//
// Anything outside the closed set maps to the text type.
//
// # Column Names
//
// Column names are normalized (trimmed, spaces to underscores, uppercased)
// and quoted. Two columns normalizing to the same name fail with
// *finshield.SchemaAmbiguityError before anything is sent to the warehouse.
//
// # Existing Tables
//
// An existing table is left untouched, whatever its columns. The inferred
// schema is not reconciled against it; an incompatible table surfaces later
// as a load error.
package schema
