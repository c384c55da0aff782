// Package dataset reads and writes finshield datasets as CSV.
//
// The first record is the header. Column names are trimmed; empty cells are
// NULL. Each column gets the first type every non-empty cell parses as, trying
// integer, float, boolean and timestamp in that order, and falls back to text.
// A column with no non-empty cell is text.
package dataset
