package finshield

import "context"

// TableProvisioner creates the destination table when it is absent.
type TableProvisioner interface {
	// EnsureTable submits CREATE TABLE IF NOT EXISTS for the dataset's inferred schema.
	// An existing table is never altered, whatever its schema.
	EnsureTable(ctx context.Context, session Session, table string, ds *Dataset) error
}

// BulkLoader transfers a dataset into an existing table.
type BulkLoader interface {
	// BulkLoad sends the dataset in sequential chunks. On failure the returned
	// outcome (also carried by *LoadError) counts what was committed before it.
	BulkLoad(ctx context.Context, session Session, table string, ds *Dataset) (LoadOutcome, error)
}
