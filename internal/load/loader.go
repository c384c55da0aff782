package load

import (
	"context"
	"fmt"

	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// Loader implements finshield.BulkLoader.
// Holds no per-call state and is safe for concurrent use on different sessions.
type Loader struct {
	policy finshield.ChunkPolicy
	logger finshield.Logger
}

// NewLoader creates a Loader with the given chunk policy.
//
// Panics if logger is nil or the policy is invalid.
func NewLoader(policy finshield.ChunkPolicy, logger finshield.Logger) *Loader {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if err := policy.Validate(); err != nil {
		panic(fmt.Sprintf("invalid chunk policy: %v", err))
	}
	return &Loader{policy: policy, logger: logger}
}

// BulkLoad appends every row of ds to table, which must already exist.
//
// Column names are normalized the same way the provisioner normalizes them,
// so a table created by EnsureTable accepts the rows unchanged.
func (l *Loader) BulkLoad(ctx context.Context, session finshield.Session, table string, ds *finshield.Dataset) (finshield.LoadOutcome, error) {
	if ds == nil {
		return finshield.LoadOutcome{Success: true}, nil
	}
	if err := ds.Validate(); err != nil {
		return finshield.LoadOutcome{}, &finshield.LoadError{Table: table, Err: err}
	}
	if ds.Len() == 0 {
		l.logger.Verbose("Dataset is empty, nothing to load into %s", table)
		return finshield.LoadOutcome{Success: true}, nil
	}

	columns, err := schema.NormalizeColumns(table, ds)
	if err != nil {
		return finshield.LoadOutcome{}, &finshield.LoadError{Table: table, Err: err}
	}

	n := ds.Len()
	if l.policy.LargeDatasetWarnRows > 0 && n > l.policy.LargeDatasetWarnRows {
		l.logger.Warn("%d rows exceed the direct insert threshold of %d; consider staging the file and using COPY INTO", n, l.policy.LargeDatasetWarnRows)
	}

	chunks := Plan(n, l.policy)
	l.logger.Verbose("Loading %d rows into %s in %d chunk(s)", n, table, len(chunks))

	var outcome finshield.LoadOutcome
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return outcome, &finshield.LoadError{Table: table, Outcome: outcome, FailedChunk: i + 1, Err: err}
		}

		written, err := session.InsertRows(ctx, table, columns, ds.Rows(c.Lo, c.Hi))
		if err != nil {
			l.logger.Error("Chunk %d/%d failed after %d rows committed", i+1, len(chunks), outcome.RowCount)
			return outcome, &finshield.LoadError{Table: table, Outcome: outcome, FailedChunk: i + 1, Err: err}
		}

		outcome.ChunkCount++
		outcome.RowCount += written
		l.logger.Verbose("Chunk %d/%d: %d rows", i+1, len(chunks), written)
	}

	outcome.Success = true
	return outcome, nil
}

// Verify Loader implements the BulkLoader interface at compile time
var _ finshield.BulkLoader = (*Loader)(nil)
