package finshield

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	outcome, err := loader.BulkLoad(ctx, session, "TRANSACTIONS", ds)
//	if errors.Is(err, finshield.ErrLoadFailed) {
//	    // outcome still reports the rows committed before the failure
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the warehouse connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedBackend indicates the requested warehouse backend is not supported.
	ErrUnsupportedBackend = errors.New("unsupported warehouse backend")

	// ErrInvalidDataset indicates the dataset violates its shape invariants.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrSchemaAmbiguity indicates two or more columns normalize to the same destination name.
	ErrSchemaAmbiguity = errors.New("schema ambiguity")

	// ErrProvisionFailed indicates the destination table could not be provisioned.
	ErrProvisionFailed = errors.New("table provisioning failed")

	// ErrLoadFailed indicates the bulk transfer failed.
	ErrLoadFailed = errors.New("bulk load failed")
)

// ProvisionError reports a failed CREATE TABLE IF NOT EXISTS.
// The existence of the table afterwards is unspecified; nothing is rolled back.
type ProvisionError struct {
	Table     string
	Statement string // empty when validation failed before a statement was built
	Err       error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("failed to provision table %s: %v", e.Table, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// Is makes every ProvisionError match ErrProvisionFailed.
func (e *ProvisionError) Is(target error) bool { return target == ErrProvisionFailed }

// SchemaAmbiguityError is returned when dataset column names collide after
// normalization. It is detected before any statement reaches the warehouse.
type SchemaAmbiguityError struct {
	Table string
	// Collisions maps a normalized column name to the source names producing it.
	Collisions map[string][]string
}

func (e *SchemaAmbiguityError) Error() string {
	names := make([]string, 0, len(e.Collisions))
	for normalized := range e.Collisions {
		names = append(names, normalized)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, normalized := range names {
		parts = append(parts, fmt.Sprintf("%s <- [%s]", normalized, strings.Join(e.Collisions[normalized], ", ")))
	}
	return fmt.Sprintf("ambiguous columns for table %s: %s", e.Table, strings.Join(parts, "; "))
}

// Is matches both ErrSchemaAmbiguity and ErrProvisionFailed, since ambiguity
// is a provisioning failure detected early.
func (e *SchemaAmbiguityError) Is(target error) bool {
	return target == ErrSchemaAmbiguity || target == ErrProvisionFailed
}

// LoadError reports a bulk transfer that stopped part way.
// Outcome holds the chunks and rows committed before the failure.
type LoadError struct {
	Table       string
	Outcome     LoadOutcome
	FailedChunk int // 1-based index of the chunk that failed, 0 if none was attempted
	Err         error
}

func (e *LoadError) Error() string {
	if e.FailedChunk == 0 {
		return fmt.Sprintf("failed to load into %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("failed to load into %s at chunk %d (%d rows in %d chunks committed): %v",
		e.Table, e.FailedChunk, e.Outcome.RowCount, e.Outcome.ChunkCount, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is makes every LoadError match ErrLoadFailed.
func (e *LoadError) Is(target error) bool { return target == ErrLoadFailed }

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Ambiguity first: it also matches ErrProvisionFailed.
	switch {
	case errors.Is(err, ErrSchemaAmbiguity):
		return ExitSchemaAmbiguity
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedBackend):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrProvisionFailed):
		return ExitProvisionFailed
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	case errors.Is(err, ErrInvalidDataset):
		return ExitDatasetError
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError recognizes cobra's argument and flag parsing errors.
func isUsageError(msg string) bool {
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return strings.HasPrefix(msg, "accepts ") && strings.Contains(msg, "arg(s)") ||
		strings.HasPrefix(msg, "required flag")
}
