package finshield

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or unsupported backend
	ExitConnectionError = 11 // Failed to connect to the warehouse
	ExitSchemaAmbiguity = 12 // Column names collide after normalization
	ExitProvisionFailed = 13 // CREATE TABLE IF NOT EXISTS failed
	ExitLoadFailed      = 14 // Bulk transfer failed (possibly partially committed)
	ExitDatasetError    = 15 // Input dataset is malformed
)

const (
	// DefaultTableName is the destination table used when none is given.
	DefaultTableName = "TRANSACTIONS"

	// DefaultCSVPath is the input file used by the load command when none is given.
	DefaultCSVPath = "data/transactions_sample.csv"

	// DefaultDirectLoadThreshold is the row count up to which a dataset is sent as one chunk.
	DefaultDirectLoadThreshold = 10_000

	// DefaultChunkSize is the number of rows per chunk above the direct-load threshold.
	// Kept well under Snowflake's single-request payload limit for typical row widths.
	DefaultChunkSize = 16_384

	// DefaultLargeDatasetWarnRows is the row count above which the direct insert path
	// is reported as a poor fit and a staged COPY is recommended.
	DefaultLargeDatasetWarnRows = 1_000_000

	// DefaultLoadTimeout bounds a whole load run (connect, provision, transfer).
	DefaultLoadTimeout = 30 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first connect retry.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between connect retries.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of connect retries.
	DefaultRetryMaxAttempts = 3

	// DefaultSnowflakeSchema is used when no schema is configured.
	DefaultSnowflakeSchema = "PUBLIC"

	// ApplicationName identifies load sessions on the warehouse side.
	ApplicationName = "finshield"
)
