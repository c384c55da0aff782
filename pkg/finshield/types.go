package finshield

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend selects the warehouse implementation.
type Backend int

const (
	BackendSnowflake Backend = iota
	BackendPostgres
)

// String returns a human-readable string representation of the Backend.
func (b Backend) String() string {
	switch b {
	case BackendSnowflake:
		return "snowflake"
	case BackendPostgres:
		return "postgres"
	default:
		return fmt.Sprintf("unknown(%d)", int(b))
	}
}

// IsValid returns true if the Backend is a valid, defined value.
func (b Backend) IsValid() bool {
	return b >= BackendSnowflake && b <= BackendPostgres
}

// ParseBackend converts a backend name into a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "snowflake", "sf":
		return BackendSnowflake, nil
	case "postgres", "postgresql", "pg":
		return BackendPostgres, nil
	default:
		return 0, fmt.Errorf("%q: %w", name, ErrUnsupportedBackend)
	}
}

// WarehouseConfig holds everything needed to open a warehouse session.
// It is built explicitly by the config layer and passed to the connector.
type WarehouseConfig struct {
	Backend Backend

	// Snowflake
	Account   string
	User      string
	Password  string
	Warehouse string
	Database  string
	Schema    string
	Role      string

	// PostgreSQL connection string (URI or key=value form)
	ConnectionString string

	// QueryTag labels every statement of the session (Snowflake QUERY_TAG,
	// PostgreSQL application_name).
	QueryTag string

	LoginTimeout   time.Duration
	RequestTimeout time.Duration
}

// Validate checks if the WarehouseConfig has all required fields for its backend.
// It returns a multi-error if multiple validation failures occur.
func (c *WarehouseConfig) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendSnowflake:
		if c.Account == "" {
			errs = append(errs, fmt.Errorf("snowflake account is required: %w", ErrInvalidConfig))
		}
		if c.User == "" {
			errs = append(errs, fmt.Errorf("snowflake user is required: %w", ErrInvalidConfig))
		}
		if c.Password == "" {
			errs = append(errs, fmt.Errorf("snowflake password is required: %w", ErrInvalidConfig))
		}
	case BackendPostgres:
		if c.ConnectionString == "" {
			errs = append(errs, fmt.Errorf("postgres connection string is required: %w", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("backend %s: %w", c.Backend, ErrUnsupportedBackend))
	}

	if c.LoginTimeout < 0 || c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("timeouts cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Redacted returns connection parameters that are safe to log.
func (c *WarehouseConfig) Redacted() map[string]string {
	params := map[string]string{"backend": c.Backend.String()}
	if c.Backend == BackendPostgres {
		params["connection"] = redactConnectionString(c.ConnectionString)
		return params
	}
	params["account"] = c.Account
	params["user"] = c.User
	for k, v := range map[string]string{"warehouse": c.Warehouse, "database": c.Database, "schema": c.Schema, "role": c.Role} {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

func redactConnectionString(connStr string) string {
	at := strings.LastIndex(connStr, "@")
	scheme := strings.Index(connStr, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return connStr
	}
	creds := connStr[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return connStr[:scheme+3] + creds + connStr[at:]
}

// ChunkPolicy controls how the bulk loader partitions a dataset.
type ChunkPolicy struct {
	// DirectLoadThreshold: datasets with at most this many rows go as one chunk.
	DirectLoadThreshold int
	// ChunkSize is the number of rows per chunk above the threshold.
	ChunkSize int
	// LargeDatasetWarnRows: above this the direct path is reported as a poor fit.
	LargeDatasetWarnRows int
}

// DefaultChunkPolicy returns the policy used when nothing is configured.
func DefaultChunkPolicy() ChunkPolicy {
	return ChunkPolicy{
		DirectLoadThreshold:  DefaultDirectLoadThreshold,
		ChunkSize:            DefaultChunkSize,
		LargeDatasetWarnRows: DefaultLargeDatasetWarnRows,
	}
}

// Validate rejects negative values and a zero chunk size.
func (p ChunkPolicy) Validate() error {
	var errs []error
	if p.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d: %w", p.ChunkSize, ErrInvalidConfig))
	}
	if p.DirectLoadThreshold < 0 {
		errs = append(errs, fmt.Errorf("direct load threshold cannot be negative: %w", ErrInvalidConfig))
	}
	if p.LargeDatasetWarnRows < 0 {
		errs = append(errs, fmt.Errorf("large dataset warning threshold cannot be negative: %w", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// LoadConfig contains all parameters needed for one load run.
type LoadConfig struct {
	Warehouse WarehouseConfig
	Table     string
	Policy    ChunkPolicy

	// Verify re-reads the destination row count after the load.
	Verify bool

	// DryRun prints the provisioning statement and chunk plan without connecting.
	DryRun bool

	// Timeout bounds the whole run.
	Timeout time.Duration

	Verbose bool
}

// Validate checks the LoadConfig and its nested warehouse config and policy.
func (c *LoadConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Table) == "" {
		errs = append(errs, fmt.Errorf("table name is required: %w", ErrInvalidConfig))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}
	if err := c.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !c.DryRun {
		if err := c.Warehouse.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
