package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vvka-141/finshield/pkg/finshield"
)

// Overrides holds values given on the command line. Empty strings, a zero
// Timeout and nil pointers mean "not set".
type Overrides struct {
	Backend         string
	Connection      string
	Table           string
	ChunkSize       *int
	DirectThreshold *int
	Timeout         time.Duration
	Verify          *bool
	DryRun          bool
	Verbose         bool
}

// Resolve merges flags, environment, project file and defaults into a
// LoadConfig. project may be nil. The result is not validated; callers fill
// in interactive input first and then call Validate.
func Resolve(project *ProjectConfig, lookup LookupFunc, o Overrides) (*finshield.LoadConfig, error) {
	if project == nil {
		project = &ProjectConfig{}
	}
	wh := project.Warehouse
	ld := project.Load
	var errs []error

	backend, err := finshield.ParseBackend(first(o.Backend, lookupFirst(lookup, EnvBackend), wh.Backend))
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &finshield.LoadConfig{
		Warehouse: finshield.WarehouseConfig{
			Backend:          backend,
			Account:          first(lookupFirst(lookup, EnvAccount), wh.Account),
			User:             first(lookupFirst(lookup, EnvUser), wh.User),
			Password:         lookupFirst(lookup, EnvPassword),
			Warehouse:        first(lookupFirst(lookup, EnvWarehouse), wh.Warehouse),
			Database:         first(lookupFirst(lookup, EnvDatabase), wh.Database),
			Schema:           first(lookupFirst(lookup, EnvSchema), wh.Schema),
			Role:             first(lookupFirst(lookup, EnvRole), wh.Role),
			ConnectionString: first(o.Connection, lookupFirst(lookup, EnvConnection), wh.Connection),
		},
		Table: first(o.Table, ld.Table, finshield.DefaultTableName),
		Policy: finshield.ChunkPolicy{
			DirectLoadThreshold:  firstSet(o.DirectThreshold, ld.DirectThreshold, finshield.DefaultDirectLoadThreshold),
			ChunkSize:            firstSet(o.ChunkSize, ld.ChunkSize, finshield.DefaultChunkSize),
			LargeDatasetWarnRows: firstInt(ld.LargeDatasetWarnRows, finshield.DefaultLargeDatasetWarnRows),
		},
		Verify:  firstSet(o.Verify, ld.Verify, false),
		DryRun:  o.DryRun,
		Verbose: o.Verbose,
		Timeout: finshield.DefaultLoadTimeout,
	}

	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	} else if d, err := parseDuration("load.timeout", ld.Timeout); err != nil {
		errs = append(errs, err)
	} else if d > 0 {
		cfg.Timeout = d
	}

	if cfg.Warehouse.LoginTimeout, err = parseDuration("warehouse.login_timeout", wh.LoginTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.Warehouse.RequestTimeout, err = parseDuration("warehouse.request_timeout", wh.RequestTimeout); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", field, value, finshield.ErrInvalidConfig)
	}
	return d, nil
}

func first(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// firstSet returns the flag value if set, then the file value, then def.
func firstSet[T any](flag, file *T, def T) T {
	if flag != nil {
		return *flag
	}
	if file != nil {
		return *file
	}
	return def
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
