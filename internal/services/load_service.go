package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vvka-141/finshield/internal/load"
	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/internal/warehouse/memory"
	"github.com/vvka-141/finshield/pkg/finshield"
)

type loaderFactory func(policy finshield.ChunkPolicy, logger finshield.Logger) finshield.BulkLoader

// LoadService runs one load: connect, provision the table, bulk load and
// optionally verify.
// Thread-Safety: safe for concurrent Run calls; every run opens its own session.
type LoadService struct {
	connectorFactory finshield.ConnectorFactory
	provisioner      finshield.TableProvisioner
	newLoader        loaderFactory
	logger           finshield.Logger
}

// NewLoadService creates a LoadService with all dependencies injected.
//
// Panics on nil dependencies: these are wiring mistakes, not runtime conditions.
func NewLoadService(
	connectorFactory finshield.ConnectorFactory,
	provisioner finshield.TableProvisioner,
	logger finshield.Logger,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if provisioner == nil {
		panic("provisioner cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LoadService{
		connectorFactory: connectorFactory,
		provisioner:      provisioner,
		newLoader: func(policy finshield.ChunkPolicy, logger finshield.Logger) finshield.BulkLoader {
			return load.NewLoader(policy, logger)
		},
		logger: logger,
	}
}

// Run loads ds into cfg.Table. The session it opens is closed on every path.
//
// On a load failure the returned outcome counts the rows committed before it.
func (s *LoadService) Run(ctx context.Context, cfg finshield.LoadConfig, ds *finshield.Dataset) (finshield.LoadOutcome, error) {
	if err := cfg.Validate(); err != nil {
		return finshield.LoadOutcome{}, err
	}
	if cfg.Warehouse.QueryTag == "" {
		cfg.Warehouse.QueryTag = uuid.NewString()
	}

	s.logger.Verbose("Run %s: %d rows into %s", cfg.Warehouse.QueryTag, ds.Len(), cfg.Table)
	for k, v := range cfg.Warehouse.Redacted() {
		s.logger.Verbose("  %s=%s", k, v)
	}

	session, err := s.openSession(ctx, &cfg, ds)
	if err != nil {
		return finshield.LoadOutcome{}, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Warn("Failed to close session: %v", cerr)
		}
	}()

	if err := s.provisioner.EnsureTable(ctx, session, cfg.Table, ds); err != nil {
		return finshield.LoadOutcome{}, err
	}

	outcome, err := s.newLoader(cfg.Policy, s.logger).BulkLoad(ctx, session, cfg.Table, ds)
	if err != nil {
		s.logger.Error("Load failed: %s", outcome)
		s.logger.Info("For very large files, stage the CSV and use COPY INTO instead of direct inserts.")
		return outcome, err
	}
	s.logger.Info("✓ Load complete: %s", outcome)

	if cfg.Verify {
		if err := s.verify(ctx, session, cfg.Table, outcome); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// openSession connects to the warehouse, or for dry runs prints what would be
// sent and returns an in-memory session speaking the same dialect.
func (s *LoadService) openSession(ctx context.Context, cfg *finshield.LoadConfig, ds *finshield.Dataset) (finshield.Session, error) {
	if cfg.DryRun {
		dialect := schema.DialectFor(cfg.Warehouse.Backend)
		if stmt, err := schema.BuildCreateTable(dialect, cfg.Table, ds); err == nil {
			s.logger.Info("[DRY RUN] %s", stmt)
		}
		chunks := load.Plan(ds.Len(), cfg.Policy)
		s.logger.Info("[DRY RUN] %d rows in %d chunk(s) on %s, nothing is sent", ds.Len(), len(chunks), cfg.Warehouse.Backend)
		return memory.NewSession(dialect), nil
	}

	connector, err := s.connectorFactory(&cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}
	session, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Connected to %s", session.Dialect().Name())
	return session, nil
}

// verify re-reads the row count. The table may hold rows from earlier runs,
// so only a count below the loaded rows is a failure.
func (s *LoadService) verify(ctx context.Context, session finshield.Session, table string, outcome finshield.LoadOutcome) error {
	count, err := session.CountRows(ctx, table)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	if count < outcome.RowCount {
		return &finshield.LoadError{
			Table:   table,
			Outcome: outcome,
			Err:     fmt.Errorf("table holds %d rows after loading %d", count, outcome.RowCount),
		}
	}
	s.logger.Info("✓ Verified: %s holds %d rows", table, count)
	return nil
}
