package schema

import (
	"context"
	"errors"

	"github.com/vvka-141/finshield/pkg/finshield"
)

// Provisioner implements finshield.TableProvisioner.
// Stateless and safe for concurrent use on different sessions.
type Provisioner struct {
	logger finshield.Logger
}

// NewProvisioner creates a new Provisioner.
//
// Panics if logger is nil.
func NewProvisioner(logger finshield.Logger) *Provisioner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Provisioner{logger: logger}
}

// EnsureTable creates table from the dataset's inferred schema if it does not exist.
//
// Naming problems are reported before the session is used: ambiguity as
// *finshield.SchemaAmbiguityError, anything else as *finshield.ProvisionError.
// Submission failures are *finshield.ProvisionError wrapping the warehouse error.
func (p *Provisioner) EnsureTable(ctx context.Context, session finshield.Session, table string, ds *finshield.Dataset) error {
	stmt, defs, err := buildCreateTable(session.Dialect(), table, ds)
	if err != nil {
		var ambiguity *finshield.SchemaAmbiguityError
		if errors.As(err, &ambiguity) {
			return ambiguity
		}
		return &finshield.ProvisionError{Table: table, Err: err}
	}

	for _, def := range defs {
		p.logger.Verbose("  %s -> %s %s", def.Source, def.Name, def.Type)
	}
	p.logger.Verbose("Provisioning statement: %s", stmt)
	if err := session.Exec(ctx, stmt); err != nil {
		return &finshield.ProvisionError{Table: table, Statement: stmt, Err: err}
	}

	p.logger.Info("✓ Ensured table exists: %s", table)
	return nil
}

// Verify Provisioner implements the TableProvisioner interface at compile time
var _ finshield.TableProvisioner = (*Provisioner)(nil)
