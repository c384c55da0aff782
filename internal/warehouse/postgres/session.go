package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// Session is a finshield.Session over a pgx pool.
type Session struct {
	pool      *pgxpool.Pool
	closeOnce sync.Once
}

func newSession(pool *pgxpool.Pool) *Session {
	return &Session{pool: pool}
}

// Dialect returns the PostgreSQL dialect.
func (s *Session) Dialect() finshield.Dialect { return schema.Postgres }

// Exec runs a statement that returns no rows.
func (s *Session) Exec(ctx context.Context, stmt string) error {
	_, err := s.pool.Exec(ctx, stmt)
	return err
}

// InsertRows copies rows into table with a single COPY FROM STDIN.
func (s *Session) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return s.pool.CopyFrom(ctx, Identifier(table), columns, pgx.CopyFromRows(rows))
}

// CountRows returns the number of rows in table.
func (s *Session) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	return n, nil
}

// Close closes the pool. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(s.pool.Close)
	return nil
}

// Identifier converts a validated table name into a pgx.Identifier.
// Unquoted parts are folded to lower case the way PostgreSQL folds them,
// so the COPY target matches the table created from the same name.
func Identifier(table string) pgx.Identifier {
	parts := schema.TableParts(table)
	id := make(pgx.Identifier, len(parts))
	for i, p := range parts {
		if p.Quoted {
			id[i] = p.Name
		} else {
			id[i] = strings.ToLower(p.Name)
		}
	}
	return id
}

var _ finshield.Session = (*Session)(nil)
