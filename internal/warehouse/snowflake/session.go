package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// MaxValuesRows is the most rows Snowflake accepts in one INSERT ... VALUES.
const MaxValuesRows = 16_384

// Session is a finshield.Session over a gosnowflake database handle.
type Session struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

func newSession(db *sql.DB) *Session {
	return &Session{db: db}
}

// Dialect returns the Snowflake dialect.
func (s *Session) Dialect() finshield.Dialect { return schema.Snowflake }

// Exec runs a statement that returns no rows.
func (s *Session) Exec(ctx context.Context, stmt string) error {
	_, err := s.db.ExecContext(ctx, stmt)
	return err
}

// InsertRows writes rows with multi-row INSERT statements inside one
// transaction, so a chunk is committed entirely or not at all.
func (s *Session) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var written int64
	for lo := 0; lo < len(rows); lo += MaxValuesRows {
		batch := rows[lo:min(lo+MaxValuesRows, len(rows))]
		res, err := tx.ExecContext(ctx, BuildInsert(table, columns, len(batch)), flatten(batch)...)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			n = int64(len(batch))
		}
		written += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit chunk: %w", err)
	}
	return written, nil
}

// CountRows returns the number of rows in table.
func (s *Session) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", table, err)
	}
	return n, nil
}

// Close closes the database handle. Idempotent.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.db.Close() })
	return s.closeErr
}

// BuildInsert renders INSERT INTO table ("A", "B") VALUES (?, ?), ... for nrows rows.
func BuildInsert(table string, columns []string, nrows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = schema.Snowflake.QuoteIdentifier(c)
	}
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	b.Grow(len(table) + 32 + nrows*(len(placeholders)+2))
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES ")
	for i := 0; i < nrows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholders)
	}
	return b.String()
}

func flatten(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		args = append(args, r...)
	}
	return args
}

var _ finshield.Session = (*Session)(nil)
