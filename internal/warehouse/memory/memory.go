// Package memory implements an in-process warehouse session.
//
// It backs dry runs (the full provision-and-load pipeline runs without a
// network) and serves as the session double in tests. Only the statement
// shapes the loader emits are understood.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/finshield/pkg/finshield"
)

const createPrefix = "CREATE TABLE IF NOT EXISTS "

// Table is the stored state of one table.
type Table struct {
	Definition string // column list as written in the CREATE statement
	Columns    []string
	Rows       [][]any
}

// InsertHook runs before every InsertRows call. call is 1-based.
// A non-nil error fails the call without writing anything.
type InsertHook func(call int, table string, rows [][]any) error

// Session is an in-memory finshield.Session.
// Safe for concurrent use, although the loader only uses it serially.
type Session struct {
	dialect finshield.Dialect

	mu          sync.Mutex
	tables      map[string]*Table
	statements  []string
	insertCalls int
	execErr     error
	insertHook  InsertHook
	closed      bool
}

// Option configures a Session.
type Option func(*Session)

// WithExecError makes every Exec call fail with err.
func WithExecError(err error) Option {
	return func(s *Session) { s.execErr = err }
}

// WithInsertHook installs a hook consulted before every InsertRows call.
func WithInsertHook(h InsertHook) Option {
	return func(s *Session) { s.insertHook = h }
}

// FailOnCall returns an InsertHook failing the n-th InsertRows call with err.
func FailOnCall(n int, err error) InsertHook {
	return func(call int, _ string, _ [][]any) error {
		if call == n {
			return err
		}
		return nil
	}
}

// NewSession creates an empty in-memory warehouse speaking the given dialect.
func NewSession(dialect finshield.Dialect, opts ...Option) *Session {
	s := &Session{
		dialect: dialect,
		tables:  make(map[string]*Table),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the dialect the session was created with.
func (s *Session) Dialect() finshield.Dialect { return s.dialect }

// Exec records the statement and applies CREATE TABLE IF NOT EXISTS.
func (s *Session) Exec(_ context.Context, stmt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session is closed")
	}
	if s.execErr != nil {
		return s.execErr
	}
	s.statements = append(s.statements, stmt)

	if !strings.HasPrefix(stmt, createPrefix) {
		return fmt.Errorf("unsupported statement: %s", stmt)
	}
	rest := strings.TrimPrefix(stmt, createPrefix)
	// Quoted table names may contain " ("; column names are normalized and never do.
	open := strings.LastIndex(rest, ` ("`)
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return fmt.Errorf("malformed CREATE TABLE statement: %s", stmt)
	}

	key := tableKey(rest[:open])
	if _, exists := s.tables[key]; exists {
		return nil
	}
	definition := rest[open+2 : len(rest)-1]
	s.tables[key] = &Table{Definition: definition, Columns: parseColumns(definition)}
	return nil
}

// InsertRows appends rows to an existing table.
func (s *Session) InsertRows(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, fmt.Errorf("session is closed")
	}
	s.insertCalls++
	if s.insertHook != nil {
		if err := s.insertHook(s.insertCalls, table, rows); err != nil {
			return 0, err
		}
	}

	t, ok := s.tables[tableKey(table)]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", table)
	}
	if len(columns) != len(t.Columns) {
		return 0, fmt.Errorf("table %s has %d columns, got %d", table, len(t.Columns), len(columns))
	}
	for i, c := range columns {
		if c != t.Columns[i] {
			return 0, fmt.Errorf("invalid identifier %q for table %s", c, table)
		}
	}

	for _, r := range rows {
		t.Rows = append(t.Rows, append([]any(nil), r...))
	}
	return int64(len(rows)), nil
}

// CountRows returns the number of rows stored in table.
func (s *Session) CountRows(_ context.Context, table string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[tableKey(table)]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", table)
	}
	return int64(len(t.Rows)), nil
}

// Close marks the session closed. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Statements returns every statement passed to Exec, in order.
func (s *Session) Statements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statements...)
}

// InsertCalls returns how many times InsertRows was called.
func (s *Session) InsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCalls
}

// Table returns a copy of the stored table, or nil when absent.
func (s *Session) Table(name string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[tableKey(name)]
	if !ok {
		return nil
	}
	cp := &Table{Definition: t.Definition, Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		cp.Rows = append(cp.Rows, append([]any(nil), r...))
	}
	return cp
}

// CreateTable seeds a table with an explicit column list, as if it already
// existed in the warehouse. columns are unquoted destination names.
func (s *Session) CreateTable(name string, definition string, columns ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[tableKey(name)] = &Table{Definition: definition, Columns: columns}
}

// tableKey folds unquoted names the way Snowflake does.
func tableKey(name string) string {
	if strings.Contains(name, `"`) {
		return name
	}
	return strings.ToUpper(name)
}

// parseColumns extracts the quoted column names of a column list like
// "A" NUMBER, "B" DOUBLE PRECISION.
func parseColumns(definition string) []string {
	var cols []string
	for _, clause := range strings.Split(definition, ", ") {
		clause = strings.TrimSpace(clause)
		if !strings.HasPrefix(clause, `"`) {
			continue
		}
		end := strings.LastIndex(clause, `" `)
		if end <= 0 {
			continue
		}
		cols = append(cols, strings.ReplaceAll(clause[1:end], `""`, `"`))
	}
	return cols
}

// Verify Session implements the Session interface at compile time
var _ finshield.Session = (*Session)(nil)
