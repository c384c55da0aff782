package finshield

import "context"

// Dialect captures what differs between warehouses when writing DDL:
// the column type mapping and identifier quoting.
type Dialect interface {
	// Name identifies the dialect in logs.
	Name() string

	// TypeName maps a semantic type to the warehouse column type.
	// The mapping is total: undefined types map to the text type.
	TypeName(t SemanticType) string

	// QuoteIdentifier quotes a single identifier part.
	QuoteIdentifier(name string) string
}

// Session is an open, authenticated warehouse session bound to a
// database/schema context.
//
// The provisioner and bulk loader only borrow a Session for the duration of a
// call; whoever obtained it from a Connector closes it.
//
// Thread-Safety: NOT safe for concurrent use. Statements are issued serially.
type Session interface {
	// Dialect returns the DDL dialect of the warehouse.
	Dialect() Dialect

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, stmt string) error

	// InsertRows transfers rows into table in a single request and returns the
	// number of rows written. columns are normalized names, unquoted.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// CountRows returns SELECT COUNT(*) of the table.
	CountRows(ctx context.Context, table string) (int64, error)

	// Close releases the session. Idempotent.
	Close() error
}

// Connector opens warehouse sessions.
// Different implementations handle the supported backends.
type Connector interface {
	// Connect establishes a session. The caller must Close it when done.
	Connect(ctx context.Context) (Session, error)
}

// ConnectorFactory creates the Connector for a warehouse configuration.
type ConnectorFactory func(cfg *WarehouseConfig) (Connector, error)
