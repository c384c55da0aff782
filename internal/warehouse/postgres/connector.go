// Package postgres implements the warehouse session on PostgreSQL through pgx.
//
// Rows are transferred with the COPY protocol, one COPY per chunk.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/finshield/internal/retry"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// Pool configuration. A load issues statements serially, so a small pool suffices.
const (
	DefaultMaxConns        = 2
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Connector opens pooled PostgreSQL sessions with automatic retry on
// transient connection failures.
type Connector struct {
	config   *finshield.WarehouseConfig
	logger   finshield.Logger
	executor *retry.Executor
}

// NewConnector creates a Connector.
//
// Panics if config or logger is nil.
func NewConnector(config *finshield.WarehouseConfig, logger finshield.Logger) *Connector {
	if config == nil {
		panic("config cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), retry.DefaultBackoff()).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})

	return &Connector{config: config, logger: logger, executor: executor}
}

// Connect parses the connection string, opens a pool and pings it.
func (c *Connector) Connect(ctx context.Context) (finshield.Session, error) {
	poolConfig, err := pgxpool.ParseConfig(c.config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v: %w", err, finshield.ErrInvalidConfig)
	}
	c.configurePool(poolConfig)

	cc := poolConfig.ConnConfig
	c.logger.Verbose("Connecting to PostgreSQL %s:%d/%s as %s", cc.Host, cc.Port, cc.Database, cc.User)

	var pool *pgxpool.Pool
	err = c.executor.Execute(ctx, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}

	return newSession(pool), nil
}

func (c *Connector) configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime

	if c.config.LoginTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = c.config.LoginTimeout
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName(c.config.QueryTag)

	logger := c.logger
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// applicationName fits the query tag into application_name (63 bytes max).
func applicationName(tag string) string {
	name := finshield.ApplicationName
	if tag != "" {
		name += "-" + tag
	}
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// wrapConnectionError rewrites common pgx connection failures into actionable
// messages. Every result matches finshield.ErrConnectionFailed.
func wrapConnectionError(err error, host string, port uint16, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in FINSHIELD_PG_CONNECTION`, addr, host, port)

	case strings.Contains(errStr, "no such host"):
		hint = fmt.Sprintf(`cannot resolve host %q

Possible causes:
  - Hostname is misspelled
  - DNS is not reachable`, host)

	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf(`password authentication failed for database %q

Check the user and password in the connection string.`, database)

	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf(`database %q does not exist

To create it:
  createdb %s`, database, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets`, addr)

	default:
		return fmt.Errorf("failed to connect to %s/%s: %v: %w", addr, database, err, finshield.ErrConnectionFailed)
	}

	return fmt.Errorf("%s\n\nOriginal error: %v: %w", hint, err, finshield.ErrConnectionFailed)
}
