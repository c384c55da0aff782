// Package snowflake implements the warehouse session on Snowflake through
// the gosnowflake database/sql driver.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/snowflakedb/gosnowflake"

	"github.com/vvka-141/finshield/internal/retry"
	"github.com/vvka-141/finshield/pkg/finshield"
)

const driverName = "snowflake"

// Connector opens Snowflake sessions with automatic retry on transient
// connection failures.
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

	executor := retry.NewExecutor(retry.NewSnowflakeErrorClassifier(), retry.DefaultBackoff()).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("Connection attempt %d failed, retrying in %v: %v", attempt+1, delay.Round(time.Millisecond), err)
		})

	return &Connector{config: config, logger: logger, executor: executor}
}

// driverConfig translates the warehouse config into a gosnowflake config.
func driverConfig(cfg *finshield.WarehouseConfig) *gosnowflake.Config {
	keepAlive := "true"
	params := map[string]*string{
		"CLIENT_SESSION_KEEP_ALIVE": &keepAlive,
	}
	if cfg.QueryTag != "" {
		tag := cfg.QueryTag
		params["QUERY_TAG"] = &tag
	}

	schema := cfg.Schema
	if schema == "" {
		schema = finshield.DefaultSnowflakeSchema
	}

	return &gosnowflake.Config{
		Account:          cfg.Account,
		User:             cfg.User,
		Password:         cfg.Password,
		Database:         cfg.Database,
		Schema:           schema,
		Warehouse:        cfg.Warehouse,
		Role:             cfg.Role,
		Application:      finshield.ApplicationName,
		LoginTimeout:     cfg.LoginTimeout,
		RequestTimeout:   cfg.RequestTimeout,
		DisableTelemetry: true,
		Params:           params,
	}
}

// Connect opens the database handle and pings it, which performs the login.
func (c *Connector) Connect(ctx context.Context) (finshield.Session, error) {
	dsn, err := gosnowflake.DSN(driverConfig(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %v: %w", err, finshield.ErrInvalidConfig)
	}

	c.logger.Verbose("Connecting to Snowflake account %s as %s", c.config.Account, c.config.User)

	var db *sql.DB
	err = c.executor.Execute(ctx, func(ctx context.Context) error {
		handle, err := sql.Open(driverName, dsn)
		if err != nil {
			return err
		}
		// One connection keeps QUERY_TAG and transactions on the same session.
		handle.SetMaxOpenConns(1)
		if err := handle.PingContext(ctx); err != nil {
			handle.Close()
			return err
		}
		db = handle
		return nil
	})
	if err != nil {
		return nil, wrapConnectionError(err, c.config.Account)
	}

	return newSession(db), nil
}

// wrapConnectionError rewrites common Snowflake login failures into
// actionable messages. Every result matches finshield.ErrConnectionFailed.
func wrapConnectionError(err error, account string) error {
	errStr := strings.ToLower(err.Error())

	var hint string
	switch {
	case strings.Contains(errStr, "incorrect username or password"):
		hint = `authentication failed

Check SNOWFLAKE_USER and SNOWFLAKE_PASSWORD (or SF_USERNAME / SF_PASSWORD).`

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "404"):
		hint = fmt.Sprintf(`cannot reach account %q

Possible causes:
  - Account identifier is wrong (expected form: orgname-accountname or locator.region)
  - DNS is not reachable`, account)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection to account %q timed out

Possible causes:
  - Network policy blocks this client IP
  - Proxy or firewall drops HTTPS traffic`, account)

	default:
		return fmt.Errorf("failed to connect to Snowflake account %s: %v: %w", account, err, finshield.ErrConnectionFailed)
	}

	return fmt.Errorf("%s\n\nOriginal error: %v: %w", hint, err, finshield.ErrConnectionFailed)
}
