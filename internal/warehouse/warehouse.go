// Package warehouse selects the session implementation for a backend.
package warehouse

import (
	"fmt"

	"github.com/vvka-141/finshield/internal/warehouse/postgres"
	"github.com/vvka-141/finshield/internal/warehouse/snowflake"
	"github.com/vvka-141/finshield/pkg/finshield"
)

// NewConnectorFactory returns a factory creating connectors that log through logger.
func NewConnectorFactory(logger finshield.Logger) finshield.ConnectorFactory {
	return func(cfg *finshield.WarehouseConfig) (finshield.Connector, error) {
		return NewConnector(cfg, logger)
	}
}

// NewConnector creates the Connector for cfg.Backend after validating cfg.
func NewConnector(cfg *finshield.WarehouseConfig, logger finshield.Logger) (finshield.Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("warehouse config is nil: %w", finshield.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case finshield.BackendSnowflake:
		return snowflake.NewConnector(cfg, logger), nil
	case finshield.BackendPostgres:
		return postgres.NewConnector(cfg, logger), nil
	default:
		return nil, fmt.Errorf("backend %s: %w", cfg.Backend, finshield.ErrUnsupportedBackend)
	}
}
