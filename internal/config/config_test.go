package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/finshield/pkg/finshield"
)

func mapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `warehouse:
  backend: snowflake
  account: myorg-myaccount
  user: LOADER
  warehouse: COMPUTE_WH
  database: FINSHIELD_DB
  schema: RAW
  role: LOADER_ROLE
  login_timeout: 30s
  request_timeout: 5m

load:
  table: FINSHIELD_DB.RAW.TRANSACTIONS
  chunk_size: 5000
  direct_threshold: 2000
  large_dataset_warn_rows: 500000
  timeout: 10m
  verify: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "snowflake", cfg.Warehouse.Backend)
	assert.Equal(t, "myorg-myaccount", cfg.Warehouse.Account)
	assert.Equal(t, "LOADER", cfg.Warehouse.User)
	assert.Equal(t, "COMPUTE_WH", cfg.Warehouse.Warehouse)
	assert.Equal(t, "FINSHIELD_DB", cfg.Warehouse.Database)
	assert.Equal(t, "RAW", cfg.Warehouse.Schema)
	assert.Equal(t, "LOADER_ROLE", cfg.Warehouse.Role)
	assert.Equal(t, "30s", cfg.Warehouse.LoginTimeout)
	assert.Equal(t, "FINSHIELD_DB.RAW.TRANSACTIONS", cfg.Load.Table)
	require.NotNil(t, cfg.Load.ChunkSize)
	assert.Equal(t, 5000, *cfg.Load.ChunkSize)
	require.NotNil(t, cfg.Load.DirectThreshold)
	assert.Equal(t, 2000, *cfg.Load.DirectThreshold)
	assert.Equal(t, 500000, cfg.Load.LargeDatasetWarnRows)
	assert.Equal(t, "10m", cfg.Load.Timeout)
	require.NotNil(t, cfg.Load.Verify)
	assert.True(t, *cfg.Load.Verify)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("warehouse: [unclosed"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(nil, mapLookup(nil), Overrides{})
	require.NoError(t, err)

	assert.Equal(t, finshield.BackendSnowflake, cfg.Warehouse.Backend)
	assert.Equal(t, finshield.DefaultTableName, cfg.Table)
	assert.Equal(t, finshield.DefaultChunkPolicy(), cfg.Policy)
	assert.Equal(t, finshield.DefaultLoadTimeout, cfg.Timeout)
	assert.False(t, cfg.Verify)
}

func TestResolve_Precedence(t *testing.T) {
	project := &ProjectConfig{
		Warehouse: WarehouseSection{Backend: "snowflake", Account: "yaml-account", User: "yaml-user", Warehouse: "YAML_WH"},
		Load:      LoadSection{Table: "YAML_TABLE", ChunkSize: ptr(1000), DirectThreshold: ptr(500), Timeout: "5m"},
	}
	env := mapLookup(map[string]string{
		"SNOWFLAKE_ACCOUNT":  "env-account",
		"SNOWFLAKE_PASSWORD": "secret",
	})

	cfg, err := Resolve(project, env, Overrides{Table: "FLAG_TABLE", ChunkSize: ptr(2000), Timeout: time.Minute})
	require.NoError(t, err)

	assert.Equal(t, "env-account", cfg.Warehouse.Account, "env beats yaml")
	assert.Equal(t, "yaml-user", cfg.Warehouse.User, "yaml beats default")
	assert.Equal(t, "secret", cfg.Warehouse.Password)
	assert.Equal(t, "YAML_WH", cfg.Warehouse.Warehouse)
	assert.Equal(t, "FLAG_TABLE", cfg.Table, "flag beats yaml")
	assert.Equal(t, 2000, cfg.Policy.ChunkSize)
	assert.Equal(t, 500, cfg.Policy.DirectLoadThreshold)
	assert.Equal(t, time.Minute, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func ptr[T any](v T) *T { return &v }

func TestResolve_ExplicitZeroAndFalse(t *testing.T) {
	project := &ProjectConfig{
		Load: LoadSection{DirectThreshold: ptr(500), Verify: ptr(true)},
	}

	t.Run("file values apply when flags are unset", func(t *testing.T) {
		cfg, err := Resolve(project, mapLookup(nil), Overrides{})
		require.NoError(t, err)
		assert.Equal(t, 500, cfg.Policy.DirectLoadThreshold)
		assert.True(t, cfg.Verify)
	})

	t.Run("flags override with zero and false", func(t *testing.T) {
		cfg, err := Resolve(project, mapLookup(nil), Overrides{DirectThreshold: ptr(0), Verify: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Policy.DirectLoadThreshold)
		assert.False(t, cfg.Verify)
		assert.NoError(t, cfg.Policy.Validate())
	})

	t.Run("explicit zero in file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("load:\n  direct_threshold: 0\n"), 0644))
		file, err := Load(dir)
		require.NoError(t, err)

		cfg, err := Resolve(file, mapLookup(nil), Overrides{})
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Policy.DirectLoadThreshold)
	})
}

func TestResolve_Aliases(t *testing.T) {
	env := mapLookup(map[string]string{
		"SF_ACCOUNT_IDENTIFIER": "alias-account",
		"SF_USERNAME":           "alias-user",
		"SF_PASSWORD":           "alias-pass",
		"SNOWFLAKE_USER":        "",
	})

	cfg, err := Resolve(nil, env, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, "alias-account", cfg.Warehouse.Account)
	assert.Equal(t, "alias-user", cfg.Warehouse.User, "empty preferred name falls through to the alias")
	assert.Equal(t, "alias-pass", cfg.Warehouse.Password)
}

func TestResolve_PostgresBackend(t *testing.T) {
	env := mapLookup(map[string]string{
		"FINSHIELD_BACKEND": "postgres",
		"DATABASE_URL":      "postgres://env/db",
	})

	cfg, err := Resolve(nil, env, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, finshield.BackendPostgres, cfg.Warehouse.Backend)
	assert.Equal(t, "postgres://env/db", cfg.Warehouse.ConnectionString)

	cfg, err = Resolve(nil, env, Overrides{Backend: "pg", Connection: "postgres://flag/db"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cfg.Warehouse.ConnectionString)
}

func TestResolve_Errors(t *testing.T) {
	project := &ProjectConfig{
		Warehouse: WarehouseSection{LoginTimeout: "soon"},
		Load:      LoadSection{Timeout: "forever"},
	}

	_, err := Resolve(project, mapLookup(map[string]string{"FINSHIELD_BACKEND": "oracle"}), Overrides{})

	require.Error(t, err)
	assert.ErrorIs(t, err, finshield.ErrUnsupportedBackend)
	assert.ErrorIs(t, err, finshield.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "load.timeout")
	assert.Contains(t, err.Error(), "warehouse.login_timeout")
}

func TestLoadEnvFile(t *testing.T) {
	const key = "FINSHIELD_CONFIG_TEST_VAR"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0644))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	const key = "FINSHIELD_CONFIG_TEST_KEEP"
	t.Setenv(key, "from-process")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0644))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-process", os.Getenv(key))
}
