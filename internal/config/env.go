package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables. Each entry lists the preferred name first, then
// accepted aliases.
var (
	EnvAccount    = []string{"SNOWFLAKE_ACCOUNT", "SF_ACCOUNT_IDENTIFIER"}
	EnvUser       = []string{"SNOWFLAKE_USER", "SF_USERNAME"}
	EnvPassword   = []string{"SNOWFLAKE_PASSWORD", "SF_PASSWORD"}
	EnvWarehouse  = []string{"SNOWFLAKE_WAREHOUSE"}
	EnvDatabase   = []string{"SNOWFLAKE_DATABASE"}
	EnvSchema     = []string{"SNOWFLAKE_SCHEMA"}
	EnvRole       = []string{"SNOWFLAKE_ROLE"}
	EnvConnection = []string{"FINSHIELD_PG_CONNECTION", "DATABASE_URL"}
	EnvBackend    = []string{"FINSHIELD_BACKEND"}
)

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// lookupFirst returns the first non-empty value among names.
func lookupFirst(lookup LookupFunc, names []string) string {
	for _, name := range names {
		if v, ok := lookup(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// LoadEnvFile loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
