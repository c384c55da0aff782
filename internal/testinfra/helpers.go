package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"
)

// TestConnEnv overrides the container with an existing PostgreSQL database.
const TestConnEnv = "FINSHIELD_TEST_PG_CONN"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func sharedContainer() (string, error) {
	containerOnce.Do(func() {
		ctr, err := StartSimplePostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = ctr.ConnString
	})
	return containerConn, containerErr
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequirePostgres returns a connection string for a test database.
// Priority: FINSHIELD_TEST_PG_CONN > shared testcontainer > skip.
func RequirePostgres(t *testing.T) string {
	t.Helper()
	SkipIfShort(t)

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := sharedContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}
