package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/snowflakedb/gosnowflake"

	"github.com/vvka-141/finshield/pkg/finshield"
)

// Transient SQLSTATE classes for Snowflake, which reports ANSI states:
// 08 connection exception, 53 insufficient resources, 57 operator intervention.
var transientStateClasses = []string{"08", "53", "57"}

// Snowflake error numbers that mean the credentials or account are wrong.
// Retrying these only risks locking the user out.
const (
	sfCodeIncorrectCredentials = 390100
	sfCodeUserLocked           = 390102
	sfCodeAccountNotFound      = 390201
	sfCodeInvalidJWT           = 390144
)

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"service unavailable",
	"503 service",
	"504 gateway",
}

// PostgreSQLErrorClassifier classifies pgx and network errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a PostgreSQLErrorClassifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient reports whether err is worth another connection attempt.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return true
		}
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code) ||
			pgerrcode.IsOperatorIntervention(pgErr.Code)
	}
	return isNetworkError(err) || hasTransientMessage(err)
}

// SnowflakeErrorClassifier classifies gosnowflake and network errors.
type SnowflakeErrorClassifier struct{}

// NewSnowflakeErrorClassifier creates a SnowflakeErrorClassifier.
func NewSnowflakeErrorClassifier() *SnowflakeErrorClassifier {
	return &SnowflakeErrorClassifier{}
}

// IsTransient reports whether err is worth another connection attempt.
// Authentication and account errors are always fatal.
func (c *SnowflakeErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		switch sfErr.Number {
		case sfCodeIncorrectCredentials, sfCodeUserLocked, sfCodeAccountNotFound, sfCodeInvalidJWT:
			return false
		}
		if sfErr.SQLState != "" && hasTransientClass(sfErr.SQLState) {
			return true
		}
	}
	return isNetworkError(err) || hasTransientMessage(err)
}

func hasTransientClass(state string) bool {
	for _, class := range transientStateClasses {
		if strings.HasPrefix(state, class) {
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ENETUNREACH, syscall.EHOSTUNREACH} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}
	return false
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var (
	_ finshield.ErrorClassifier = (*PostgreSQLErrorClassifier)(nil)
	_ finshield.ErrorClassifier = (*SnowflakeErrorClassifier)(nil)
)
