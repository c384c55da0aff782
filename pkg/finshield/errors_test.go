package finshield_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vvka-141/finshield/pkg/finshield"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, finshield.ExitSuccess},
		{"unknown flag", errors.New("unknown flag --foo"), finshield.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), finshield.ExitUsageError},
		{"accepts args", errors.New("accepts at most 1 arg(s), received 2"), finshield.ExitUsageError},
		{"required flag", errors.New("required flag \"rows\" not set"), finshield.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--chunk-size\""), finshield.ExitUsageError},
		{"general error", errors.New("something went wrong"), finshield.ExitGeneralError},
		{"config", fmt.Errorf("bad: %w", finshield.ErrInvalidConfig), finshield.ExitConfigError},
		{"backend", fmt.Errorf("x: %w", finshield.ErrUnsupportedBackend), finshield.ExitConfigError},
		{"connection failed", finshield.ErrConnectionFailed, finshield.ExitConnectionError},
		{"connection refused text", errors.New("dial tcp: connection refused"), finshield.ExitConnectionError},
		{"dataset", fmt.Errorf("x: %w", finshield.ErrInvalidDataset), finshield.ExitDatasetError},
		{"provision", &finshield.ProvisionError{Table: "T", Err: errors.New("denied")}, finshield.ExitProvisionFailed},
		{"ambiguity", &finshield.SchemaAmbiguityError{Table: "T"}, finshield.ExitSchemaAmbiguity},
		{"load", &finshield.LoadError{Table: "T", Err: errors.New("boom")}, finshield.ExitLoadFailed},
		{"wrapped load", fmt.Errorf("run: %w", &finshield.LoadError{Err: errors.New("boom")}), finshield.ExitLoadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := finshield.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSchemaAmbiguityError_MatchesProvisionFailed(t *testing.T) {
	err := &finshield.SchemaAmbiguityError{
		Table:      "TRANSACTIONS",
		Collisions: map[string][]string{"TX_AMOUNT": {"Tx Amount", "tx_amount"}},
	}

	if !errors.Is(err, finshield.ErrSchemaAmbiguity) {
		t.Error("expected errors.Is(err, ErrSchemaAmbiguity)")
	}
	if !errors.Is(err, finshield.ErrProvisionFailed) {
		t.Error("expected errors.Is(err, ErrProvisionFailed)")
	}
	if errors.Is(err, finshield.ErrLoadFailed) {
		t.Error("ambiguity must not match ErrLoadFailed")
	}
	if !strings.Contains(err.Error(), "TX_AMOUNT <- [Tx Amount, tx_amount]") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestLoadError_CarriesPartialOutcome(t *testing.T) {
	cause := errors.New("network reset")
	err := error(&finshield.LoadError{
		Table:       "TRANSACTIONS",
		Outcome:     finshield.LoadOutcome{ChunkCount: 2, RowCount: 200},
		FailedChunk: 3,
		Err:         cause,
	})

	if !errors.Is(err, cause) {
		t.Error("LoadError must unwrap to its cause")
	}

	var loadErr *finshield.LoadError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &loadErr) {
		t.Fatal("expected errors.As to find *LoadError")
	}
	if loadErr.Outcome.RowCount != 200 || loadErr.Outcome.ChunkCount != 2 {
		t.Errorf("unexpected outcome %v", loadErr.Outcome)
	}
	if !strings.Contains(err.Error(), "chunk 3 (200 rows in 2 chunks committed)") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestProvisionError_Unwrap(t *testing.T) {
	cause := errors.New("insufficient privileges")
	err := &finshield.ProvisionError{Table: "T", Statement: "CREATE TABLE IF NOT EXISTS T (\"A\" NUMBER)", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ProvisionError must unwrap to its cause")
	}
	if !errors.Is(err, finshield.ErrProvisionFailed) {
		t.Error("ProvisionError must match ErrProvisionFailed")
	}
}
