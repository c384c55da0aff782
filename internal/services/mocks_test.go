package services

import (
	"context"
	"errors"

	"github.com/vvka-141/finshield/internal/schema"
	"github.com/vvka-141/finshield/internal/warehouse/memory"
	"github.com/vvka-141/finshield/pkg/finshield"
)

type mockConnector struct {
	session *trackingSession
	err     error
	calls   int
}

func (m *mockConnector) Connect(_ context.Context) (finshield.Session, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockConnector) factory() finshield.ConnectorFactory {
	return func(_ *finshield.WarehouseConfig) (finshield.Connector, error) {
		return m, nil
	}
}

func failingFactory(err error) finshield.ConnectorFactory {
	return func(_ *finshield.WarehouseConfig) (finshield.Connector, error) {
		return nil, err
	}
}

// trackingSession wraps the in-memory session to count Close calls and
// optionally fail CountRows.
type trackingSession struct {
	*memory.Session
	closeCalls int
	countErr   error
	countDelta int64
}

func newTrackingSession(opts ...memory.Option) *trackingSession {
	return &trackingSession{Session: memory.NewSession(schema.Snowflake, opts...)}
}

func (s *trackingSession) Close() error {
	s.closeCalls++
	return s.Session.Close()
}

func (s *trackingSession) CountRows(ctx context.Context, table string) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	n, err := s.Session.CountRows(ctx, table)
	return n + s.countDelta, err
}

type mockProvisioner struct {
	err   error
	calls int
}

func (m *mockProvisioner) EnsureTable(_ context.Context, _ finshield.Session, _ string, _ *finshield.Dataset) error {
	m.calls++
	return m.err
}

var errBoom = errors.New("boom")
