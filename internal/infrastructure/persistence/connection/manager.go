// Package connection owns the process-wide database session.
//
// The Manager is created once at startup and handed to every gateway. The
// first Acquire dials the database; callers that arrive while that dial is
// in flight wait for the same attempt instead of starting their own. Once
// established, the session is returned without any I/O until Close.
package connection

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
	"github.com/Haleralex/jobportal/internal/pkg/metrics"
)

// State is the lifecycle state of the shared session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateConnecting    State = "connecting"
	StateEstablished   State = "established"
	StateFailed        State = "failed"
)

// MissingURLMessage is reported when no database endpoint is configured.
const MissingURLMessage = "Please define the DATABASE_URL environment variable inside .env.local"

const flightKey = "connect"

// Dialer opens a session to the database at dsn.
type Dialer func(ctx context.Context, dsn string) (ports.Session, error)

// Config holds the connection manager settings.
type Config struct {
	URL            string
	ConnectTimeout time.Duration // bounds one dial attempt; zero means no bound
}

// DefaultConfig returns the manager defaults.
func DefaultConfig() Config {
	return Config{ConnectTimeout: 10 * time.Second}
}

// Manager lazily establishes and caches the shared session.
type Manager struct {
	cfg    Config
	dial   Dialer
	logger *slog.Logger

	flight singleflight.Group

	mu        sync.RWMutex
	session   ports.Session
	state     State
	lastError error
	attempts  int
}

var _ ports.ConnectionProvider = (*Manager)(nil)

// NewManager creates a manager. Nothing is dialed until the first Acquire.
func NewManager(cfg Config, dial Dialer, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		dial:   dial,
		logger: log.With(slog.String("component", "connection")),
		state:  StateUninitialized,
	}
}

// Acquire returns the shared session, dialing it on first use.
//
// A missing URL fails with *errors.ConfigError before any I/O. A failed dial
// fails every waiter of that attempt with the same *errors.ConnectionError,
// and the next Acquire starts a fresh attempt. ctx only bounds how long this
// caller waits; the attempt itself keeps running for the other waiters.
func (m *Manager) Acquire(ctx context.Context) (ports.Session, error) {
	if s := m.established(); s != nil {
		m.logger.DebugContext(ctx, "Using existing database connection")
		return s, nil
	}

	if m.cfg.URL == "" {
		err := domainerrors.NewConfigError("database.url", MissingURLMessage)
		m.logger.ErrorContext(ctx, "Database connection failed",
			slog.String("error_class", domainerrors.ClassConfig),
			logger.Err(err),
		)
		return nil, err
	}

	ch := m.flight.DoChan(flightKey, m.connect)

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(ports.Session), nil
	case <-ctx.Done():
		return nil, domainerrors.NewConnectionError("acquire", ctx.Err())
	}
}

// connect runs at most once per flight. It is detached from the caller's
// context so one impatient caller cannot fail the attempt for everyone.
func (m *Manager) connect() (any, error) {
	// A previous flight may have finished between the fast-path check and DoChan.
	if s := m.established(); s != nil {
		return s, nil
	}

	m.mu.Lock()
	m.state = StateConnecting
	m.attempts++
	m.mu.Unlock()

	ctx := context.Background()
	if m.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.ConnectTimeout)
		defer cancel()
	}

	start := time.Now()
	session, err := m.dial(ctx, m.cfg.URL)
	metrics.RecordConnectionAttempt(err)

	if err != nil {
		if !domainerrors.IsConfigError(err) {
			err = domainerrors.NewConnectionError("connect", err)
		}
		m.mu.Lock()
		m.state = StateFailed
		m.lastError = err
		m.mu.Unlock()

		m.logger.Error("Database connection failed",
			slog.String("error_class", domainerrors.Classify(err)),
			slog.Duration("elapsed", time.Since(start)),
			logger.Err(err),
		)
		return nil, err
	}

	m.mu.Lock()
	m.session = session
	m.state = StateEstablished
	m.lastError = nil
	m.mu.Unlock()

	m.logger.Info("New database connection successful",
		slog.String("driver", session.Driver()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return session, nil
}

func (m *Manager) established() ports.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateEstablished {
		return m.session
	}
	return nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Status is a snapshot of the manager for health reporting.
type Status struct {
	State     State  `json:"state"`
	Driver    string `json:"driver,omitempty"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"last_error,omitempty"`
}

// Status returns a snapshot of the manager.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Status{State: m.state, Attempts: m.attempts}
	if m.session != nil {
		st.Driver = m.session.Driver()
	}
	if m.lastError != nil {
		st.LastError = m.lastError.Error()
	}
	return st
}

// Close releases the session. It belongs to process shutdown; requests never call it.
func (m *Manager) Close() error {
	m.mu.Lock()
	session := m.session
	m.session = nil
	m.state = StateUninitialized
	m.mu.Unlock()

	if session == nil {
		return nil
	}
	metrics.ConnectionEstablished.Set(0)
	return session.Close()
}
