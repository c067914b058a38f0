// Package actiontest provides test doubles for the ports the action executor uses.
package actiontest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

// ErrNotMocked is returned by doubles whose function field is unset.
var ErrNotMocked = errors.New("not mocked")

// ConnectionProvider is a mock ports.ConnectionProvider.
type ConnectionProvider struct {
	AcquireFunc func(ctx context.Context) (ports.Session, error)
	calls       atomic.Int32
}

// Acquire calls AcquireFunc.
func (m *ConnectionProvider) Acquire(ctx context.Context) (ports.Session, error) {
	m.calls.Add(1)
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx)
	}
	return nil, ErrNotMocked
}

// Calls returns how many times Acquire ran.
func (m *ConnectionProvider) Calls() int { return int(m.calls.Load()) }

// Provide returns a provider that always hands out session.
func Provide(session ports.Session) *ConnectionProvider {
	return &ConnectionProvider{
		AcquireFunc: func(context.Context) (ports.Session, error) { return session, nil },
	}
}

// Session is a mock ports.Session that serves one Collection for every name.
type Session struct {
	Coll      *Collection
	PingFunc  func(ctx context.Context) error
	requested []string
	mu        sync.Mutex
}

// Collection records name and returns s.Coll.
func (s *Session) Collection(name string) ports.Collection {
	s.mu.Lock()
	s.requested = append(s.requested, name)
	s.mu.Unlock()
	return s.Coll
}

// Requested returns the collection names asked for, in order.
func (s *Session) Requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

// Ping calls PingFunc when set.
func (s *Session) Ping(ctx context.Context) error {
	if s.PingFunc != nil {
		return s.PingFunc(ctx)
	}
	return nil
}

// Driver returns "mock".
func (s *Session) Driver() string { return "mock" }

// Close does nothing.
func (s *Session) Close() error { return nil }

// Collection is a mock ports.Collection.
type Collection struct {
	InsertOneFunc        func(ctx context.Context, doc ports.Document) (ports.Document, error)
	FindOneFunc          func(ctx context.Context, filter ports.Filter) (ports.Document, error)
	FindFunc             func(ctx context.Context, filter ports.Filter) ([]ports.Document, error)
	FindOneAndUpdateFunc func(ctx context.Context, filter ports.Filter, patch ports.Document) (ports.Document, error)
}

// InsertOne calls InsertOneFunc.
func (c *Collection) InsertOne(ctx context.Context, doc ports.Document) (ports.Document, error) {
	if c.InsertOneFunc != nil {
		return c.InsertOneFunc(ctx, doc)
	}
	return nil, ErrNotMocked
}

// FindOne calls FindOneFunc.
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter) (ports.Document, error) {
	if c.FindOneFunc != nil {
		return c.FindOneFunc(ctx, filter)
	}
	return nil, ErrNotMocked
}

// Find calls FindFunc.
func (c *Collection) Find(ctx context.Context, filter ports.Filter) ([]ports.Document, error) {
	if c.FindFunc != nil {
		return c.FindFunc(ctx, filter)
	}
	return nil, ErrNotMocked
}

// FindOneAndUpdate calls FindOneAndUpdateFunc.
func (c *Collection) FindOneAndUpdate(ctx context.Context, filter ports.Filter, patch ports.Document) (ports.Document, error) {
	if c.FindOneAndUpdateFunc != nil {
		return c.FindOneAndUpdateFunc(ctx, filter, patch)
	}
	return nil, ErrNotMocked
}
