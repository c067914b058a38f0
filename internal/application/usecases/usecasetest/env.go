// Package usecasetest wires gateways to a real in-memory document store.
package usecasetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/application/action"
	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	"github.com/Haleralex/jobportal/internal/infrastructure/invalidation"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/connection"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

// Env is an executor backed by an in-memory SQLite store.
type Env struct {
	Executor    *action.Executor
	Manager     *connection.Manager
	Invalidated *invalidation.Recorder
}

// New builds an Env and closes it when the test ends.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := connection.DefaultConfig()
	cfg.URL = "sqlite::memory:"
	dial := persistence.NewDialer(persistence.Options{Collections: entities.Collections()})
	manager := connection.NewManager(cfg, dial, logger.Discard())
	t.Cleanup(func() { _ = manager.Close() })

	rec := &invalidation.Recorder{}
	return &Env{
		Executor:    action.NewExecutor(manager, rec, logger.Discard()),
		Manager:     manager,
		Invalidated: rec,
	}
}

// Unconfigured builds an Env whose database URL is missing.
func Unconfigured(t *testing.T) *Env {
	t.Helper()

	manager := connection.NewManager(connection.DefaultConfig(),
		persistence.NewDialer(persistence.Options{}), logger.Discard())
	rec := &invalidation.Recorder{}
	return &Env{
		Executor:    action.NewExecutor(manager, rec, logger.Discard()),
		Manager:     manager,
		Invalidated: rec,
	}
}

// Seed inserts docs straight into collection, bypassing the gateways.
func (e *Env) Seed(t *testing.T, collection string, docs ...ports.Document) []ports.Document {
	t.Helper()

	session, err := e.Manager.Acquire(context.Background())
	require.NoError(t, err)

	out := make([]ports.Document, 0, len(docs))
	for _, doc := range docs {
		stored, err := session.Collection(collection).InsertOne(context.Background(), doc)
		require.NoError(t, err)
		out = append(out, stored)
	}
	return out
}
