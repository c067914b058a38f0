package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/connection"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
)

func TestScheme(t *testing.T) {
	assert.Equal(t, "postgres", Scheme("postgres://u:p@localhost/jobs"))
	assert.Equal(t, "postgresql", Scheme("PostgreSQL://localhost/jobs"))
	assert.Equal(t, "sqlite", Scheme("sqlite::memory:"))
	assert.Equal(t, "", Scheme(""))
	assert.Equal(t, "", Scheme(":memory:"))
}

func TestNewDialer_UnsupportedSchemeIsConfigError(t *testing.T) {
	dial := NewDialer(Options{})

	_, err := dial(context.Background(), "mongodb://localhost/jobs")

	require.Error(t, err)
	assert.True(t, domainerrors.IsConfigError(err))
	assert.Contains(t, err.Error(), "mongodb")
}

func TestNewDialer_ThroughManager(t *testing.T) {
	dial := NewDialer(Options{Collections: entities.Collections()})
	m := connection.NewManager(connection.Config{URL: "sqlite::memory:"}, dial, logger.Discard())
	t.Cleanup(func() { _ = m.Close() })

	session, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", session.Driver())

	created, err := session.Collection("feeds").InsertOne(context.Background(), ports.Document{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", created["message"])
}
