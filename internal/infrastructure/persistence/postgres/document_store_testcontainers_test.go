// Интеграционные тесты документного хранилища с testcontainers.
//
// Требования: запущенный Docker. Пропускаются при go test -short.
package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

var (
	sharedOnce    sync.Once
	sharedSession *Session
	sharedErr     error
)

// setupSession starts one container per test binary and truncates tables between tests.
func setupSession(t *testing.T) *Session {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping testcontainers test in short mode")
	}

	sharedOnce.Do(func() {
		ctx := context.Background()
		migration := filepath.Join("..", "..", "..", "..", "migrations", "000001_create_collections.up.sql")

		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("jobportal"),
			tcpostgres.WithUsername("testuser"),
			tcpostgres.WithPassword("testpass"),
			tcpostgres.WithInitScripts(migration),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			sharedErr = err
			return
		}

		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedErr = err
			return
		}
		sharedSession, sharedErr = Dial(ctx, dsn, DefaultConfig())
	})
	require.NoError(t, sharedErr)

	_, err := sharedSession.pool.Exec(context.Background(), `TRUNCATE profiles, jobs, applications, feeds`)
	require.NoError(t, err)
	return sharedSession
}

func TestCollection_InsertAndFindOne(t *testing.T) {
	s := setupSession(t)
	ctx := context.Background()
	profiles := s.Collection("profiles")

	created, err := profiles.InsertOne(ctx, ports.Document{"userId": "u1", "role": "candidate", "_id": "forged"})
	require.NoError(t, err)
	assert.NotEqual(t, "forged", created["_id"])
	assert.NotEmpty(t, created["_id"])

	found, err := profiles.FindOne(ctx, ports.Filter{ports.Eq("userId", "u1")})
	require.NoError(t, err)
	assert.Equal(t, created["_id"], found["_id"])
	assert.Equal(t, "candidate", found["role"])
}

func TestCollection_FindOneNotFound(t *testing.T) {
	s := setupSession(t)

	_, err := s.Collection("profiles").FindOne(context.Background(), ports.Filter{ports.Eq("userId", "nobody")})

	assert.ErrorIs(t, err, domainerrors.ErrEntityNotFound)
}

func TestCollection_FindWithMembership(t *testing.T) {
	s := setupSession(t)
	ctx := context.Background()
	jobs := s.Collection("jobs")

	for _, doc := range []ports.Document{
		{"title": "A", "skills": "go", "location": "Pune"},
		{"title": "B", "skills": "python", "location": "Delhi"},
		{"title": "C", "skills": []any{"rust", "c"}, "location": "Pune"},
	} {
		_, err := jobs.InsertOne(ctx, doc)
		require.NoError(t, err)
	}

	found, err := jobs.Find(ctx, ports.Filter{ports.In("skills", "go", "rust")})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "A", found[0]["title"])
	assert.Equal(t, "C", found[1]["title"])

	none, err := jobs.Find(ctx, ports.Filter{ports.In("unknownKey", "x")})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := jobs.Find(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCollection_FindOneAndUpdate(t *testing.T) {
	s := setupSession(t)
	ctx := context.Background()
	apps := s.Collection("applications")

	created, err := apps.InsertOne(ctx, ports.Document{"name": "Ann", "status": []any{"Applied"}})
	require.NoError(t, err)

	updated, err := apps.FindOneAndUpdate(ctx,
		ports.Filter{ports.Eq("_id", created["_id"].(string))},
		ports.Document{"status": []any{"Applied", "selected"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated["name"])
	assert.Equal(t, []any{"Applied", "selected"}, updated["status"])

	_, err = apps.FindOneAndUpdate(ctx, ports.Filter{ports.Eq("_id", "X")}, ports.Document{"status": "accepted"})
	assert.ErrorIs(t, err, domainerrors.ErrEntityNotFound)
}

func TestSession_PingAndStats(t *testing.T) {
	s := setupSession(t)

	require.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, DriverName, s.Driver())
	assert.Positive(t, s.Stats().MaxConns)
}
