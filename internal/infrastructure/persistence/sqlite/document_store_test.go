package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	s, err := Dial(context.Background(), "sqlite::memory:", entities.Collections()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, c ports.Collection, docs ...ports.Document) []ports.Document {
	t.Helper()
	out := make([]ports.Document, 0, len(docs))
	for _, d := range docs {
		created, err := c.InsertOne(context.Background(), d)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestPathFromDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"sqlite::memory:", ":memory:"},
		{"sqlite://:memory:", ":memory:"},
		{"sqlite:", ":memory:"},
		{"sqlite:///var/lib/jobs.db", "/var/lib/jobs.db"},
		{"sqlite://jobs.db", "jobs.db"},
		{"sqlite:jobs.db", "jobs.db"},
		{"file:jobs.db?cache=shared", "file:jobs.db?cache=shared"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, PathFromDSN(tt.dsn))
		})
	}
}

func TestDial_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")

	s, err := Dial(context.Background(), "sqlite://"+path, "jobs")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DriverName, s.Driver())
	assert.NoError(t, s.Ping(context.Background()))
	assert.FileExists(t, path)
}

func TestInsertOne_AssignsIdentityAndTimestamps(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()

	created, err := s.Collection("profiles").InsertOne(ctx, ports.Document{
		"userId":    "u1",
		"_id":       "forged",
		"createdAt": "yesterday",
	})

	require.NoError(t, err)
	assert.NotEqual(t, "forged", created[entities.FieldID])
	assert.Equal(t, "u1", created["userId"])
	assert.IsType(t, time.Time{}, created[entities.FieldCreatedAt])
}

func TestFindOne(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	profiles := s.Collection("profiles")
	seeded := seed(t, profiles,
		ports.Document{"userId": "u1", "isPremiumUser": true},
		ports.Document{"userId": "u2", "isPremiumUser": false},
	)

	found, err := profiles.FindOne(ctx, ports.Filter{ports.Eq("userId", "u2")})
	require.NoError(t, err)
	assert.Equal(t, seeded[1][entities.FieldID], found[entities.FieldID])

	byID, err := profiles.FindOne(ctx, ports.Filter{ports.Eq(entities.FieldID, seeded[0][entities.FieldID].(string))})
	require.NoError(t, err)
	assert.Equal(t, "u1", byID["userId"])

	premium, err := profiles.FindOne(ctx, ports.Filter{ports.Eq("isPremiumUser", "true")})
	require.NoError(t, err)
	assert.Equal(t, "u1", premium["userId"])

	_, err = profiles.FindOne(ctx, ports.Filter{ports.Eq("userId", "nobody")})
	assert.ErrorIs(t, err, domainerrors.ErrEntityNotFound)
}

func TestFind_EmptyCollectionReturnsEmptySlice(t *testing.T) {
	s := newSession(t)

	docs, err := s.Collection("feeds").Find(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestFind_SetMembership(t *testing.T) {
	s := newSession(t)
	jobs := s.Collection("jobs")
	seed(t, jobs,
		ports.Document{"title": "A", "skills": "go", "location": "Pune"},
		ports.Document{"title": "B", "skills": "python", "location": "Delhi"},
		ports.Document{"title": "C", "skills": []any{"rust", "c"}, "location": "Pune"},
		ports.Document{"title": "D", "location": "Pune"},
	)

	found, err := jobs.Find(context.Background(), ports.Filter{ports.In("skills", "go", "rust")})
	require.NoError(t, err)

	titles := make([]string, 0, len(found))
	for _, d := range found {
		titles = append(titles, d["title"].(string))
	}
	assert.Equal(t, []string{"A", "C"}, titles)
}

func TestFind_ConditionsAreConjunctive(t *testing.T) {
	s := newSession(t)
	jobs := s.Collection("jobs")
	seed(t, jobs,
		ports.Document{"title": "A", "skills": "go", "location": "Pune"},
		ports.Document{"title": "B", "skills": "go", "location": "Delhi"},
	)

	found, err := jobs.Find(context.Background(), ports.Filter{
		ports.In("skills", "go"),
		ports.In("location", "Delhi", "Mumbai"),
	})

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "B", found[0]["title"])
}

func TestFind_UnknownKeyMatchesNothing(t *testing.T) {
	s := newSession(t)
	jobs := s.Collection("jobs")
	seed(t, jobs, ports.Document{"title": "A"})

	found, err := jobs.Find(context.Background(), ports.Filter{ports.In("salaryBand", "high")})

	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFind_RejectsQuotedFieldNames(t *testing.T) {
	s := newSession(t)

	_, err := s.Collection("jobs").Find(context.Background(), ports.Filter{ports.In(`a"b`, "x")})

	assert.True(t, domainerrors.IsOperationError(err))
}

func TestFindOneAndUpdate_MergesTopLevel(t *testing.T) {
	s := newSession(t)
	ctx := context.Background()
	apps := s.Collection("applications")
	seeded := seed(t, apps, ports.Document{"name": "Ann", "status": []any{"Applied"}, "jobID": "j1"})
	id := seeded[0][entities.FieldID].(string)

	updated, err := apps.FindOneAndUpdate(ctx,
		ports.Filter{ports.Eq(entities.FieldID, id)},
		ports.Document{"status": []any{"Applied", "selected"}, "_id": "other"},
	)

	require.NoError(t, err)
	assert.Equal(t, id, updated[entities.FieldID])
	assert.Equal(t, "Ann", updated["name"])
	assert.Equal(t, []any{"Applied", "selected"}, updated["status"])
	assert.Equal(t, seeded[0][entities.FieldCreatedAt], updated[entities.FieldCreatedAt])

	reread, err := apps.FindOne(ctx, ports.Filter{ports.Eq(entities.FieldID, id)})
	require.NoError(t, err)
	assert.Equal(t, []any{"Applied", "selected"}, reread["status"])
}

func TestFindOneAndUpdate_NoMatch(t *testing.T) {
	s := newSession(t)

	_, err := s.Collection("applications").FindOneAndUpdate(context.Background(),
		ports.Filter{ports.Eq(entities.FieldID, "X")},
		ports.Document{"status": "accepted"},
	)

	assert.ErrorIs(t, err, domainerrors.ErrEntityNotFound)
}

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere(nil)
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", where)
	assert.Empty(t, args)

	where, _, err = buildWhere(ports.Filter{ports.In("skills")})
	require.NoError(t, err)
	assert.Equal(t, "1 = 0", where)

	_, _, err = buildWhere(ports.Filter{{Field: "x", Op: "like", Values: []string{"a"}}})
	assert.Error(t, err)
}
