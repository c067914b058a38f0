// Package persistence picks the document store for a database endpoint.
package persistence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/connection"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/postgres"
	"github.com/Haleralex/jobportal/internal/infrastructure/persistence/sqlite"
)

// Options configures the stores a Dialer may open.
type Options struct {
	Postgres    postgres.Config
	Collections []string // created on open by stores that manage their own schema
}

// Scheme returns the lower-cased URL scheme of dsn ("" when there is none).
func Scheme(dsn string) string {
	i := strings.Index(dsn, ":")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(dsn[:i])
}

// NewDialer returns a connection.Dialer that routes by endpoint scheme:
// postgres:// and postgresql:// go to PostgreSQL, sqlite: and file: to SQLite.
func NewDialer(opts Options) connection.Dialer {
	return func(ctx context.Context, dsn string) (ports.Session, error) {
		switch Scheme(dsn) {
		case "postgres", "postgresql":
			if _, err := url.Parse(dsn); err != nil {
				return nil, domainerrors.NewConfigError("database.url", "malformed postgres URL")
			}
			return postgres.Dial(ctx, dsn, opts.Postgres)
		case "sqlite", "file":
			return sqlite.Dial(ctx, dsn, opts.Collections...)
		default:
			return nil, domainerrors.NewConfigError("database.url",
				fmt.Sprintf("unsupported database scheme %q: %v", Scheme(dsn), domainerrors.ErrUnknownDriver))
		}
	}
}
