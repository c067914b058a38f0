package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

// PostgreSQL error codes
const (
	pgUndefinedTable = "42P01"
	pgAdminShutdown  = "57P01"
)

// isPgError проверяет, является ли ошибка PostgreSQL ошибкой с определённым кодом.
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == code
}

// isConnectionLoss reports errors that mean the server went away: SQLSTATE
// class 08, admin shutdown, or a failure below the protocol level.
func isConnectionLoss(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == pgAdminShutdown
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr) || pgconn.SafeToRetry(err)
}

// wrapError maps driver errors onto the domain taxonomy.
func wrapError(op, collection string, err error) error {
	switch {
	case err == nil:
		return nil
	case isConnectionLoss(err):
		return domainerrors.NewConnectionError(op+" "+collection, err)
	case isPgError(err, pgUndefinedTable):
		return domainerrors.NewOperationError(op, collection,
			domainerrors.NewDomainError("UNDEFINED_TABLE", "collection table is missing, run migrations", err))
	default:
		return domainerrors.NewOperationError(op, collection, err)
	}
}
