package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// MapError translates driver errors into the API error kinds. Errors that are
// already typed pass through untouched.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, appErrors.ErrNotFound.Message)
	}

	state, message := sqlState(err)
	switch state {
	case sqlStateUniqueViolation:
		return appErrors.Wrap(err, appErrors.ErrDuplicateEntry.Code, appErrors.ErrDuplicateEntry.Status, orDefault(message, appErrors.ErrDuplicateEntry.Message))
	case sqlStateForeignKeyViolation:
		return appErrors.Wrap(err, appErrors.ErrForeignKeyViolation.Code, appErrors.ErrForeignKeyViolation.Status, orDefault(message, appErrors.ErrForeignKeyViolation.Message))
	}
	return appErrors.Wrap(err, appErrors.ErrUnknown.Code, appErrors.ErrUnknown.Status, appErrors.ErrUnknown.Message)
}

func sqlState(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Message
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message
	}
	return "", ""
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
