// Package pgutil holds helpers shared by the gorm repositories.
package pgutil

import (
	"errors"

	"family-finance-go/internal/domain/access"
	"family-finance-go/internal/domain/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// invalidTextRepresentation is raised by postgres when an id is not a valid uuid.
const invalidTextRepresentation = "22P02"

var domainKinds = []error{
	apperr.ErrNotFound,
	apperr.ErrForbidden,
	apperr.ErrValidation,
	apperr.ErrConflict,
	apperr.ErrUnauthenticated,
	apperr.ErrStorageUnavailable,
}

// Translate maps a gorm error to the domain taxonomy. Missing rows and malformed
// ids become notFound, unique violations become conflict and anything else is a
// storage failure.
func Translate(err error, notFound, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case IsInvalidID(err) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil:
		return conflict
	default:
		return Wrap(err)
	}
}

// Wrap passes domain errors through and marks everything else as a storage failure.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range domainKinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return apperr.Storage(err)
}

// Scoped restricts a query to the groups in scope. An empty scope matches nothing.
func Scoped(db *gorm.DB, scope access.Scope, column string) *gorm.DB {
	if scope.All {
		return db
	}
	if len(scope.GroupIDs) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where(column+" IN ?", scope.GroupIDs)
}

// IsInvalidID reports whether err is a postgres invalid text representation error.
func IsInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
