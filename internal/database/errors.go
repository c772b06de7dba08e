// internal/database/errors.go
package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes the service reacts to.
const (
	PgErrForeignKeyViolation = "23503" // foreign_key_violation
	PgErrUniqueViolation     = "23505" // unique_violation
	PgErrNotNullViolation    = "23502" // not_null_violation
	PgErrUndefinedTable      = "42P01" // undefined_table
	PgErrConnectionFailure   = "08006" // connection_failure
)

const (
	CodeNotFound      = "ENTITY_NOT_FOUND"
	CodeDatabaseError = "DATABASE_ERROR"
)

// StoreError is a store failure reduced to a code the transport can map.
type StoreError struct {
	Code    string
	Message string
	Detail  string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ClassifyError turns a GORM/pgx error into a *StoreError. nil stays nil.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StoreError{Code: CodeNotFound, Message: "record does not exist", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Detail:  pgErr.Detail,
			Err:     err,
		}
	}

	return &StoreError{
		Code:    CodeDatabaseError,
		Message: "Database error occured",
		Detail:  err.Error(),
		Err:     err,
	}
}

// IsConstraintViolation reports whether err is a foreign-key or unique violation.
func IsConstraintViolation(err error) bool {
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		return false
	}
	return storeErr.Code == PgErrForeignKeyViolation || storeErr.Code == PgErrUniqueViolation
}
