package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by every repository implementation.
var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced means the row cannot be removed while other rows point to it.
	ErrReferenced = errors.New("record is still referenced")
	// ErrInvalidReference means the write points at a row that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates pgx errors for reads and deletes.
func mapError(err error) error {
	return translate(err, ErrReferenced)
}

// mapWriteError translates pgx errors for inserts and updates, where a foreign key
// violation means the caller pointed at a missing parent.
func mapWriteError(err error) error {
	return translate(err, ErrInvalidReference)
}

func translate(err error, foreignKey error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", foreignKey, pgErr.ConstraintName)
		}
	}
	return err
}

// expectAffected turns a zero-row command into ErrNotFound.
func expectAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
