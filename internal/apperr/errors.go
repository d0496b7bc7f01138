// Package apperr holds the error vocabulary shared by stores, services and the HTTP layer.
package apperr

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrConflict       = errors.New("conflict")
	ErrForbidden      = errors.New("forbidden")
	ErrNotPending     = errors.New("match is not pending")
	ErrNoActiveSeason = errors.New("no active season")
	ErrInvalidInput   = errors.New("invalid input")
)

// MapSQLError translates driver constraint errors into the sentinels above.
// Anything it does not recognise is returned unchanged.
func MapSQLError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrAlreadyExists
		case sqlite3.ErrConstraintForeignKey:
			return ErrConflict
		}
	}
	return err
}
