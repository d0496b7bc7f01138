package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `validate:"required,max=5"`
	Score int    `validate:"gte=0,lte=40"`
	Kind  string `validate:"oneof=a b"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample{Name: "ok", Score: 3, Kind: "a"}))

	err := Validate(sample{Name: "", Score: 41, Kind: "c"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	fields := FieldErrors(err)
	require.Len(t, fields, 3)
	assert.Equal(t, "Name", fields[0].Field)
	assert.Equal(t, "is required", fields[0].Message)
	assert.Equal(t, "must be <= 40", fields[1].Message)
}

func TestInvalid(t *testing.T) {
	assert.NoError(t, Invalid())

	err := fmt.Errorf("create: %w", Invalid(FieldError{Field: "players", Message: "must be distinct"}))

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "players: must be distinct")
	assert.Len(t, FieldErrors(err), 1)
}

func TestMapSQLError(t *testing.T) {
	assert.NoError(t, MapSQLError(nil))
	assert.ErrorIs(t, MapSQLError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}), ErrAlreadyExists)
	assert.ErrorIs(t, MapSQLError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}), ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, MapSQLError(other))
}
