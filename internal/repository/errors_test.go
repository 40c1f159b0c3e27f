package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		write bool
		want  error
	}{
		{"nil", nil, false, nil},
		{"no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), false, ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "majors_name_key"}, true, ErrDuplicate},
		{"fk on delete", &pgconn.PgError{Code: "23503"}, false, ErrReferenced},
		{"fk on insert", &pgconn.PgError{Code: "23503"}, true, ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got error
			if tt.write {
				got = mapWriteError(tt.err)
			} else {
				got = mapError(tt.err)
			}
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Same(t, other, mapError(other))
}

func TestExpectAffected(t *testing.T) {
	assert.ErrorIs(t, expectAffected(pgconn.NewCommandTag("DELETE 0"), nil), ErrNotFound)
	assert.NoError(t, expectAffected(pgconn.NewCommandTag("DELETE 1"), nil))
}
