package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		wantField string
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantCode: ErrCodeNotFound},
		{name: "wrapped no rows", err: fmt.Errorf("load: %w", pgx.ErrNoRows), wantCode: ErrCodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, wantCode: ErrCodeCanceled},
		{
			name: "unique violation from detail",
			err: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: "Key (email)=(ana@example.com) already exists.",
			},
			wantCode:  ErrCodeConflict,
			wantField: "email",
		},
		{
			name:      "not null",
			err:       &pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "value"},
			wantCode:  ErrCodeValidation,
			wantField: "value",
		},
		{
			name:     "other pg error",
			err:      &pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			wantCode: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapDBError(tt.err)
			assert.Equal(t, tt.wantCode, GetCode(got))
			assert.Equal(t, tt.wantField, GetField(got))
		})
	}
}

func TestMapDBError_Passthrough(t *testing.T) {
	plain := errors.New("plain")
	assert.Nil(t, MapDBError(nil))
	assert.Same(t, plain, MapDBError(plain))
}
