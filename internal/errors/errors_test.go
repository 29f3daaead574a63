package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "step not found"},
			want: "step not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "save journey",
				Cause:   errors.New("connection refused"),
			},
			want: "save journey: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(cause, ErrCodeUnavailable, "store unavailable"))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeUnavailable, GetCode(err))
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsNotFound(NotFoundf("step %d", 11)))
	assert.True(t, IsConflict(Conflict("locked")))
	assert.True(t, IsValidation(ValidationField("email", "required")))
	assert.True(t, IsUnauthorized(Unauthorized("login required")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, "email", GetField(ValidationField("email", "required")))
	assert.Empty(t, GetCode(errors.New("plain")))
}
