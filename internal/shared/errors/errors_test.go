package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "not found", err: NotFoundf("pokemon %d not found", 7), want: ErrorTypeNotFound},
		{name: "validation", err: Validationf("bad id %q", "x"), want: ErrorTypeValidation},
		{name: "method", err: MethodNotAllowed("POST"), want: ErrorTypeMethodNotAllowed},
		{name: "external", err: WrapExternal("redis down", errors.New("dial")), want: ErrorTypeExternal},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", NotFoundf("pokemon %d gone", 4)), want: ErrorTypeNotFound},
		{name: "plain error", err: errors.New("boom"), want: ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetType(tt.err))
		})
	}
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	err := WrapNotFound("pokemon 3 not found", sql.ErrNoRows)

	assert.Equal(t, "pokemon 3 not found: sql: no rows in result set", err.Error())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, "method DELETE not allowed", MethodNotAllowed("DELETE").Error())
}
