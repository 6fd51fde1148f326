package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("NewError skips nil errors", func(t *testing.T) {
		t.Parallel()

		e := NewError("saving evento failed", errors.New("db down"), nil, ErrSalaOcupada)

		assert.Equal(t, "saving evento failed", e.Message)
		assert.Equal(t, []string{"db down", ErrSalaOcupada.Error()}, e.Messages())
	})

	t.Run("Error renders json", func(t *testing.T) {
		t.Parallel()

		e := NewError("evento not found", ErrEventoNotFound)
		assert.JSONEq(t, `{"message":"evento not found","err":["evento not found"]}`, e.Error())
	})

	t.Run("Unwrap joins messages", func(t *testing.T) {
		t.Parallel()

		unwrapped := NewError("base", errors.New("error 1"), errors.New("error 2")).Unwrap()
		require.Error(t, unwrapped)
		assert.Contains(t, unwrapped.Error(), "error 1")
		assert.Contains(t, unwrapped.Error(), "error 2")
	})

	t.Run("Unwrap nil or empty", func(t *testing.T) {
		t.Parallel()

		var e *Error
		require.NoError(t, e.Unwrap())
		require.NoError(t, (&Error{Message: "no errors"}).Unwrap())
	})
}
