package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCause = errors.New("cause")

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("keeps cause reachable", func(t *testing.T) {
		err := Wrap(errCause, CodeNotFound, "domain does not exist")
		require.Error(t, err)
		assert.ErrorIs(t, err, errCause)
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, "domain does not exist", MessageOf(err))
	})

	t.Run("outermost code wins", func(t *testing.T) {
		inner := New(CodeInvalidInput, "bad")
		outer := Wrap(inner, CodeInternal, "failed")
		assert.Equal(t, CodeInternal, CodeOf(outer))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errCause))
	assert.Equal(t, CodeTimeout, CodeOf(fmt.Errorf("query: %w", New(CodeTimeout, "slow"))))
	assert.True(t, Is(New(CodeConflict, "x"), CodeConflict))
}
