package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositiveInt(t *testing.T) {
	n, err := PositiveInt("words", " 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"0", "-3", "", "abc", "1.5"} {
		_, err := PositiveInt("words", bad)
		var fe *FieldError
		require.ErrorAs(t, err, &fe, "input %q", bad)
		assert.Equal(t, "words", fe.Field)
	}
}

func TestNonNegativeInt(t *testing.T) {
	n, err := NonNegativeInt("current_words", "0")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NonNegativeInt("current_words", "-1")
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "current_words", fe.Field)
}

func TestOptionalNonNegativeInt(t *testing.T) {
	_, ok, err := OptionalNonNegativeInt("current_words", "   ")
	require.NoError(t, err)
	assert.False(t, ok)

	n, ok, err := OptionalNonNegativeInt("current_words", "250")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(250), n)

	_, ok, err = OptionalNonNegativeInt("current_words", "nope")
	require.Error(t, err)
	assert.False(t, ok)
}
