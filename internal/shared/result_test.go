package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRight(t *testing.T) {
	res := Right[*Error]("payload")

	assert.True(t, res.IsRight())
	assert.False(t, res.IsLeft())
	assert.Equal(t, "payload", res.Value())
	assert.Nil(t, res.Err())
}

func TestResultLeft(t *testing.T) {
	res := Left[*Error, string](NotFoundError("course %d not found", 42))

	assert.True(t, res.IsLeft())
	assert.False(t, res.IsRight())
	require.NotNil(t, res.Err())
	assert.Equal(t, "course 42 not found", res.Err().Error())
	assert.ErrorIs(t, res.Err(), ErrNotFound)
}

func TestResultWrongVariantYieldsZeroValue(t *testing.T) {
	left := Left[*Error, string](ForbiddenError("nope"))
	assert.Equal(t, "", left.Value())

	right := Right[*Error]("ok")
	assert.Nil(t, right.Err())
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  *Error
		kind error
	}{
		{UnauthorizedError("a"), ErrUnauthorized},
		{ForbiddenError("b"), ErrForbidden},
		{NotFoundError("c"), ErrNotFound},
		{ConflictError("d"), ErrConflict},
		{BadRequestError("e"), ErrBadRequest},
	}
	for _, tc := range cases {
		assert.ErrorIs(t, tc.err, tc.kind)
		assert.Equal(t, tc.kind, tc.err.Kind())
	}
}
