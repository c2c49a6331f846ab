package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistence(t *testing.T) {
	cause := errors.New("connection refused")

	err := Persistence("save progress", cause)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save progress")
	assert.NoError(t, Persistence("noop", nil))
}

func TestInvalid(t *testing.T) {
	err := Invalid("bad pair %q", "@role")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `bad pair "@role"`)
}
