package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	errClosed := NewError(ErrAdmission, "create_booking: shop is closed")

	assert.Equal(t, "create_booking: shop is closed", errClosed.Error())
	assert.True(t, errors.Is(errClosed, ErrAdmission))
	assert.False(t, errors.Is(errClosed, ErrValidation))

	wrapped := fmt.Errorf("%w: shop id=42", errClosed)
	assert.True(t, errors.Is(wrapped, errClosed))
	assert.True(t, errors.Is(wrapped, ErrAdmission))
}
