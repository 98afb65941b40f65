package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
		msg  string
	}{
		{NotFound("item %d was not found", 3), ErrNotFound, "item 3 was not found"},
		{Forbidden("not the owner"), ErrForbidden, "not the owner"},
		{Validation("empty patch"), ErrValidation, "empty patch"},
		{UnsupportedState("BOGUS"), ErrUnsupportedState, "Unknown state: BOGUS"},
		{Conflict("email %q is taken", "a@b.c"), ErrConflict, `email "a@b.c" is taken`},
	}

	for _, tt := range tests {
		assert.True(t, errors.Is(tt.err, tt.kind), tt.msg)
		assert.Equal(t, tt.msg, tt.err.Error())

		wrapped := fmt.Errorf("outer: %w", tt.err)
		assert.True(t, errors.Is(wrapped, tt.kind))

		var domainErr *Error
		assert.True(t, errors.As(wrapped, &domainErr))
	}

	assert.False(t, errors.Is(NotFound("x"), ErrForbidden))
}
