package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrTypeMismatch, "value %v of attribute %q", 42, "name")
	assert.True(t, Is(err, ErrTypeMismatch))
	assert.False(t, Is(err, ErrArityMismatch))
	assert.Contains(t, err.Error(), `attribute "name"`)
	assert.Contains(t, err.Error(), "value type mismatch")
}

func TestIsConstructionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil argument", Wrap(ErrNilArgument, "no type"), true},
		{"arity", Wrap(ErrArityMismatch, "BETWEEN"), true},
		{"type", ErrTypeMismatch, true},
		{"cycle", Wrap(ErrCycleDetected, "loop"), false},
		{"validation", ErrValidation, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConstructionError(tt.err))
		})
	}
}

func TestHints(t *testing.T) {
	err := WithHint(Wrap(ErrMissingParameter, "accessAreaIds"), "pass the parameter with --param")
	assert.True(t, Is(err, ErrMissingParameter))
	assert.Equal(t, "pass the parameter with --param", FlattenHints(err))
}
