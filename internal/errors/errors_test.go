package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyFile(t *testing.T) {
	err := EmptyFile("/tmp/foo.txt")
	require.Error(t, err)
	assert.True(t, IsEmptyFile(err))
	assert.Contains(t, err.Error(), "/tmp/foo.txt")
}

func TestIoErrorUnwrap(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := IoError("open", "/tmp/foo.txt", underlying)
	assert.False(t, IsEmptyFile(err))
	assert.ErrorIs(t, err, underlying)
}

func TestInvalidRegex(t *testing.T) {
	underlying := fmt.Errorf("missing closing paren")
	err := InvalidRegex("(abc", underlying)
	assert.Contains(t, err.Error(), "(abc")
	assert.ErrorIs(t, err, underlying)
}

func TestChannelClosedIsSentinel(t *testing.T) {
	assert.True(t, errors.Is(ChannelClosed, ChannelClosed))
}

func TestMultiErrorFiltersNil(t *testing.T) {
	me := NewMultiError([]error{nil, fmt.Errorf("a"), nil, fmt.Errorf("b")})
	assert.True(t, me.HasErrors())
	assert.Len(t, me.Errors, 2)
	assert.Contains(t, me.Error(), "2 errors")
}

func TestMultiErrorSingle(t *testing.T) {
	me := NewMultiError([]error{fmt.Errorf("only")})
	assert.Equal(t, "only", me.Error())
}

func TestMultiErrorEmpty(t *testing.T) {
	me := NewMultiError(nil)
	assert.False(t, me.HasErrors())
	assert.Equal(t, "no errors", me.Error())
}

func TestSpliceError(t *testing.T) {
	underlying := fmt.Errorf("short write")
	err := NewSpliceError("/tmp/f", 42, underlying)
	assert.Contains(t, err.Error(), "/tmp/f:42")
	assert.ErrorIs(t, err, underlying)
}
