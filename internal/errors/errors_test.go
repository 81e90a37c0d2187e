package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	err := NotFoundf("tag %q", "torah")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Contains(t, err.Error(), `tag "torah"`)
	assert.Contains(t, err.Error(), "not found")
}

func TestInvalidArgument(t *testing.T) {
	err := Wrap(InvalidArgumentf("unknown method %s", "foo"), "calculating")
	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "calculating")
	assert.Contains(t, err.Error(), "unknown method foo")
}

func TestConflict(t *testing.T) {
	err := Conflictf("tag name %q already used", "x")
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestNilIsNothing(t *testing.T) {
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsInvalidArgument(nil))
	assert.False(t, IsConflict(nil))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("boom"), "run 'gem init' first")
	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "run 'gem init' first", hints[0])
}
