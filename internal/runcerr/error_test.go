package runcerr

import (
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndIs(t *testing.T) {
	err := New(InvalidStatus, "bad transition")

	k, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, InvalidStatus, k)
	assert.True(t, Is(err, InvalidStatus))
	assert.False(t, Is(err, NotFound))
}

func TestKindOfNonRuncErr(t *testing.T) {
	_, ok := KindOf(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(Io, nil, "msg"))
	assert.NoError(t, Wrapf(Io, nil, "msg %d", 1))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(Syscall, cause, "doing a thing")
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "doing a thing")
	assert.Contains(t, err.Error(), "Syscall")
}
