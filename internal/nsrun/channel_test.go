package nsrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondNotifyWait(t *testing.T) {
	c, err := NewCond()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	require.NoError(t, c.Notify())
	assert.NoError(t, <-done)
}

func TestCondWaitWithoutNotify(t *testing.T) {
	c, err := NewCond()
	require.NoError(t, err)
	c.w.Close()

	assert.Error(t, c.Wait())
}

func TestParentChannelPidRoundTrip(t *testing.T) {
	p, err := NewParentChannel()
	require.NoError(t, err)

	done := make(chan struct {
		pid int
		err error
	}, 1)
	go func() {
		pid, err := p.RecvInitPid()
		done <- struct {
			pid int
			err error
		}{pid, err}
	}()

	require.NoError(t, p.SendInitPid(4242))
	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, 4242, got.pid)
}

func TestChildChannelReadyRoundTrip(t *testing.T) {
	c, err := NewChildChannel()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.RecvReady() }()

	require.NoError(t, c.SendReady())
	assert.NoError(t, <-done)
}

func TestChildChannelClosedWithoutReady(t *testing.T) {
	c, err := NewChildChannel()
	require.NoError(t, err)
	c.w.Close()

	assert.Error(t, c.RecvReady())
}
