package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerClientRendezvous(t *testing.T) {
	dir := t.TempDir()

	ln, err := NewListener(dir)
	require.NoError(t, err)
	defer ln.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var waitErr error
	go func() {
		defer wg.Done()
		waitErr = ln.WaitForContainerStart()
	}()

	// Give the listener goroutine a moment to reach Accept.
	time.Sleep(10 * time.Millisecond)

	client := NewClient(dir)
	require.NoError(t, client.NotifyContainerStart())

	wg.Wait()
	assert.NoError(t, waitErr)
}

func TestClientDialFailsWithoutListener(t *testing.T) {
	dir := t.TempDir()
	client := NewClient(dir)
	assert.Error(t, client.NotifyContainerStart())
}

func TestListenerFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ln, err := NewListener(dir)
	require.NoError(t, err)
	defer ln.Close()

	f, err := ln.File()
	require.NoError(t, err)
	defer f.Close()
	assert.NotNil(t, f)
}
