package container

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/state"
)

func TestPredicates(t *testing.T) {
	dir := t.TempDir()
	c, err := New("id1", state.Creating, nil, "/bundle", dir)
	require.NoError(t, err)

	assert.False(t, c.CanStart())
	assert.False(t, c.CanKill())
	assert.False(t, c.CanDelete())

	c.SetStatus(state.Created)
	assert.True(t, c.CanStart())
	assert.True(t, c.CanKill())
	assert.False(t, c.CanDelete())

	c.SetStatus(state.Running)
	assert.False(t, c.CanStart())
	assert.True(t, c.CanKill())
	assert.False(t, c.CanDelete())

	c.SetStatus(state.Stopped)
	assert.False(t, c.CanStart())
	assert.False(t, c.CanKill())
	assert.True(t, c.CanDelete())
}

func TestSaveLoad(t *testing.T) {
	// Load requires the directory to be named after the container id.
	dir := filepath.Join(t.TempDir(), "id2")
	require.NoError(t, os.Mkdir(dir, 0o755))
	c, err := New("id2", state.Created, nil, "/bundle", dir)
	require.NoError(t, err)
	require.NoError(t, c.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "id2", loaded.ID())
	assert.Equal(t, state.Created, loaded.Status())
}

func TestRefreshNoPid(t *testing.T) {
	dir := t.TempDir()
	c, err := New("id3", state.Creating, nil, "/bundle", dir)
	require.NoError(t, err)

	c.Refresh()
	assert.Equal(t, state.Stopped, c.Status())
}

func TestRefreshLiveProcess(t *testing.T) {
	dir := t.TempDir()
	cmd := exec.Command("sleep", "5")
	require.NoError(t, cmd.Start())
	defer cmd.Process.Kill()

	c, err := New("id4", state.Running, nil, "/bundle", dir)
	require.NoError(t, err)
	c.SetPid(cmd.Process.Pid)

	c.Refresh()
	assert.Equal(t, state.Running, c.Status())
}

func TestRefreshDeadProcess(t *testing.T) {
	dir := t.TempDir()
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	c, err := New("id5", state.Running, nil, "/bundle", dir)
	require.NoError(t, err)
	// A pid this test doesn't own but that is certain not to exist: reuse an
	// already-reaped child's pid is racy, so pick a value far past any
	// plausible live pid instead.
	c.SetPid(1 << 30)

	c.Refresh()
	assert.Equal(t, state.Stopped, c.Status())
}

func TestDoKillESRCHIsSuccess(t *testing.T) {
	dir := t.TempDir()
	c, err := New("id6", state.Running, nil, "/bundle", dir)
	require.NoError(t, err)
	c.SetPid(1 << 30)

	err = c.DoKill(unix.SIGTERM)
	assert.NoError(t, err)
}

func TestDoKillNoPid(t *testing.T) {
	dir := t.TempDir()
	c, err := New("id7", state.Creating, nil, "/bundle", dir)
	require.NoError(t, err)

	err = c.DoKill(unix.SIGTERM)
	assert.Error(t, err)
}
