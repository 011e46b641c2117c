package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeResolvesSymlink(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(real, link))

	got, err := Canonicalize(link)
	require.NoError(t, err)
	assert.Equal(t, real, got)
}

func TestSecureJoinRootClampsEscape(t *testing.T) {
	root := t.TempDir()
	joined, err := SecureJoinRoot(root, "../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, filepath.HasPrefix(joined, root))
}

func TestEnsureDirCreatesOnce(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "child")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	err = EnsureDir(dir)
	assert.Error(t, err)
}
