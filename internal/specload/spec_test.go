package specload

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, spec *specs.Spec) {
	t.Helper()
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), data, 0o644))
}

func TestLoadProjectsFields(t *testing.T) {
	dir := t.TempDir()
	oomAdj := 5
	writeConfig(t, dir, &specs.Spec{
		Process: &specs.Process{Args: []string{"sh", "-c", "true"}},
		Root:    &specs.Root{Path: "rootfs"},
		Linux: &specs.Linux{
			Namespaces: []specs.LinuxNamespace{
				{Type: specs.PIDNamespace},
				{Type: specs.NetworkNamespace, Path: "/proc/1/ns/net"},
			},
			Resources: &specs.LinuxResources{OOMScoreAdj: &oomAdj},
		},
	})

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"sh", "-c", "true"}, cfg.Args)
	assert.Equal(t, filepath.Join(dir, "rootfs"), cfg.RootPath)
	require.NotNil(t, cfg.OOMScoreAdj)
	assert.Equal(t, 5, *cfg.OOMScoreAdj)

	ns, ok := cfg.HasNamespace(specs.NetworkNamespace)
	assert.True(t, ok)
	assert.Equal(t, "/proc/1/ns/net", ns.Path)

	_, ok = cfg.HasNamespace(specs.UTSNamespace)
	assert.False(t, ok)
}

func TestLoadRequiresProcessArgs(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, &specs.Spec{
		Process: &specs.Process{Args: nil},
		Root:    &specs.Root{Path: "rootfs"},
	})

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadRequiresRootPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, &specs.Spec{
		Process: &specs.Process{Args: []string{"sh"}},
		Root:    &specs.Root{Path: ""},
	})

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadAbsoluteRootPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, &specs.Spec{
		Process: &specs.Process{Args: []string{"sh"}},
		Root:    &specs.Root{Path: "/var/lib/rootfs"},
	})

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/rootfs", cfg.RootPath)
}
