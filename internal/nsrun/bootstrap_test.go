package nsrun

import (
	"os"
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestybox/ocirun/internal/specload"
)

func TestBootstrapConfigRoundTrip(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	oomAdj := -500
	want := &BootstrapConfig{
		Args:          []string{"sh", "-c", "true"},
		RootPath:      "/var/lib/containers/c1/rootfs",
		ContainerRoot: "/run/ocirun/c1",
		ContainerID:   "c1",
		Namespaces: []specload.NamespaceSpec{
			{Type: specs.PIDNamespace},
			{Type: specs.NetworkNamespace, Path: "/proc/1/ns/net"},
		},
		OOMScoreAdj:   &oomAdj,
		ConsoleSocket: "/tmp/console.sock",
		BootstrapID:   "test-bootstrap-id",
	}

	go func() {
		_ = writeBootstrap(w, want)
	}()

	got, err := readBootstrap(r)
	require.NoError(t, err)
	assert.Equal(t, want.Args, got.Args)
	assert.Equal(t, want.RootPath, got.RootPath)
	assert.Equal(t, want.ContainerRoot, got.ContainerRoot)
	assert.Equal(t, want.ContainerID, got.ContainerID)
	assert.Equal(t, want.Namespaces, got.Namespaces)
	require.NotNil(t, got.OOMScoreAdj)
	assert.Equal(t, *want.OOMScoreAdj, *got.OOMScoreAdj)
	assert.Equal(t, want.ConsoleSocket, got.ConsoleSocket)
	assert.Equal(t, want.BootstrapID, got.BootstrapID)
}
