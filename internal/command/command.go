// Package command implements the six lifecycle drivers (§4.6): thin
// wrappers that load or build a container handle, call into the core, and
// report results the way the original's per-file command structs
// (create.rs, start.rs, kill.rs, stop.rs, delete.rs, state.rs) each do.
package command

import (
	"path/filepath"

	"github.com/nestybox/ocirun/internal/container"
	"github.com/nestybox/ocirun/internal/runcerr"
)

// containerRoot resolves root to an absolute path and joins id, mirroring
// how each of the original driver functions independently canonicalizes
// root_path before composing the container's state directory. It does not
// require root to already exist (create may be the first command to ever
// touch it), so it uses plain path resolution rather than symlink-resolving
// canonicalization.
func containerRoot(root, id string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", runcerr.Wrapf(runcerr.Io, err, "resolving state root %s", root)
	}
	return filepath.Join(abs, id), nil
}

// load resolves <root>/<id> and loads its state, refreshing status against
// /proc before returning, the way every command but create does.
func load(root, id string) (*container.Container, error) {
	dir, err := containerRoot(root, id)
	if err != nil {
		return nil, err
	}
	c, err := container.Load(dir)
	if err != nil {
		return nil, err
	}
	c.Refresh()
	return c, nil
}
