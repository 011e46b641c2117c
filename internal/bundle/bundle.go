// Package bundle resolves bundle and rootfs paths the way the state
// record's "bundle is canonical" invariant requires, using
// filepath-securejoin so a rootfs path is never resolved outside of its
// declared root even when it traverses symlinks.
package bundle

import (
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// Canonicalize resolves p to an absolute, symlink-free path. It is used for
// the bundle directory itself, which must be fully resolved before it is
// recorded in state.json.
func Canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", runcerr.Wrapf(runcerr.Io, err, "resolving %s", p)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", runcerr.Wrapf(runcerr.Io, err, "canonicalizing %s", abs)
	}
	return real, nil
}

// SecureJoinRoot joins rel onto root, guaranteeing the resolved path cannot
// escape root via ".." or symlinks planted inside the rootfs. An escaping
// rel is clamped under root rather than rejected. The rootfs preparer does
// not call it; it joins its own paths with filepath.Join.
func SecureJoinRoot(root, rel string) (string, error) {
	joined, err := securejoin.SecureJoin(root, rel)
	if err != nil {
		return "", runcerr.Wrapf(runcerr.Io, err, "joining %q under rootfs %s", rel, root)
	}
	return joined, nil
}

// EnsureDir creates dir (and parents) if it doesn't already exist, failing
// loudly (AlreadyExists) if it does — the shape `create` needs for
// `<root>/<id>`.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return runcerr.Newf(runcerr.AlreadyExists, "%s already exists", dir)
	} else if !os.IsNotExist(err) {
		return runcerr.Wrapf(runcerr.Io, err, "stat %s", dir)
	}
	if err := os.MkdirAll(dir, 0o711); err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "creating %s", dir)
	}
	return nil
}
