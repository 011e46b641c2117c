// Package rootfs is the rootfs-preparation collaborator: it stages the
// container's device nodes into the bundle's root.path and performs the
// pivot that switches init's root directory to the prepared rootfs. The
// OCI mount-spec interpretation and image layer handling are out of scope
// for the core (§1); this package implements only the narrow contract
// init's bootstrap needs: "make root.path into a usable, isolated root and
// chdir into it."
package rootfs

import (
	"os"
	"path/filepath"

	"github.com/moby/sys/mountinfo"
	"github.com/mrunalp/fileutils"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// defaultDevices lists the minimal device nodes a POSIX payload expects to
// find under /dev, mirroring what the OCI default spec lists.
var defaultDevices = []string{"null", "zero", "full", "random", "urandom", "tty"}

// Preparer prepares and pivots into root.path.
type Preparer struct {
	Root string
}

// New addresses a rootfs Preparer for the given resolved root.path.
func New(root string) *Preparer {
	return &Preparer{Root: root}
}

// AlreadyMounted reports whether root.path is already a mount point (e.g.
// bind-mounted by an external collaborator before create ran), in which
// case this package must not attempt to mount over it a second time.
func (p *Preparer) AlreadyMounted() (bool, error) {
	mounted, err := mountinfo.Mounted(p.Root)
	if err != nil {
		return false, runcerr.Wrapf(runcerr.Syscall, err, "checking mount status of %s", p.Root)
	}
	return mounted, nil
}

// Prepare bind-mounts root.path onto itself (making it a mount point, a
// prerequisite for pivot_root) and populates /dev with the minimal device
// set, copying existing host device files rather than mknod'ing them, so
// the core does not need CAP_MKNOD.
func (p *Preparer) Prepare() error {
	mounted, err := p.AlreadyMounted()
	if err != nil {
		return err
	}
	if !mounted {
		if err := unix.Mount(p.Root, p.Root, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
			return runcerr.Wrapf(runcerr.Syscall, err, "bind-mounting rootfs %s onto itself", p.Root)
		}
	}

	devDir := filepath.Join(p.Root, "dev")
	if err := os.MkdirAll(devDir, 0o755); err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "creating %s", devDir)
	}

	for _, name := range defaultDevices {
		src := filepath.Join("/dev", name)
		dst := filepath.Join(devDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := fileutils.CopyFile(src, dst); err != nil {
			return runcerr.Wrapf(runcerr.Io, err, "staging device %s into rootfs", name)
		}
	}

	return nil
}

// Pivot performs the pivot_root dance: mkdir a temporary old-root under the
// new root, pivot_root into it, chdir to the new "/", then unmount and
// remove the old root so nothing outside the container is reachable.
func (p *Preparer) Pivot() error {
	oldRoot := filepath.Join(p.Root, ".pivot_root_old")
	if err := os.MkdirAll(oldRoot, 0o700); err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "creating pivot_root staging dir")
	}

	if err := unix.PivotRoot(p.Root, oldRoot); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "pivot_root")
	}

	if err := unix.Chdir("/"); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "chdir to new root")
	}

	oldRootAfterPivot := filepath.Join("/", filepath.Base(oldRoot))
	if err := unix.Unmount(oldRootAfterPivot, unix.MNT_DETACH); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "unmounting old root")
	}
	if err := os.RemoveAll(oldRootAfterPivot); err != nil {
		return runcerr.Wrap(runcerr.Io, err, "removing old root staging dir")
	}

	return nil
}
