package command

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/state"
)

// Delete implements the `delete` driver. A Stopped container is removed
// outright; force additionally kills a still-running one first instead of
// rejecting the request, per §4.6's force-delete edge case.
func Delete(rootPath, id string, force bool) error {
	c, err := load(rootPath, id)
	if err != nil {
		return err
	}

	if c.Status() != state.Stopped && force {
		if err := c.DoKill(unix.SIGKILL); err != nil {
			return err
		}
		c.SetStatus(state.Stopped)
		if err := c.Save(); err != nil {
			return err
		}
	}

	if !c.CanDelete() {
		return runcerr.Newf(runcerr.InvalidStatus, "%s could not be deleted because it was %s", id, c.Status())
	}

	if err := os.RemoveAll(c.Root); err != nil {
		return runcerr.Wrap(runcerr.Io, err, "removing container directory")
	}

	fmt.Printf("container %s deleted\n", id)
	return nil
}
