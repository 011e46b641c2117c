package command

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/state"
)

// Stop implements the `stop` driver: unconditionally SIGKILL a Created or
// Running container and declare it Stopped.
func Stop(rootPath, id string) error {
	c, err := load(rootPath, id)
	if err != nil {
		return err
	}

	if !c.CanKill() {
		return runcerr.Newf(runcerr.InvalidStatus, "%s could not be stopped because it was %s", id, c.Status())
	}

	if err := c.DoKill(unix.SIGKILL); err != nil {
		return err
	}

	c.SetStatus(state.Stopped)
	if err := c.Save(); err != nil {
		return err
	}

	fmt.Printf("container %s stopped\n", id)
	return nil
}
