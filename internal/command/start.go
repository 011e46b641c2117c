package command

import (
	"fmt"

	"github.com/nestybox/ocirun/internal/notify"
	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/state"
)

// Start implements the `start` driver: release a Created container into
// Running by connecting to its notify socket.
func Start(rootPath, id string) error {
	c, err := load(rootPath, id)
	if err != nil {
		return err
	}

	if !c.CanStart() {
		return runcerr.Newf(runcerr.InvalidStatus, "%s could not be started because it was %s", id, c.Status())
	}

	if err := notify.NewClient(c.Root).NotifyContainerStart(); err != nil {
		return err
	}

	c.SetStatus(state.Running)
	if err := c.Save(); err != nil {
		return err
	}

	fmt.Printf("container %s started\n", id)
	return nil
}
