package command

import (
	"fmt"

	"github.com/nestybox/ocirun/internal/runcerr"
	sig "github.com/nestybox/ocirun/internal/signal"
	"github.com/nestybox/ocirun/internal/state"
)

// Kill implements the `kill` driver: send a named signal to a Created or
// Running container, then declare it Stopped.
func Kill(rootPath, id, signalName string) error {
	c, err := load(rootPath, id)
	if err != nil {
		return err
	}

	if !c.CanKill() {
		return runcerr.Newf(runcerr.InvalidStatus, "%s could not be killed because it was %s", id, c.Status())
	}

	s, err := sig.FromString(signalName)
	if err != nil {
		return err
	}

	if err := c.DoKill(s); err != nil {
		return err
	}

	c.SetStatus(state.Stopped)
	if err := c.Save(); err != nil {
		return err
	}

	fmt.Printf("container %s killed\n", id)
	return nil
}
