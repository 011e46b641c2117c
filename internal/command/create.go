package command

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nestybox/ocirun/internal/bundle"
	"github.com/nestybox/ocirun/internal/container"
	"github.com/nestybox/ocirun/internal/notify"
	"github.com/nestybox/ocirun/internal/nsrun"
	"github.com/nestybox/ocirun/internal/specload"
	"github.com/nestybox/ocirun/internal/state"
)

// Create implements the `create` driver: reject an existing id, build the
// container directory, load the spec, persist Creating, then run the fork
// coordinator. Errors before the Creating record is persisted remove the
// just-created directory; errors after that point (the "fork failure" arrow
// in §3's state machine) instead persist Stopped and leave the directory
// for `state`/`delete` to observe.
func Create(rootPath, id, bundlePath, pidFile, consoleSocket string) error {
	dir, err := containerRoot(rootPath, id)
	if err != nil {
		return err
	}

	if err := bundle.EnsureDir(dir); err != nil {
		return err
	}

	bundleAbs, err := bundle.Canonicalize(bundlePath)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}

	cfg, err := specload.Load(bundleAbs)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}

	c, err := container.New(id, state.Creating, nil, bundleAbs, dir)
	if err != nil {
		os.RemoveAll(dir)
		return err
	}
	if err := c.Save(); err != nil {
		os.RemoveAll(dir)
		return err
	}

	ln, err := notify.NewListener(c.Root)
	if err != nil {
		markBootstrapFailed(c)
		return err
	}
	defer ln.Close()

	if _, err := nsrun.Bootstrap(cfg, c, ln, pidFile, consoleSocket); err != nil {
		markBootstrapFailed(c)
		return err
	}

	fmt.Printf("container %s created\n", id)
	return nil
}

// markBootstrapFailed persists the "fork failure" transition from §3's
// state diagram: Creating collapses straight to Stopped, and the directory
// is left behind instead of removed.
func markBootstrapFailed(c *container.Container) {
	c.SetStatus(state.Stopped)
	if err := c.Save(); err != nil {
		logrus.WithError(err).WithField("id", c.ID()).Error("failed to persist bootstrap failure")
	}
}
