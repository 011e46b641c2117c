package command

import (
	"encoding/json"
	"fmt"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// State implements the `state` driver: print the container's persisted
// state.json, refreshed against /proc so a dead init is reflected as
// Stopped before being reported.
func State(rootPath, id string) error {
	c, err := load(rootPath, id)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(c.State, "", "  ")
	if err != nil {
		return runcerr.Wrap(runcerr.Io, err, "marshaling state")
	}

	fmt.Println(string(out))
	return nil
}
