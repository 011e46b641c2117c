// Package state defines the persistent, JSON-encoded description of a
// container and its atomic save/load operations. It mirrors the OCI
// runtime "state" object (ociVersion, id, status, pid, bundle, annotations).
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// OCIVersion is the fixed runtime-spec version this runtime implements.
const OCIVersion = "v1.0.0"

// FileName is the on-disk name of the serialized state record.
const FileName = "state.json"

// Status is the container lifecycle status, serialized in camelCase.
type Status int

const (
	Creating Status = iota
	Created
	Running
	Stopped
)

var statusNames = [...]string{"creating", "created", "running", "stopped"}

func (s Status) String() string {
	if int(s) < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown container status %q", name)
}

// State is the persistent record for one container.
type State struct {
	OCIVersion  string            `json:"ociVersion"`
	ID          string            `json:"id"`
	Status      Status            `json:"status"`
	Pid         *int              `json:"pid,omitempty"`
	Bundle      string            `json:"bundle"`
	Annotations map[string]string `json:"annotations"`
}

// New builds a fresh in-memory State. pid may be nil.
func New(id string, status Status, pid *int, bundle string) *State {
	return &State{
		OCIVersion:  OCIVersion,
		ID:          id,
		Status:      status,
		Pid:         pid,
		Bundle:      bundle,
		Annotations: map[string]string{},
	}
}

// Load reads and validates the state record under dir (a container's state
// directory, named after its id).
func Load(dir string) (*State, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, runcerr.Wrapf(runcerr.NotFound, err, "no state for %q", filepath.Base(dir))
		}
		return nil, runcerr.Wrapf(runcerr.Io, err, "reading %s", path)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, runcerr.Wrapf(runcerr.Io, err, "corrupt state file %s", path)
	}

	if want := filepath.Base(dir); s.ID != want {
		return nil, runcerr.Newf(runcerr.Io, "state id %q does not match directory %q", s.ID, want)
	}

	return &s, nil
}

// Save writes the state record atomically: write to a temp file in the same
// directory, then rename over state.json, so a concurrent reader never
// observes a partial write.
func Save(dir string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return runcerr.Wrap(runcerr.Io, err, "marshaling state")
	}

	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "creating %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return runcerr.Wrapf(runcerr.Io, err, "writing %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return runcerr.Wrapf(runcerr.Io, err, "syncing %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return runcerr.Wrapf(runcerr.Io, err, "closing %s", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming %s to %s", tmp, path)
	}
	return nil
}
