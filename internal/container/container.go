// Package container implements the in-memory container handle: a state
// record plus the canonical path of its state directory, with the
// status-refresh and signal primitives every lifecycle command drives.
package container

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/state"
)

// Container is the in-memory wrapper a command owns for the duration of one
// lifecycle operation. Persistence (Save) is the only cross-process channel.
type Container struct {
	State *state.State
	Root  string
}

// New builds a fresh container handle rooted at containerRoot (which must
// already have been created on disk by the caller).
func New(id string, status state.Status, pid *int, bundle, containerRoot string) (*Container, error) {
	root, err := filepath.Abs(containerRoot)
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Io, err, "resolving container root")
	}
	return &Container{
		State: state.New(id, status, pid, bundle),
		Root:  root,
	}, nil
}

// Load reads the state record from dir and wraps it in a handle.
func Load(dir string) (*Container, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Io, err, "resolving container root")
	}
	s, err := state.Load(root)
	if err != nil {
		return nil, err
	}
	return &Container{State: s, Root: root}, nil
}

// Save persists the current in-memory state atomically.
func (c *Container) Save() error {
	return state.Save(c.Root, c.State)
}

// ID returns the container identifier.
func (c *Container) ID() string { return c.State.ID }

// Status returns the currently-held status (callers should Refresh first if
// they need the /proc-corrected view).
func (c *Container) Status() state.Status { return c.State.Status }

// Pid returns the stored pid, or nil if none has been recorded yet.
func (c *Container) Pid() *int { return c.State.Pid }

// SetStatus mutates the in-memory status and returns the receiver, so
// callers can chain it with SetPid before Save, mirroring the fork
// coordinator's `set_status(...).set_pid(...).save()` sequence.
func (c *Container) SetStatus(s state.Status) *Container {
	c.State.Status = s
	return c
}

// SetPid mutates the in-memory pid and returns the receiver.
func (c *Container) SetPid(pid int) *Container {
	c.State.Pid = &pid
	return c
}

// CanStart is true iff status is Created.
func (c *Container) CanStart() bool {
	return c.State.Status == state.Created
}

// CanKill is true iff status is Created or Running.
func (c *Container) CanKill() bool {
	return c.State.Status == state.Created || c.State.Status == state.Running
}

// CanDelete is true iff status is Stopped.
func (c *Container) CanDelete() bool {
	return c.State.Status == state.Stopped
}

// Refresh corrects the in-memory status by inspecting /proc/<pid>/stat. It
// never writes to disk; persistence stays with the command that called it,
// so that commands can distinguish "observed stopped" from "declared
// stopped" (e.g. --force delete decides whether to still send SIGKILL).
func (c *Container) Refresh() {
	if c.State.Pid == nil {
		c.State.Status = state.Stopped
		return
	}

	procState, err := readProcState(*c.State.Pid)
	if err != nil {
		c.State.Status = state.Stopped
		return
	}

	switch procState {
	case "Z", "X":
		c.State.Status = state.Stopped
	default:
		switch c.State.Status {
		case state.Creating, state.Created:
			// init is alive but pre-exec: keep the declared status.
		default:
			c.State.Status = state.Running
		}
	}
}

// readProcState returns the single-character process state field (field 3)
// from /proc/<pid>/stat.
func readProcState(pid int) (string, error) {
	f, err := os.Open(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}

	// The comm field is "(name)" and may itself contain spaces/parens, so
	// locate fields after the last ')' rather than splitting naively.
	idx := strings.LastIndexByte(line, ')')
	if idx < 0 || idx+2 >= len(line) {
		return "", runcerr.Newf(runcerr.Io, "malformed /proc/%d/stat", pid)
	}
	fields := strings.Fields(line[idx+2:])
	if len(fields) < 1 {
		return "", runcerr.Newf(runcerr.Io, "malformed /proc/%d/stat", pid)
	}
	return fields[0], nil
}

// DoKill sends sig to the container's pid. ESRCH (already gone) is treated
// as success; the caller observes Stopped on the next refresh.
func (c *Container) DoKill(sig unix.Signal) error {
	if c.State.Pid == nil {
		return runcerr.New(runcerr.Syscall, "no process recorded for container")
	}
	if err := unix.Kill(*c.State.Pid, sig); err != nil {
		if err == unix.ESRCH {
			logrus.WithField("id", c.ID()).Debug("process already gone, treating kill as success")
			return nil
		}
		return runcerr.Wrapf(runcerr.Syscall, err, "kill(%d, %d)", *c.State.Pid, sig)
	}
	return nil
}
