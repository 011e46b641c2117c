package nsrun

import (
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nestybox/ocirun/internal/container"
	"github.com/nestybox/ocirun/internal/notify"
	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/specload"
	"github.com/nestybox/ocirun/internal/state"
)

// Handoff is what the create command learns once the parent branch of
// fork_first returns.
type Handoff struct {
	IntermediatePID int
	InitPID         int
}

// Bootstrap runs fork_first (§4.4 Step A) from the parent's side: it spawns
// the intermediate process (stage1, which performs Step B and Step C
// itself), blocks on the readiness condition and then the parent channel
// (stage1 sends on the latter only after init's ready message on the child
// channel), and persists Created+pid once the init pid is known. ln must already be bound at
// c.Root before this call, so its path exists before init ever waits on it.
func Bootstrap(cfg *specload.Config, c *container.Container, ln *notify.Listener, pidFile, consoleSocket string) (*Handoff, error) {
	// bootstrapID correlates this bootstrap's log lines across the parent,
	// stage1 and stage2 processes; it has no bearing on the container's id
	// or its persisted state, purely a debug trace aid.
	bootstrapID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{"id": c.ID(), "bootstrap": bootstrapID})

	cond, err := NewCond()
	if err != nil {
		return nil, err
	}
	parentCh, err := NewParentChannel()
	if err != nil {
		return nil, err
	}

	lnFile, err := ln.File()
	if err != nil {
		return nil, err
	}
	defer lnFile.Close()

	bootR, bootW, err := os.Pipe()
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Syscall, err, "creating bootstrap config pipe")
	}

	bc := &BootstrapConfig{
		Args:          cfg.Args,
		RootPath:      cfg.RootPath,
		ContainerRoot: c.Root,
		ContainerID:   c.ID(),
		Namespaces:    cfg.Namespaces,
		OOMScoreAdj:   cfg.OOMScoreAdj,
		ConsoleSocket: consoleSocket,
		BootstrapID:   bootstrapID,
	}

	cmd := reexecCommand(stage1Name)
	// Fixed fd order the stage1 entry point relies on: 3=cond(w),
	// 4=parentChannel(w), 5=bootstrapConfig(r), 6=notifyListener.
	cmd.ExtraFiles = []*os.File{cond.w, parentCh.w, bootR, lnFile}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

	if err := cmd.Start(); err != nil {
		cond.w.Close()
		parentCh.w.Close()
		bootR.Close()
		bootW.Close()
		return nil, runcerr.Wrap(runcerr.Syscall, err, "forking intermediate process")
	}

	// The child now owns these; release the parent's copies so Cond.Wait
	// observes EOF if the child dies without notifying.
	cond.w.Close()
	parentCh.w.Close()
	bootR.Close()

	if err := writeBootstrap(bootW, bc); err != nil {
		return nil, err
	}

	log.Debug("waiting for readiness condition")
	if err := cond.Wait(); err != nil {
		return nil, err
	}

	log.Debug("waiting for init pid")
	initPID, err := parentCh.RecvInitPid()
	if err != nil {
		return nil, err
	}

	c.SetStatus(state.Created).SetPid(initPID)
	if err := c.Save(); err != nil {
		return nil, err
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
			return nil, runcerr.Wrap(runcerr.Io, err, "writing pid file")
		}
	}

	log.WithField("pid", initPID).Debug("container created")
	return &Handoff{IntermediatePID: cmd.Process.Pid, InitPID: initPID}, nil
}
