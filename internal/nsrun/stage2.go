package nsrun

import (
	"net"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/notify"
	"github.com/nestybox/ocirun/internal/rootfs"
	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/state"
	"github.com/nestybox/ocirun/internal/tty"
)

// stage2Main is the grandchild of the original caller: the process that
// will become the container's init, born as PID 1 of the new PID namespace
// (if one was requested) because its parent, stage1, already unshared
// CLONE_NEWPID before forking it. It inherits fd 3 (child channel, write
// end), fd 4 (bootstrap config, read end) and fd 5 (the notify listener).
func stage2Main() {
	childW := os.NewFile(3, "child-channel")
	bootR := os.NewFile(4, "bootstrap-config")
	lnFile := os.NewFile(5, "notify-listener")

	if err := runStage2(childW, bootR, lnFile); err != nil {
		logrus.WithError(err).Error("init failed")
		os.Exit(1)
	}
}

func runStage2(childW, bootR, lnFile *os.File) error {
	bc, err := readBootstrap(bootR)
	if err != nil {
		return err
	}
	logrus.WithField("bootstrap", bc.BootstrapID).Debug("stage2 running")

	prep := rootfs.New(bc.RootPath)
	if err := prep.Prepare(); err != nil {
		return err
	}
	if err := prep.Pivot(); err != nil {
		return err
	}

	if err := (&ChildChannel{w: childW}).SendReady(); err != nil {
		return err
	}

	ln, err := net.FileListener(lnFile)
	lnFile.Close()
	if err != nil {
		return runcerr.Wrap(runcerr.Io, err, "reconstituting notify listener")
	}
	listener := notify.FromListener(ln)

	logrus.Debug("init waiting on notify socket")
	if err := listener.WaitForContainerStart(); err != nil {
		return err
	}
	// Closed explicitly, now that accept has completed; the listener fd
	// must not survive into the payload's process image.
	listener.Close()

	if bc.ConsoleSocket != "" {
		if err := attachConsole(bc.ConsoleSocket); err != nil {
			markStopped(bc.ContainerRoot)
			return err
		}
	}

	path, lookErr := exec.LookPath(bc.Args[0])
	if lookErr != nil {
		markStopped(bc.ContainerRoot)
		return runcerr.Wrapf(runcerr.Syscall, lookErr, "resolving payload %q", bc.Args[0])
	}

	logrus.WithField("payload", bc.Args).Debug("executing payload")
	err = unix.Exec(path, bc.Args, os.Environ())
	// unix.Exec only returns on failure; success replaces this process image.
	markStopped(bc.ContainerRoot)
	return runcerr.Wrapf(runcerr.Syscall, err, "execvp(%s)", path)
}

// attachConsole opens a pty, sends its master fd to the caller-supplied
// console socket, and wires the slave end up as the payload's stdio.
func attachConsole(socketPath string) error {
	slave, _, err := tty.NewSocket(socketPath).OpenPty()
	if err != nil {
		return err
	}
	for _, fd := range []int{0, 1, 2} {
		if err := unix.Dup2(int(slave.Fd()), fd); err != nil {
			return runcerr.Wrapf(runcerr.Syscall, err, "attaching console to fd %d", fd)
		}
	}
	return slave.Close()
}

// markStopped best-effort persists status=Stopped if execvp returns,
// matching §4.4's failure semantics: a dead init must not leave a Created
// record pointing at a process that no longer exists.
func markStopped(containerRoot string) {
	s, err := state.Load(containerRoot)
	if err != nil {
		return
	}
	s.Status = state.Stopped
	_ = state.Save(containerRoot, s)
}
