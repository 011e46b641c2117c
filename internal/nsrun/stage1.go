package nsrun

import (
	"os"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
	"github.com/nestybox/ocirun/internal/specload"
)

// stage1Main is the intermediate process (the "Child" of fork_first). It
// inherits fd 3 (readiness cond, write end), fd 4 (parent channel, write
// end), fd 5 (bootstrap config, read end) and fd 6 (the notify-socket
// listener, forwarded on to init).
func stage1Main() {
	condW := os.NewFile(3, "readiness-cond")
	parentW := os.NewFile(4, "parent-channel")
	bootR := os.NewFile(5, "bootstrap-config")
	lnFile := os.NewFile(6, "notify-listener")

	if err := runStage1(condW, parentW, bootR, lnFile); err != nil {
		logrus.WithError(err).Error("container bootstrap failed")
		os.Exit(1)
	}
}

func runStage1(condW, parentW, bootR, lnFile *os.File) error {
	bc, err := readBootstrap(bootR)
	if err != nil {
		return err
	}
	logrus.WithField("bootstrap", bc.BootstrapID).Debug("stage1 running")

	// Step A (remainder): oom_score_adj, then CLONE_NEWUSER before any
	// other namespace is touched, then notify readiness.
	if bc.OOMScoreAdj != nil {
		if err := os.WriteFile("/proc/self/oom_score_adj", []byte(strconv.Itoa(*bc.OOMScoreAdj)), 0o644); err != nil {
			return runcerr.Wrap(runcerr.Syscall, err, "writing oom_score_adj")
		}
	}

	userNS, hasUserNS := namespaceByType(bc.Namespaces, specs.UserNamespace)
	newUserNS := hasUserNS && userNS.Path == ""
	if newUserNS {
		if err := unix.Unshare(unix.CLONE_NEWUSER); err != nil {
			return runcerr.Wrap(runcerr.Syscall, err, "unshare(CLONE_NEWUSER)")
		}
	}

	if err := (&Cond{w: condW}).Notify(); err != nil {
		return err
	}

	// Step B: namespace entry for everything with a path, unshare for the
	// rest. A new user namespace was already unshared above; a user
	// namespace with a path is joined here like any other.
	var cf int
	for _, ns := range bc.Namespaces {
		if ns.Path != "" {
			if err := joinNamespace(ns); err != nil {
				return err
			}
			continue
		}
		if ns.Type == specs.UserNamespace {
			continue
		}
		cf |= cloneFlag(ns.Type)
	}
	if cf != 0 {
		if err := unix.Unshare(cf &^ unix.CLONE_NEWUSER); err != nil {
			return runcerr.Wrap(runcerr.Syscall, err, "unshare namespaces")
		}
	}

	// Step C: the second fork, which actually enters the new PID namespace.
	return forkInit(bc, parentW, lnFile)
}

// joinNamespace opens ns.Path and setns(2)s into it, closing the fd
// immediately after per the file-descriptor hygiene rule in §5. Joining an
// existing user namespace requires immediately dropping to (uid=0,gid=0)
// via the keep-capabilities sequence.
func joinNamespace(ns specload.NamespaceSpec) error {
	fd, err := unix.Open(ns.Path, unix.O_RDONLY, 0)
	if err != nil {
		return runcerr.Wrapf(runcerr.Syscall, err, "opening namespace path %s", ns.Path)
	}
	defer unix.Close(fd)

	if err := unix.Setns(fd, cloneFlag(ns.Type)); err != nil {
		return runcerr.Wrapf(runcerr.Syscall, err, "setns(%s, %s)", ns.Path, ns.Type)
	}

	if ns.Type == specs.UserNamespace {
		return dropToRoot()
	}
	return nil
}

// dropToRoot runs keep-capabilities, setresgid, setresuid,
// clear-keep-capabilities in that order, as required right after joining an
// existing user namespace (setresgid always precedes setresuid).
func dropToRoot() error {
	if err := unix.Prctl(unix.PR_SET_KEEPCAPS, 1, 0, 0, 0); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "PR_SET_KEEPCAPS(1)")
	}
	if err := unix.Setresgid(0, 0, 0); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "setresgid")
	}
	if err := unix.Setresuid(0, 0, 0); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "setresuid")
	}
	if err := unix.Prctl(unix.PR_SET_KEEPCAPS, 0, 0, 0, 0); err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "PR_SET_KEEPCAPS(0)")
	}
	return nil
}

// forkInit performs the second fork (fork_init, §4.4 Step C): stage2
// becomes init, this process (stage1) stays behind as the intermediate
// that relays init's pid to the parent and reaps init on exit.
func forkInit(bc *BootstrapConfig, parentW, lnFile *os.File) error {
	childCh, err := NewChildChannel()
	if err != nil {
		return err
	}

	bootR, bootW, err := os.Pipe()
	if err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "creating stage2 bootstrap pipe")
	}

	cmd := reexecCommand(stage2Name)
	// Fixed fd order for stage2: 3=childChannel(w), 4=bootstrapConfig(r),
	// 5=notifyListener.
	cmd.ExtraFiles = []*os.File{childCh.w, bootR, lnFile}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

	if err := cmd.Start(); err != nil {
		childCh.w.Close()
		bootR.Close()
		bootW.Close()
		return runcerr.Wrap(runcerr.Syscall, err, "forking init process")
	}
	childCh.w.Close()
	bootR.Close()

	if err := writeBootstrap(bootW, bc); err != nil {
		return err
	}

	if err := childCh.RecvReady(); err != nil {
		return err
	}

	if err := (&ParentChannel{w: parentW}).SendInitPid(cmd.Process.Pid); err != nil {
		return err
	}

	return waitInit(cmd)
}

// waitInit reaps init and re-exits the intermediate with init's own exit
// status: exited propagates the same code, signaled maps to 0, anything
// else is a BootstrapAbnormal error. This process (stage1) never returns
// past this point on the success path.
func waitInit(cmd *exec.Cmd) error {
	err := cmd.Wait()
	if err == nil {
		os.Exit(0)
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return runcerr.Wrap(runcerr.Syscall, err, "waiting for init process")
	}

	ws, ok := exitErr.Sys().(unix.WaitStatus)
	if !ok {
		return runcerr.New(runcerr.BootstrapAbnormal, "waitpid returned an unrecognized status")
	}

	switch {
	case ws.Exited():
		os.Exit(ws.ExitStatus())
	case ws.Signaled():
		os.Exit(0)
	default:
		return runcerr.New(runcerr.BootstrapAbnormal, "waitpid returned a non-exit, non-signal status")
	}
	return nil
}
