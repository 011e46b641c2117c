// Package signal maps the POSIX signal names accepted by `kill` to their
// numeric values, the way runc's own signal table does it.
package signal

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/runcerr"
)

var byName = map[string]unix.Signal{
	"HUP":  unix.SIGHUP,
	"INT":  unix.SIGINT,
	"QUIT": unix.SIGQUIT,
	"ILL":  unix.SIGILL,
	"TRAP": unix.SIGTRAP,
	"ABRT": unix.SIGABRT,
	"BUS":  unix.SIGBUS,
	"FPE":  unix.SIGFPE,
	"KILL": unix.SIGKILL,
	"USR1": unix.SIGUSR1,
	"SEGV": unix.SIGSEGV,
	"USR2": unix.SIGUSR2,
	"PIPE": unix.SIGPIPE,
	"ALRM": unix.SIGALRM,
	"TERM": unix.SIGTERM,
	"CHLD": unix.SIGCHLD,
	"CONT": unix.SIGCONT,
	"STOP": unix.SIGSTOP,
	"TSTP": unix.SIGTSTP,
	"TTIN": unix.SIGTTIN,
	"TTOU": unix.SIGTTOU,
	"URG":  unix.SIGURG,
	"XCPU": unix.SIGXCPU,
	"XFSZ": unix.SIGXFSZ,
	"VTALRM": unix.SIGVTALRM,
	"PROF":   unix.SIGPROF,
	"WINCH":  unix.SIGWINCH,
	"IO":     unix.SIGIO,
	"SYS":    unix.SIGSYS,
}

// FromString resolves a signal argument from `kill`: POSIX names with or
// without a "SIG" prefix, case-insensitive, or a bare signal number.
func FromString(raw string) (unix.Signal, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return unix.Signal(n), nil
	}

	name := strings.ToUpper(strings.TrimPrefix(strings.ToUpper(raw), "SIG"))
	if sig, ok := byName[name]; ok {
		return sig, nil
	}
	return 0, runcerr.Newf(runcerr.InvalidSignal, "unknown signal %q", raw)
}
