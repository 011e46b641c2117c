// Package nsrun implements the fork coordinator (§4.4): the two forks and
// the three-way synchronization between the invoking Parent, the
// intermediate Child, and the contained Init. Since Go cannot safely call a
// raw fork() mid-process (the runtime's goroutine scheduler and its threads
// do not survive a bare fork), each "fork" here is a self re-exec of
// /proc/self/exe dispatched by a distinguishing argv[0], the same technique
// docker's pkg/reexec and this pack's own self-reexecing worker use to hop
// into a fresh clone() without carrying the whole Go runtime's state across
// the boundary.
package nsrun

import (
	"os"
	"os/exec"
)

const (
	stage1Name = "ocirun-init-stage1"
	stage2Name = "ocirun-init-stage2"
)

var stages = map[string]func(){
	stage1Name: stage1Main,
	stage2Name: stage2Main,
}

// Init dispatches to a registered bootstrap stage if os.Args[0] names one.
// main() calls this before building the CLI app. Both stages end the
// process themselves (os.Exit, or exec of the payload), so in practice Init
// only returns, with false, when no stage matched; true is returned only if
// a stage function returns.
func Init() bool {
	if f, ok := stages[os.Args[0]]; ok {
		f()
		return true
	}
	return false
}

// reexecCommand builds an *exec.Cmd that re-execs the current binary with
// argv[0] set to name, so the child process's Init() dispatches straight
// into the right stage.
func reexecCommand(name string) *exec.Cmd {
	cmd := exec.Command("/proc/self/exe")
	cmd.Args = []string{name}
	return cmd
}
