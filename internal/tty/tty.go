// Package tty is the console-socket forwarding collaborator named in §6's
// CLI surface (`--console-socket`). The core's only obligation is to open a
// pty and hand its slave end to init as its controlling terminal when a
// console socket was requested. This package sends the pty master's fd
// over the caller-supplied Unix socket; it does not forward any bytes
// between the master and that socket.
package tty

import (
	"net"
	"os"
	"syscall"

	"github.com/containerd/console"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// Socket wraps a caller-provided --console-socket path.
type Socket struct {
	path string
}

// NewSocket addresses a console socket path without connecting yet. An
// empty path means no console was requested.
func NewSocket(path string) *Socket {
	return &Socket{path: path}
}

// Requested reports whether a console socket was named on the CLI.
func (s *Socket) Requested() bool { return s.path != "" }

// OpenPty allocates a new pty pair for the contained init process and sends
// the master end's fd over the console socket, the way a Docker/containerd
// caller expects to receive it. It returns the slave, opened and ready to
// become init's stdio, and the master Console for anyone forwarding bytes.
func (s *Socket) OpenPty() (*os.File, console.Console, error) {
	master, slavePath, err := console.NewPty()
	if err != nil {
		return nil, nil, runcerr.Wrap(runcerr.Syscall, err, "allocating pty")
	}

	slave, err := os.OpenFile(slavePath, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, nil, runcerr.Wrapf(runcerr.Syscall, err, "opening pty slave %s", slavePath)
	}

	if s.path != "" {
		if err := sendFd(s.path, slavePath, int(master.Fd())); err != nil {
			master.Close()
			slave.Close()
			return nil, nil, err
		}
	}

	return slave, master, nil
}

func sendFd(socketPath, name string, fd int) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "connecting to console socket %s", socketPath)
	}
	defer conn.Close()

	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return runcerr.Newf(runcerr.Io, "%s is not a unix socket", socketPath)
	}

	oob := syscall.UnixRights(fd)
	if _, _, err := uc.WriteMsgUnix([]byte(name), oob, nil); err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "sending pty fd over %s", socketPath)
	}
	return nil
}
