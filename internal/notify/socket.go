// Package notify implements the filesystem-socket rendezvous by which
// `start` releases a Created container into Running. The listener side is
// bound during `create`, before the first fork, so the path exists before
// init ever waits on it; the client side is constructed during `start`.
package notify

import (
	"net"
	"os"
	"path/filepath"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// FileName is the notify socket's name inside a container's state directory.
const FileName = "notify.sock"

// Listener is the server side, owned by the waiting init process.
type Listener struct {
	ln net.Listener
}

// NewListener binds the notify socket under dir. dir must exist.
func NewListener(dir string) (*Listener, error) {
	path := filepath.Join(dir, FileName)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, runcerr.Wrapf(runcerr.Io, err, "binding notify socket %s", path)
	}
	return &Listener{ln: ln}, nil
}

// WaitForContainerStart blocks until a client connects, then returns. The
// message body is unused; a successful accept is the entire signal.
func (l *Listener) WaitForContainerStart() error {
	conn, err := l.ln.Accept()
	if err != nil {
		return runcerr.Wrap(runcerr.Io, err, "accepting on notify socket")
	}
	return conn.Close()
}

// Close releases the listening socket. The backing file is removed as part
// of the container's directory teardown during delete, not here.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// File returns a duplicated descriptor for the listening socket, so it can
// be carried across the fork coordinator's self-reexecs as an ExtraFile
// until init is ready to accept on it.
func (l *Listener) File() (*os.File, error) {
	uln, ok := l.ln.(*net.UnixListener)
	if !ok {
		return nil, runcerr.New(runcerr.Io, "notify listener is not backed by a unix socket")
	}
	return uln.File()
}

// FromListener reconstitutes a Listener from a net.Listener recovered from
// an inherited file descriptor (net.FileListener), used on the init side
// after the listener's fd has been carried across two re-execs.
func FromListener(ln net.Listener) *Listener {
	return &Listener{ln: ln}
}

// Client is the `start`-side connector.
type Client struct {
	path string
}

// NewClient addresses the notify socket under dir, without connecting yet.
func NewClient(dir string) *Client {
	return &Client{path: filepath.Join(dir, FileName)}
}

// NotifyContainerStart connects to the listener and disconnects; the
// connect itself is the entire signal, so the body is empty.
func (c *Client) NotifyContainerStart() error {
	conn, err := net.Dial("unix", c.path)
	if err != nil {
		return runcerr.Wrapf(runcerr.Io, err, "connecting to notify socket %s", c.path)
	}
	return conn.Close()
}
