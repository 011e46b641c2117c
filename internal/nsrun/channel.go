package nsrun

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/nestybox/ocirun/internal/runcerr"
)

// Cond is the one-shot readiness condition: an edge from child to parent
// signalling "I have unshared what I must." Parent blocks on it immediately
// after the first fork.
type Cond struct {
	r, w *os.File
}

// NewCond creates a fresh readiness pipe, scoped to a single create call.
func NewCond() (*Cond, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Syscall, err, "creating readiness pipe")
	}
	return &Cond{r: r, w: w}, nil
}

// Notify signals readiness once; the write end is closed immediately after,
// since the channel is one-shot.
func (c *Cond) Notify() error {
	_, err := c.w.Write([]byte{1})
	c.w.Close()
	if err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "signaling readiness")
	}
	return nil
}

// Wait blocks until Notify is called, or returns an error if the writer
// exited (closed its end) without ever notifying.
func (c *Cond) Wait() error {
	defer c.r.Close()
	buf := make([]byte, 1)
	n, err := c.r.Read(buf)
	if n == 0 {
		if err == nil || err == io.EOF {
			return runcerr.New(runcerr.BootstrapAbnormal, "child exited before signaling readiness")
		}
		return runcerr.Wrap(runcerr.Syscall, err, "waiting for readiness")
	}
	return nil
}

// ParentChannel carries one INIT_PID(int) message from the intermediate
// child to the parent after the second fork.
type ParentChannel struct {
	r, w *os.File
}

// NewParentChannel creates a fresh pipe for the INIT_PID handoff.
func NewParentChannel() (*ParentChannel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Syscall, err, "creating parent channel")
	}
	return &ParentChannel{r: r, w: w}, nil
}

// SendInitPid writes the single 4-byte message, always encoded
// little-endian whatever the host byte order, and closes the write end,
// since the channel carries exactly one message.
func (p *ParentChannel) SendInitPid(pid int) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(pid))
	_, err := p.w.Write(buf[:])
	p.w.Close()
	if err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "sending init pid")
	}
	return nil
}

// RecvInitPid blocks for the INIT_PID message.
func (p *ParentChannel) RecvInitPid() (int, error) {
	defer p.r.Close()
	var buf [4]byte
	if _, err := io.ReadFull(p.r, buf[:]); err != nil {
		return 0, runcerr.Wrap(runcerr.BootstrapAbnormal, err, "reading init pid")
	}
	return int(binary.LittleEndian.Uint32(buf[:])), nil
}

// ChildChannel carries one INIT_READY message from init to the intermediate
// child after the rootfs has been pivoted.
type ChildChannel struct {
	r, w *os.File
}

// NewChildChannel creates a fresh pipe for the INIT_READY handoff.
func NewChildChannel() (*ChildChannel, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, runcerr.Wrap(runcerr.Syscall, err, "creating child channel")
	}
	return &ChildChannel{r: r, w: w}, nil
}

// SendReady signals init is ready to be exec'd, once.
func (c *ChildChannel) SendReady() error {
	_, err := c.w.Write([]byte{1})
	c.w.Close()
	if err != nil {
		return runcerr.Wrap(runcerr.Syscall, err, "signaling init ready")
	}
	return nil
}

// RecvReady blocks for the INIT_READY message.
func (c *ChildChannel) RecvReady() error {
	defer c.r.Close()
	buf := make([]byte, 1)
	n, err := c.r.Read(buf)
	if n == 0 {
		if err == nil || err == io.EOF {
			return runcerr.New(runcerr.BootstrapAbnormal, "init exited before signaling ready")
		}
		return runcerr.Wrap(runcerr.Syscall, err, "waiting for init ready")
	}
	return nil
}
