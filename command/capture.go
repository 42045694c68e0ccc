package command

import (
	"bytes"
	"io"
	"sync"
)

// captureBuffer collects one output stream of one process. Writes arrive from
// the goroutine exec.Cmd uses to drain the pipe, so each chunk is stored as
// soon as it is read.
type captureBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	mirror io.Writer
}

func newCaptureBuffer(mirror io.Writer) *captureBuffer {
	return &captureBuffer{mirror: mirror}
}

func (c *captureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Write(p)
	if c.mirror != nil {
		// A broken mirror must not fail the command.
		_, _ = c.mirror.Write(p)
	}
	return len(p), nil
}

func (c *captureBuffer) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.buf.Bytes())
}

// lockedWriter serializes writes from the stdout and stderr goroutines of a
// single process, which may mirror into the same destination.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func mirrors(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil || stderr == nil {
		return stdout, stderr
	}
	mu := &sync.Mutex{}
	return lockedWriter{mu: mu, w: stdout}, lockedWriter{mu: mu, w: stderr}
}
