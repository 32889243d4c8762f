// Package procio exposes subprocess output as readers that reap their process.
package procio

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"ytgrab/internal/domain/consts"
	"ytgrab/internal/domain/logger"
)

// ExitClassifier turns a failed process exit into a typed error.
//
// stderr holds the tail of the process's standard error.
type ExitClassifier func(stderr string, exitErr error) error

// Reader streams a process's stdout.
//
// A non-zero exit is reported by Read in place of io.EOF. Close kills the
// process if still running, waits for it, and closes any attached closers.
type Reader struct {
	cmd      *exec.Cmd
	out      io.ReadCloser
	stderr   *TailBuffer
	classify ExitClassifier
	closers  []io.Closer

	waitOnce  sync.Once
	waitErr   error
	closeOnce sync.Once
	exited    chan struct{}
}

// Start starts cmd and returns a Reader over its stdout.
//
// closers are closed together with the Reader (for example the stdin source
// feeding cmd). They are also closed if the process fails to start.
func Start(cmd *exec.Cmd, classify ExitClassifier, closers ...io.Closer) (*Reader, error) {
	stderr := NewTailBuffer(0)
	if cmd.Stderr == nil {
		cmd.Stderr = stderr
	} else {
		cmd.Stderr = io.MultiWriter(cmd.Stderr, stderr)
	}

	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = consts.ProcessWaitDelay
	}

	out, err := cmd.StdoutPipe()
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	logger.Pl.D(2, "Starting command: %s", cmd.String())
	if err := cmd.Start(); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("failed to start %q: %w", cmd.Path, err)
	}

	return &Reader{
		cmd:      cmd,
		out:      out,
		stderr:   stderr,
		classify: classify,
		closers:  closers,
		exited:   make(chan struct{}),
	}, nil
}

// Read reads from the process's stdout.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.out.Read(p)
	if errors.Is(err, io.EOF) {
		if werr := r.wait(); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// Close stops the process (if needed) and releases its resources.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		// Unblock a stdin copier before killing the process.
		closeAll(r.closers)

		select {
		case <-r.exited:
		default:
			if r.cmd.Process != nil {
				if err := r.cmd.Process.Kill(); err != nil {
					logger.Pl.D(3, "Kill %q: %v", r.cmd.Path, err)
				}
			}
		}
		r.wait()
	})
	return nil
}

func (r *Reader) wait() error {
	r.waitOnce.Do(func() {
		err := r.cmd.Wait()
		close(r.exited)
		if err != nil && r.classify != nil {
			err = r.classify(r.stderr.String(), err)
		}
		r.waitErr = err
	})
	return r.waitErr
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Pl.D(3, "Close: %v", err)
		}
	}
}
