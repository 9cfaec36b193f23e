// Package ptyproc hosts a shell (or arbitrary command) inside a
// pseudo-terminal, the external collaborator spec.md §6 leaves to the
// process boundary. It is grounded directly in the teacher's own
// examples/capture_tui, which starts a command under
// github.com/creack/pty and sizes it with golang.org/x/term.
package ptyproc

import (
	"errors"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Process is a command running behind a PTY.
type Process struct {
	cmd *exec.Cmd
	pty *os.File
}

// Start launches shell (falling back to /bin/sh if empty) with the given
// initial size, matching spec.md §9's "shell defaults to $SHELL or
// /bin/sh" configuration note.
func Start(shell string, height, width int) (*Process, error) {
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.Command(shell)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	f, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(height),
		Cols: uint16(width),
	})
	if err != nil {
		return nil, err
	}
	return &Process{cmd: cmd, pty: f}, nil
}

// Read reads bytes produced by the child.
func (p *Process) Read(buf []byte) (int, error) { return p.pty.Read(buf) }

// Write sends bytes to the child's stdin (keystrokes and device-query
// replies alike, per spec.md §6).
func (p *Process) Write(data []byte) (int, error) { return p.pty.Write(data) }

// Resize updates the PTY's window size, which delivers SIGWINCH to the
// child (spec.md §4.6's trigger for a Console.Resize).
func (p *Process) Resize(height, width int) error {
	return pty.Setsize(p.pty, &pty.Winsize{Rows: uint16(height), Cols: uint16(width)})
}

// Exited reports, without blocking, whether Wait has already returned;
// it does not poll the process itself.
func (p *Process) Exited() bool {
	if p.cmd.ProcessState != nil {
		return true
	}
	return false
}

// Wait blocks until the child exits and returns its exit error, if any.
func (p *Process) Wait() error { return p.cmd.Wait() }

// Close terminates the child and releases the PTY file descriptor.
func (p *Process) Close() error {
	var errs []error
	if p.cmd.Process != nil {
		errs = append(errs, p.cmd.Process.Kill())
	}
	errs = append(errs, p.pty.Close())
	return errors.Join(errs...)
}
