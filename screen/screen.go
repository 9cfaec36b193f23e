// Package screen implements the Screen Manager spec.md §4.9 describes:
// it owns one Console plus the host-terminal and child-process boundary
// collaborators, drives the resize and keystroke paths, and runs the
// cooperative polling loop spec.md §5 specifies. The teacher has no
// direct equivalent of this wiring layer; its shape instead follows the
// refresh-channel pattern used by the example pack's own UI adapter
// (texelation/texelui/adapter.UIApp.SetRefreshNotifier), adapted from a
// redraw-notification channel into the full multiplexing select loop a
// PTY-hosted shell needs.
package screen

import (
	"time"

	"github.com/arthaud/gotmux/hostterm"
	"github.com/arthaud/gotmux/ptyproc"
	"github.com/arthaud/gotmux/term"
)

// scrollStep is the row step for the '+'/'-' scrollback keys (spec.md
// §6).
const scrollStep = 1

// Recorder receives a copy of every size change and child write, for
// optional session recording (spec.md §6). NewLineRecorder is the
// concrete implementation; nil is a valid Recorder-less default.
type Recorder interface {
	Size(height, width int)
	Write(data []byte)
}

// childProcess is the subset of *ptyproc.Process the Manager depends on.
// Naming it lets tests drive the Manager against a fake shell instead of
// a real pseudo-terminal.
type childProcess interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Resize(height, width int) error
}

// Manager is the Screen Manager: the single owner of a Console, a host
// Terminal, and a child Process, and the only goroutine that mutates any
// of them.
type Manager struct {
	console  *term.Console
	host     hostterm.Terminal
	child    childProcess
	recorder Recorder

	childOut chan []byte
	childErr chan error
	quit     chan struct{}
}

// NewManager wires a Console sized to match the host terminal's current
// size, and installs the Console's reply/bell callbacks onto the child
// and host respectively.
func NewManager(host hostterm.Terminal, child *ptyproc.Process, historySize int) *Manager {
	h, w := host.Size()
	console := term.NewConsole(h, w, historySize)

	m := &Manager{
		console:  console,
		host:     host,
		child:    child,
		childOut: make(chan []byte, 64),
		childErr: make(chan error, 1),
		quit:     make(chan struct{}),
	}

	console.SetReplyWriter(func(b []byte) { _, _ = child.Write(b) })
	console.SetBell(host.Beep)
	console.SetLogger(term.StdLogger{})

	go m.readChild()
	return m
}

// SetRecorder installs an optional session recorder.
func (m *Manager) SetRecorder(r Recorder) { m.recorder = r }

// readChild streams the child's PTY output into childOut, the Go
// idiomatic stand-in for spec.md §5's non-blocking readiness check on
// the child's output descriptor.
func (m *Manager) readChild() {
	buf := make([]byte, 4096)
	for {
		n, err := m.child.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case m.childOut <- chunk:
			case <-m.quit:
				return
			}
		}
		if err != nil {
			select {
			case m.childErr <- err:
			case <-m.quit:
			}
			return
		}
	}
}

// Run is the cooperative main loop (spec.md §5): it multiplexes host key
// input, host resize events, and child output, applying each to the
// Console and redrawing once per iteration when anything changed. It
// returns when reading the child's output fails or reaches EOF, or when
// a quit key (EOT/ETX) is pressed.
func (m *Manager) Run() error {
	defer close(m.quit)

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	m.redraw()
	for {
		select {
		case data := <-m.childOut:
			if m.recorder != nil {
				m.recorder.Write(data)
			}
			m.console.Write(data)
			m.redraw()
		case err := <-m.childErr:
			return err
		case key := <-m.host.PollKey():
			redraw, quit := m.handleKey(key.Bytes)
			if quit {
				return nil
			}
			if redraw {
				m.redraw()
			}
		case size := <-m.host.PollResize():
			m.console.Resize(size.Height, size.Width)
			_ = m.child.Resize(size.Height, size.Width)
			if m.recorder != nil {
				m.recorder.Size(size.Height, size.Width)
			}
			m.redraw()
		case <-ticker.C:
			// idle tick: nothing to do, matches the original's ~5ms poll
			// cadence without busy-looping.
		}
	}
}

// handleKey routes one keystroke. Scrollback controls and EOT/ETX are
// intercepted locally and never forwarded to the child (spec.md §6);
// everything else is forwarded verbatim and also exits scrollback mode,
// since typing implies the user wants to see the live output again.
func (m *Manager) handleKey(b []byte) (redraw, quit bool) {
	if len(b) == 1 {
		switch b[0] {
		case '+':
			m.console.Scroll(-scrollStep)
			return true, false
		case '-':
			m.console.Scroll(scrollStep)
			return true, false
		case '*':
			m.console.DeactivateScroll()
			return true, false
		case 0x04, 0x03: // EOT, ETX: terminate the multiplexer itself
			return false, true
		}
	}
	if !m.console.AutoScroll() {
		m.console.DeactivateScroll()
	}
	_, _ = m.child.Write(b)
	return false, false
}

// redraw pushes the current display window and cursor to the host
// terminal when anything changed since the last draw.
func (m *Manager) redraw() {
	if !m.console.TakeRedraw() {
		return
	}
	h, _ := m.console.Dimensions()
	lines := make([]term.FormattedString, h)
	for i := 0; i < h; i++ {
		lines[i] = m.console.DisplayLine(i)
	}
	y, x, visible := m.console.CursorPosition()
	m.host.Draw(lines, y, x, visible)
}
