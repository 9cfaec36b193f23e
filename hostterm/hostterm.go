// Package hostterm defines the boundary contract between the terminal
// core (package term) and the real screen the user is sitting at
// (spec.md §6): drawing a frame, reporting size and resize events, and
// relaying raw key input. It is the collaborator spec.md explicitly
// leaves external to the core; Screen (package screen) is the only
// caller.
package hostterm

import "github.com/arthaud/gotmux/term"

// Terminal is the drawing/input surface Screen renders into and reads
// keystrokes from.
type Terminal interface {
	// Size reports the current terminal size in character cells.
	Size() (height, width int)

	// PollResize returns a channel that receives the new size each time
	// the host terminal is resized. The channel is never closed.
	PollResize() <-chan Size

	// PollKey returns a channel that receives decoded key events.
	// The channel is never closed.
	PollKey() <-chan KeyEvent

	// Draw renders the visible console lines starting at display row 0,
	// then positions the hardware cursor.
	Draw(lines []term.FormattedString, cursorY, cursorX int, cursorVisible bool)

	// Beep notifies the user of a BEL without disturbing the screen.
	Beep()

	// Close restores the host terminal to its original mode.
	Close() error
}

// Size is a terminal dimension in character cells.
type Size struct {
	Height, Width int
}

// KeyEvent is one decoded keystroke or pasted byte sequence from the
// host terminal, passed through to the child as raw bytes (spec.md §6).
type KeyEvent struct {
	Bytes []byte
}
