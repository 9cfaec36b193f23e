package term

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/arthaud/gotmux/vte"
)

// Severity classifies a log line emitted by the Console's non-fatal
// error channel (spec.md §7: every non-fatal condition carries a
// severity and a short message, and never mutates state beyond what the
// spec defines).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarn
)

// Logger receives non-fatal diagnostics from the Console. StdLogger is
// the default implementation, wrapping the standard library's log
// package, matching the teacher's own log.Printf use in its PTY example;
// Console itself never touches a process-global logger (spec.md §9).
type Logger interface {
	Logf(sev Severity, format string, args ...any)
}

// Cursor is the write cursor: position relative to the real viewport,
// plus whether it currently falls inside the visible display window.
type Cursor struct {
	Y, X    int
	Visible bool
}

// Console is the terminal emulator core: it owns the LineBuffer, the
// cursor, current drawing style, the scroll region, the history cap,
// and the real/display offset pair that implements scrollback.
//
// Console implements vte.Performer directly: the byte-level tokenizer in
// package vte drives Print/Execute/CsiDispatch/EscDispatch calls in
// stream order, and Console turns those into LineBuffer mutations. This
// collapses the teacher's two-layer Processor-over-Handler indirection
// (see DESIGN.md) into the single state machine spec.md §2 describes.
type Console struct {
	lines *LineBuffer

	height, width int
	offset        int
	displayOffset int
	autoScroll    bool
	historySize   int
	redraw        bool

	cursor                  Cursor
	scrollTop, scrollBottom int // inclusive, 0-based within the viewport

	style Style

	nextRealNum uint32

	staging []rune

	parser *vte.Parser

	logger      Logger
	bell        func()
	replyWriter func([]byte)
}

// NewConsole creates a Console with the given viewport size and history
// cap, starting from a single empty line (spec.md §3 lifecycle).
func NewConsole(height, width, historySize int) *Console {
	if historySize < height {
		historySize = height
	}
	c := &Console{
		lines:         NewLineBuffer(),
		height:        height,
		width:         width,
		autoScroll:    true,
		redraw:        true,
		historySize:   historySize,
		scrollBottom:  height - 1,
		style:         DefaultStyle,
		cursor:        Cursor{Visible: true},
		parser:        vte.NewParser(),
		nextRealNum:   1,
		bell:          func() {},
		replyWriter:   func([]byte) {},
	}
	c.updateCursorVisibility()
	return c
}

// SetLogger installs the non-fatal diagnostics sink.
func (c *Console) SetLogger(l Logger) { c.logger = l }

// SetBell installs the callback invoked on BEL (spec.md §4.4: "emit bell
// to host, no buffer change").
func (c *Console) SetBell(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	c.bell = fn
}

// SetReplyWriter installs the callback used by device-query handlers to
// write synthetic replies back into the child's input stream (spec.md
// §4.9, §6).
func (c *Console) SetReplyWriter(fn func([]byte)) {
	if fn == nil {
		fn = func([]byte) {}
	}
	c.replyWriter = fn
}

func (c *Console) logf(sev Severity, format string, args ...any) {
	if c.logger != nil {
		c.logger.Logf(sev, format, args...)
	}
}

// Dimensions returns the current viewport size.
func (c *Console) Dimensions() (height, width int) { return c.height, c.width }

// CursorPosition returns the cursor's real-viewport position and
// whether it currently falls inside the displayed window.
func (c *Console) CursorPosition() (y, x int, visible bool) {
	return c.cursor.Y, c.cursor.X, c.cursor.Visible
}

// TakeRedraw reports and clears the coalescing redraw flag.
func (c *Console) TakeRedraw() bool {
	r := c.redraw
	c.redraw = false
	return r
}

// LineCount returns the number of lines currently buffered.
func (c *Console) LineCount() int { return c.lines.Len() }

// DisplayLine returns the content of display row i (0-based from the
// top of the currently visible window, honoring scrollback).
func (c *Console) DisplayLine(i int) FormattedString {
	idx := c.displayOffset + i
	if idx < 0 || idx >= c.lines.Len() {
		return FormattedString{}
	}
	return c.lines.At(idx).Content
}

// Write decodes data as a byte stream from the child process, applying
// C0 controls and ANSI/VT sequences in order (spec.md §4.4).
func (c *Console) Write(data []byte) {
	c.parser.Advance(c, data)
	c.flushStaging()
	c.redraw = true
}

// --- vte.Performer ---

// Print accumulates a decoded codepoint into the pending printable run.
// Non-printable codepoints (control/format/unassigned/surrogate, per
// spec.md §4.4) are substituted with a caret-style glyph first, matching
// the original's curses.unctrl-based rendering (see SPEC_FULL.md §4).
func (c *Console) Print(r rune) {
	if isSubstitutable(r) {
		c.staging = append(c.staging, []rune(controlGlyph(r))...)
		return
	}
	c.staging = append(c.staging, r)
}

// Execute handles a C0 control byte.
func (c *Console) Execute(b byte) {
	switch b {
	case vte.C0.BEL:
		c.flushStaging()
		c.bell()
	case vte.C0.BS:
		c.flushStaging()
		c.cursor.X = max(0, c.cursor.X-1)
	case vte.C0.HT:
		c.expandTab()
	case vte.C0.LF:
		c.flushStaging()
		c.cursorNewline(true)
	case vte.C0.CR:
		c.flushStaging()
		c.cursor.X = 0
	}
}

// Hook, Put, Unhook: device control strings are not part of the
// recognized subset (spec.md §4.3 lists no DCS sequence); flush staging
// so ordering stays correct and otherwise drop the data.
func (c *Console) Hook(*vte.Params, []byte, bool, rune) { c.flushStaging() }
func (c *Console) Put(byte)                             {}
func (c *Console) Unhook()                              {}

// OscDispatch: OSC sequences (window title etc.) are explicitly ignored
// (spec.md §4.3).
func (c *Console) OscDispatch([][]byte, bool) { c.flushStaging() }

// expandTab grows the staging run to the next multiple-of-8 column,
// computed from the real column (cursor.X plus pending staging length).
func (c *Console) expandTab() {
	col := c.cursor.X + len(c.staging)
	next := ((col / 8) + 1) * 8
	for ; col < next; col++ {
		c.staging = append(c.staging, ' ')
	}
}

func isSubstitutable(r rune) bool {
	if r == utf8.RuneError {
		return false // already the replacement char; print it as-is
	}
	return unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) ||
		unicode.Is(unicode.Cs, r) || !unicode.IsGraphic(r)
}

// controlGlyph renders r the way curses.unctrl does for byte-range
// control characters, and falls back to a bracketed codepoint for
// anything curses.unctrl was never defined for (non-ASCII format,
// unassigned, or surrogate codepoints — see SPEC_FULL.md §4).
func controlGlyph(r rune) string {
	switch {
	case r < 0x20:
		return fmt.Sprintf("^%c", rune(r)+0x40)
	case r == 0x7f:
		return "^?"
	case r >= 0x80 && r < 0xa0:
		return fmt.Sprintf("M-^%c", rune(r-0x80)+0x40)
	default:
		return fmt.Sprintf("<U+%04X>", r)
	}
}

// flushStaging splices the pending printable run into the buffer at the
// cursor, per spec.md §4.4.
func (c *Console) flushStaging() {
	if len(c.staging) == 0 {
		return
	}
	text := c.staging
	c.staging = nil

	y, x := c.cursor.Y, c.cursor.X
	for len(text) > 0 {
		avail := c.width - x
		if avail <= 0 {
			y, x = c.advanceLineForWrap(y)
			avail = c.width
		}
		n := len(text)
		if n > avail {
			n = avail
		}
		c.spliceRun(y, x, text[:n])
		text = text[n:]
		x += n
		if x >= c.width && len(text) > 0 {
			y, x = c.advanceLineForWrap(y)
		}
	}
	// A line that exactly fills the width leaves cursor.X == c.width here;
	// the wrap itself is deferred until the next write reaches this edge,
	// matching real terminals' pending-wrap behavior: a bare newline right
	// after doesn't eat an extra blank row.
	c.cursor.Y, c.cursor.X = y, x
	c.updateCursorVisibility()
}

// advanceLineForWrap performs the soft-wrap cursor-newline used mid-run
// and returns the new (y, x=0) position.
func (c *Console) advanceLineForWrap(y int) (int, int) {
	c.cursor.Y = y
	c.cursorNewline(false)
	return c.cursor.Y, 0
}

// spliceRun writes run at (y, x), padding and right-stripping per
// spec.md §4.4.
func (c *Console) spliceRun(y, x int, text []rune) {
	row := c.offset + y
	c.ensureRow(row)
	line := c.lines.At(row)
	content := line.Content
	if content.Len() < x {
		content = content.Ljust(x, ' ')
	}
	before := content.Slice(0, min(x, content.Len()))
	afterStart := x + len(text)
	var after FormattedString
	if content.Len() > afterStart {
		after = content.Slice(afterStart, content.Len())
	}
	newRun := NewFormattedString(string(text), c.style)
	line.Content = before.Append(newRun).Append(after).Rstrip()
	c.lines.Set(row, line)
}

// ensureRow grows the buffer with continuation-tagged blank lines until
// index idx exists.
func (c *Console) ensureRow(idx int) {
	for idx >= c.lines.Len() {
		rn := c.lines.At(c.lines.Len() - 1).RealNum
		c.lines.Append(emptyLine(rn))
		c.checkHistorySize()
	}
}

// cursorNewline implements spec.md §4.4's cursor-newline(real).
func (c *Console) cursorNewline(real bool) {
	c.cursor.X = 0
	if c.cursor.Y == c.scrollBottom {
		c.scrollDown(real)
		return
	}
	c.cursor.Y = min(c.cursor.Y+1, c.height-1)
	row := c.offset + c.cursor.Y
	if row >= c.lines.Len() {
		var rn uint32
		if real {
			rn = c.nextRealNum
			c.nextRealNum++
		} else {
			rn = c.lines.At(c.lines.Len() - 1).RealNum
		}
		c.lines.Append(emptyLine(rn))
		c.checkHistorySize()
	}
	c.syncDisplayOffset()
	c.updateCursorVisibility()
}

// checkHistorySize trims from the front to respect the history cap,
// adjusting both offsets (spec.md §4.8).
func (c *Console) checkHistorySize() {
	excess := c.lines.Len() - c.historySize
	if excess <= 0 {
		return
	}
	removed := c.lines.TrimFront(excess)
	c.offset = max(0, c.offset-removed)
	c.displayOffset = max(0, c.displayOffset-removed)
}

// syncDisplayOffset mirrors offset into displayOffset while auto-scroll
// is active (spec.md §4.7).
func (c *Console) syncDisplayOffset() {
	if c.autoScroll {
		c.displayOffset = c.offset
	}
}

// updateCursorVisibility recomputes the cursor's display visibility:
// whether its real row currently falls inside the visible window
// (spec.md §3 lifecycle note).
func (c *Console) updateCursorVisibility() {
	real := c.offset + c.cursor.Y
	c.cursor.Visible = real >= c.displayOffset && real < c.displayOffset+c.height
}

// Scroll moves the display window by delta rows, entering scrollback
// mode (spec.md §4.7). A move that would go above the top of the buffer
// is ignored; one past the end is clamped to the last row.
func (c *Console) Scroll(delta int) {
	next := c.displayOffset + delta
	if next < 0 {
		return
	}
	if next > c.lines.Len()-1 {
		next = c.lines.Len() - 1
	}
	c.displayOffset = next
	c.autoScroll = false
	c.redraw = true
	c.updateCursorVisibility()
}

// DeactivateScroll exits scrollback mode and snaps back to the live tail.
func (c *Console) DeactivateScroll() {
	c.displayOffset = c.offset
	c.autoScroll = true
	c.redraw = true
	c.updateCursorVisibility()
}

// AutoScroll reports whether the display currently tracks the write
// cursor.
func (c *Console) AutoScroll() bool { return c.autoScroll }
