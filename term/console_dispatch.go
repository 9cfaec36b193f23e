package term

// console_dispatch.go is Console's vte.Performer dispatch table: the CSI
// and ESC final bytes spec.md §4.3 lists, plus SGR. The switch-by-final-
// byte shape and the param-with-default helper follow the teacher's own
// Processor.csiDispatch (processor.go) and ansi.go's AddStyleFromAnsiParams
// table, collapsed onto just the sequences spec.md recognizes; anything
// else is logged and ignored rather than silently dropped.

import "github.com/arthaud/gotmux/vte"

// param returns params group i's first value, or def if group i doesn't
// exist or is zero (CSI's documented "0 means default" convention).
func param(p *vte.Params, groups [][]uint16, i int, def int) int {
	if i >= len(groups) || len(groups[i]) == 0 {
		return def
	}
	v := int(groups[i][0])
	if v == 0 {
		return def
	}
	return v
}

// CsiDispatch implements vte.Performer for CSI sequences (spec.md §4.3).
func (c *Console) CsiDispatch(params *vte.Params, intermediates []byte, ignore bool, action rune) {
	c.flushStaging()
	groups := params.Iter()
	private := len(intermediates) > 0 && intermediates[0] == '?'

	switch action {
	case 'H', 'f': // CUP: cursor position
		y := param(params, groups, 0, 1) - 1
		x := param(params, groups, 1, 1) - 1
		c.moveCursor(y, x)
	case 'A': // CUU
		c.moveCursor(c.cursor.Y-param(params, groups, 0, 1), c.cursor.X)
	case 'B': // CUD
		c.moveCursor(c.cursor.Y+param(params, groups, 0, 1), c.cursor.X)
	case 'C': // CUF
		c.moveCursor(c.cursor.Y, c.cursor.X+param(params, groups, 0, 1))
	case 'D': // CUB
		c.moveCursor(c.cursor.Y, c.cursor.X-param(params, groups, 0, 1))
	case 'd': // VPA: absolute vertical position
		c.moveCursor(param(params, groups, 0, 1)-1, c.cursor.X)
	case 'G', '`': // CHA/HPA: absolute horizontal position
		c.moveCursor(c.cursor.Y, param(params, groups, 0, 1)-1)
	case 'K': // EL: erase in line
		c.eraseLine(param(params, groups, 0, 0))
	case 'J': // ED: erase in display
		c.eraseDisplay(param(params, groups, 0, 0))
	case 'X': // ECH: erase n characters from cursor
		c.eraseChars(param(params, groups, 0, 1))
	case 'L': // IL: insert n blank lines at cursor
		c.insertLines(param(params, groups, 0, 1))
	case 'P': // DCH: delete n characters at cursor, tail shifts left
		c.deleteChars(param(params, groups, 0, 1))
	case 'M': // erase entire line (synonym for EL 2, per this dialect)
		c.eraseLine(2)
	case 'r': // DECSTBM: set scroll region
		top := param(params, groups, 0, 1) - 1
		bottom := param(params, groups, 1, c.height) - 1
		c.setScrollRegion(top, bottom)
	case 'm': // SGR
		c.sgr(groups)
	case 'h', 'l': // set/reset mode
		c.setMode(groups, private, action == 'h')
	case 'n': // DSR: device status report
		c.deviceStatusReport(param(params, groups, 0, 0))
	case 'c': // DA: device attributes; ESC[>c asks for the secondary set
		if len(intermediates) > 0 && intermediates[0] == '>' {
			c.replyWriter([]byte("\x1b[>84;0;0c"))
		} else {
			c.replyWriter([]byte("\x1b[?1;2c"))
		}
	default:
		c.logf(SeverityWarn, "unhandled CSI %c (params=%s, private=%v)", action, params, private)
	}
}

// EscDispatch implements vte.Performer for two-character escape sequences
// (spec.md §4.3): index, reverse index, next line and keypad mode are
// recognized and character-set designations are discarded. For any other
// escape only the ESC is dropped: its remaining bytes print as text.
func (c *Console) EscDispatch(intermediates []byte, ignore bool, b byte) {
	c.flushStaging()
	if len(intermediates) > 0 {
		switch intermediates[0] {
		case ')', '(', '*', '+': // character-set designation: ignored (spec.md §4.3)
			return
		}
	}
	switch b {
	case 'D': // IND: index (move down, scrolling if at the bottom margin)
		if c.cursor.Y == c.scrollBottom {
			c.scrollDown(true)
		} else {
			c.moveCursor(c.cursor.Y+1, c.cursor.X)
		}
	case 'M': // RI: reverse index (move up, scrolling if at the top margin)
		if c.cursor.Y == c.scrollTop {
			c.scrollUp(true)
		} else {
			c.moveCursor(c.cursor.Y-1, c.cursor.X)
		}
	case 'E': // NEL: next line
		c.cursorNewline(true)
	case '=', '>': // DECKPAM/DECKPNM: keypad mode, no display effect tracked
	default:
		c.logf(SeverityWarn, "unhandled ESC %c", b)
		for _, ib := range intermediates {
			c.Print(rune(ib))
		}
		c.Print(rune(b))
	}
}

// moveCursor clamps (y, x) into the viewport and updates cursor state.
func (c *Console) moveCursor(y, x int) {
	c.cursor.Y = clamp(y, 0, c.height-1)
	c.cursor.X = clamp(x, 0, c.width-1)
	c.updateCursorVisibility()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// eraseLine implements EL: 0=cursor..end, 1=start..cursor, 2=entire line.
func (c *Console) eraseLine(mode int) {
	row := c.offset + c.cursor.Y
	c.ensureRow(row)
	line := c.lines.At(row)
	content := line.Content
	if content.Len() < c.width {
		content = content.Ljust(c.width, ' ')
	}
	blank := NewFormattedString(spaces(0), DefaultStyle)
	switch mode {
	case 0:
		blank = NewFormattedString(spaces(c.width-c.cursor.X), DefaultStyle)
		content = content.Slice(0, c.cursor.X).Append(blank)
	case 1:
		blank = NewFormattedString(spaces(c.cursor.X+1), DefaultStyle)
		content = blank.Append(content.Slice(min(c.cursor.X+1, content.Len()), content.Len()))
	case 2:
		content = FormattedString{}
	}
	line.Content = content.Rstrip()
	c.lines.Set(row, line)
}

// eraseDisplay implements ED: 0=cursor..end of screen, 1=start of
// screen..cursor, 2=entire screen.
func (c *Console) eraseDisplay(mode int) {
	switch mode {
	case 0:
		c.eraseLine(0)
		for y := c.cursor.Y + 1; y < c.height; y++ {
			c.clearRow(c.offset + y)
		}
	case 1:
		c.eraseLine(1)
		for y := 0; y < c.cursor.Y; y++ {
			c.clearRow(c.offset + y)
		}
	case 2:
		for y := 0; y < c.height; y++ {
			c.clearRow(c.offset + y)
		}
	}
}

func (c *Console) clearRow(row int) {
	if row < 0 || row >= c.lines.Len() {
		return
	}
	line := c.lines.At(row)
	line.Content = FormattedString{}
	c.lines.Set(row, line)
}

// eraseChars implements ECH: blank n characters starting at the cursor,
// without shifting the remainder of the line.
func (c *Console) eraseChars(n int) {
	row := c.offset + c.cursor.Y
	c.ensureRow(row)
	line := c.lines.At(row)
	content := line.Content
	if content.Len() < c.cursor.X {
		content = content.Ljust(c.cursor.X, ' ')
	}
	end := min(c.cursor.X+n, max(content.Len(), c.cursor.X+n))
	content = content.Ljust(end, ' ')
	before := content.Slice(0, c.cursor.X)
	blank := NewFormattedString(spaces(end-c.cursor.X), DefaultStyle)
	after := content.Slice(min(end, content.Len()), content.Len())
	line.Content = before.Append(blank).Append(after).Rstrip()
	c.lines.Set(row, line)
}

// insertLines implements IL: insert n blank lines at the cursor row,
// within the scroll region, pushing lines at the bottom of the region out.
func (c *Console) insertLines(n int) {
	for i := 0; i < n; i++ {
		top := c.offset + c.cursor.Y
		bottom := c.offset + c.scrollBottom
		c.ensureRow(bottom)
		for r := bottom; r > top; r-- {
			c.lines.Set(r, c.lines.At(r-1))
		}
		var num uint32
		if top > 0 {
			num = c.lines.At(top-1).RealNum + 1
		}
		c.lines.Set(top, emptyLine(num))
		if num = c.renumberFrom(top+1, num); num+1 > c.nextRealNum {
			c.nextRealNum = num + 1
		}
	}
}

// deleteChars implements DCH: remove n characters starting at the
// cursor, shifting the remainder of the line left and padding the
// vacated tail with default-styled spaces.
func (c *Console) deleteChars(n int) {
	row := c.offset + c.cursor.Y
	c.ensureRow(row)
	line := c.lines.At(row)
	content := line.Content
	if content.Len() <= c.cursor.X {
		return
	}
	removeEnd := min(c.cursor.X+n, content.Len())
	before := content.Slice(0, c.cursor.X)
	tail := content.Slice(removeEnd, content.Len())
	line.Content = before.Append(tail).Rstrip()
	c.lines.Set(row, line)
}

// deviceStatusReport implements DSR: 5 -> "ok", 6 -> cursor position.
func (c *Console) deviceStatusReport(mode int) {
	switch mode {
	case 5:
		c.replyWriter([]byte("\x1b[0n"))
	case 6:
		reply := "\x1b[" + itoa(c.cursor.Y+1) + ";" + itoa(c.cursor.X+1) + "R"
		c.replyWriter([]byte(reply))
	}
}

// setMode implements the subset of CSI h/l spec.md requires: insert
// mode (ANSI mode 4, non-private) is explicitly rejected with a
// logged error since Console never supports shifting text on input;
// private terminal modes (cursor keys, alt screen, mouse reporting,
// bracketed paste) are acknowledged as no-ops since Console has no visual
// behavior that depends on them.
func (c *Console) setMode(groups [][]uint16, private bool, enable bool) {
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		mode := int(g[0])
		if !private && mode == 4 {
			c.logf(SeverityError, "insert mode (CSI 4h/4l) is not supported")
			continue
		}
		// Every other recognized mode (private or not) has no Console-level
		// effect to track; ignore silently per spec.md §4.3.
	}
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
