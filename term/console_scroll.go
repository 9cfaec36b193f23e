package term

// console_scroll.go implements the scroll-region semantics spec.md §4.5
// describes: scrollDown backs cursorNewline and ESC D (index) when the
// cursor sits on the bottom margin, scrollUp backs ESC M (reverse index)
// when the cursor sits on the top margin. Both honor a restricted region
// ([scrollTop, scrollBottom] within the viewport) separately from the
// full-screen case, which is also the one that grows the scrollback log.

func (c *Console) fullRegion() bool {
	return c.scrollTop == 0 && c.scrollBottom == c.height-1
}

func (c *Console) newRealNum(real bool) uint32 {
	if !real {
		return c.lines.At(c.lines.Len() - 1).RealNum
	}
	rn := c.nextRealNum
	c.nextRealNum++
	return rn
}

// renumberFrom walks the buffer from index start onward, reassigning
// real-nums so they stay contiguous and non-decreasing after a
// restricted-region scroll has rewritten the numbering at start-1: the
// first row always gets num+1 (it can no longer be a continuation of
// whatever now sits at start-1), and every later row advances num again
// only when its own original real-num changed from the row before it,
// preserving wrap-group boundaries. Mirrors tmux.py's _scroll_down/
// _scroll_up forward renumbering loop. Returns the last num assigned, or
// num unchanged if start is past the end of the buffer.
func (c *Console) renumberFrom(start int, num uint32) uint32 {
	haveLast := false
	var last uint32
	for i := start; i < c.lines.Len(); i++ {
		line := c.lines.At(i)
		if !haveLast || line.RealNum != last {
			num++
		}
		last = line.RealNum
		haveLast = true
		line.RealNum = num
		c.lines.Set(i, line)
	}
	return num
}

// scrollDown moves the scroll region's content up by one row, discarding
// its top row and introducing a blank row at its bottom.
func (c *Console) scrollDown(real bool) {
	if c.fullRegion() {
		c.lines.Append(emptyLine(c.newRealNum(real)))
		c.checkHistorySize()
		c.offset++
		c.syncDisplayOffset()
		c.updateCursorVisibility()
		return
	}

	top := c.offset + c.scrollTop
	bottom := c.offset + c.scrollBottom
	c.ensureRow(bottom)
	for i := top; i < bottom; i++ {
		c.lines.Set(i, c.lines.At(i+1))
	}
	var num uint32
	if bottom > 0 {
		num = c.lines.At(bottom - 1).RealNum
	}
	if real {
		num++
	}
	c.lines.Set(bottom, emptyLine(num))
	num = c.renumberFrom(bottom+1, num)
	if num+1 > c.nextRealNum {
		c.nextRealNum = num + 1
	}
	c.updateCursorVisibility()
}

// scrollUp moves the scroll region's content down by one row, discarding
// its bottom row and introducing a blank row at its top (reverse index).
func (c *Console) scrollUp(real bool) {
	if c.fullRegion() {
		if c.offset == 0 {
			c.lines.InsertAt(0, emptyLine(0))
			if num := c.renumberFrom(1, 0); num+1 > c.nextRealNum {
				c.nextRealNum = num + 1
			}
			c.checkHistorySize()
			bottomIdx := c.height
			if bottomIdx < c.lines.Len() {
				c.lines.Truncate(c.lines.Len() - 1)
			}
			c.syncDisplayOffset()
			c.updateCursorVisibility()
			return
		}
		c.offset--
		c.syncDisplayOffset()
		c.updateCursorVisibility()
		return
	}

	top := c.offset + c.scrollTop
	bottom := c.offset + c.scrollBottom
	c.ensureRow(bottom)
	for i := bottom; i > top; i-- {
		c.lines.Set(i, c.lines.At(i-1))
	}
	var num uint32
	if top > 0 {
		num = c.lines.At(top-1).RealNum + 1
	}
	c.lines.Set(top, emptyLine(num))
	num = c.renumberFrom(top+1, num)
	if num+1 > c.nextRealNum {
		c.nextRealNum = num + 1
	}
	c.updateCursorVisibility()
}

// setScrollRegion implements DECSTBM (spec.md §4.5): sets the inclusive
// scroll margins and homes the cursor, per the standard's documented side
// effect.
func (c *Console) setScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom > c.height-1 || bottom <= 0 {
		bottom = c.height - 1
	}
	if top >= bottom {
		top, bottom = 0, c.height-1
	}
	c.scrollTop, c.scrollBottom = top, bottom
	c.cursor.Y, c.cursor.X = 0, 0
	c.updateCursorVisibility()
}
