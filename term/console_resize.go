package term

// Resize implements spec.md §4.6: a lossless reflow on width change
// (pad each soft-wrapped row back to the old width, concatenate each
// real-line's rows, then rewrap at the new width) and a viewport
// adjustment on height change (see resizeHeight), applied in that order,
// the height step starting from the cursor row the reflow produced.
func (c *Console) Resize(newHeight, newWidth int) {
	if newHeight <= 0 || newWidth <= 0 {
		return
	}
	realY := c.offset + c.cursor.Y

	if newWidth != c.width {
		c.reflow(newWidth, realY)
	}
	if newHeight != c.height {
		c.resizeHeight(newHeight, c.offset+c.cursor.Y)
	}

	c.scrollTop = 0
	c.scrollBottom = c.height - 1
	c.redraw = true
	c.updateCursorVisibility()
}

// reflow rebuilds the buffer at newWidth by grouping consecutive rows
// that share a RealNum (a soft-wrapped original line), concatenating
// their content, and rewrapping at the new width. cursorReal is the
// absolute row index the cursor sits on before reflowing; it is tracked
// through the rebuild so the cursor lands on the same logical position
// after.
func (c *Console) reflow(newWidth int, cursorReal int) {
	old := c.lines.Lines()
	var rebuilt []Line
	cursorOffsetInGroup := -1
	newCursorRow := 0

	i := 0
	for i < len(old) {
		rn := old[i].RealNum
		var merged FormattedString
		groupStart := i
		for i < len(old) && old[i].RealNum == rn {
			content := old[i].Content
			// A row followed by its own continuation is padded back to the
			// old width, restoring the trailing spaces Rstrip removed.
			if i+1 < len(old) && old[i+1].RealNum == rn {
				content = content.Ljust(c.width, ' ')
			}
			if i == cursorReal {
				cursorOffsetInGroup = merged.Len() + min(c.cursor.X, content.Len())
			}
			merged = merged.Append(content)
			i++
		}
		_ = groupStart

		wrapped := wrapAt(merged, newWidth)
		if len(wrapped) == 0 {
			wrapped = []FormattedString{{}}
		}
		baseRow := len(rebuilt)
		for _, w := range wrapped {
			rebuilt = append(rebuilt, Line{Content: w.Rstrip(), RealNum: rn})
		}
		if cursorOffsetInGroup >= 0 {
			w := max(newWidth, 1)
			row := cursorOffsetInGroup / w
			col := cursorOffsetInGroup % w
			// A cursor sitting exactly at the group's end on an
			// exact-multiple-of-width offset is in the pending-wrap
			// state flushStaging leaves it in (cursor.X == width,
			// wrap deferred until the next write): wrapAt never emits
			// a row for that phantom position, so map it onto the end
			// of the last row wrapAt did produce instead of a
			// nonexistent next one.
			if col == 0 && row > 0 && cursorOffsetInGroup == merged.Len() {
				row--
				col = w
			}
			newCursorRow = baseRow + row
			c.cursor.X = col
			cursorOffsetInGroup = -1
		}
	}

	if len(rebuilt) == 0 {
		rebuilt = []Line{emptyLine(0)}
	}

	c.width = newWidth
	replaceLines(c.lines, rebuilt)

	// Prefer keeping the cursor's viewport row (cursor.Y) fixed and
	// shifting offset to match the cursor's new absolute row (spec.md
	// §4.6 step 5). When the rebuild collapsed the buffer so much that
	// no valid offset achieves that (offset would have to go negative),
	// let the cursor's viewport row absorb the difference instead of
	// leaving offset+cursor.y pointing past the end of the buffer.
	maxIdx := max(c.lines.Len()-1, 0)
	offset := newCursorRow - c.cursor.Y
	offset = clamp(offset, 0, maxIdx)
	c.displayOffset += offset - c.offset
	c.offset = offset
	c.cursor.Y = clamp(newCursorRow-offset, 0, c.height-1)
	c.displayOffset = clamp(c.displayOffset, 0, maxIdx)
}

// wrapAt splits s into rows of at most width codepoints each. An empty
// input produces no rows; the caller fills in a single blank row.
func wrapAt(s FormattedString, width int) []FormattedString {
	if width <= 0 {
		return []FormattedString{s}
	}
	if s.Len() == 0 {
		return nil
	}
	var out []FormattedString
	for pos := 0; pos < s.Len(); pos += width {
		end := min(pos+width, s.Len())
		out = append(out, s.Slice(pos, end))
	}
	return out
}

// replaceLines overwrites b's contents with rows in place.
func replaceLines(b *LineBuffer, rows []Line) {
	b.Truncate(0)
	for _, r := range rows {
		b.Append(r)
	}
}

// resizeHeight adjusts the viewport height without changing existing
// rows: growing first pulls history rows above the old top into view and
// appends blank continuation rows for any growth left over; shrinking
// keeps offset unchanged while the cursor still fits and otherwise moves
// it down just far enough to keep the cursor on the bottom row. The
// cursor's real row stays the same in both cases.
func (c *Console) resizeHeight(newHeight int, cursorReal int) {
	oldHeight := c.height
	c.height = newHeight

	if newHeight > oldHeight {
		// Reveal more of the buffer above the old top when there's
		// history to show; otherwise grow the live buffer downward.
		grow := newHeight - oldHeight
		avail := c.offset
		pull := min(grow, avail)
		c.offset -= pull
		c.displayOffset = max(0, c.displayOffset-pull)
		remaining := grow - pull
		for i := 0; i < remaining; i++ {
			c.lines.Append(emptyLine(c.lines.At(c.lines.Len() - 1).RealNum))
		}
	} else if cursorReal-c.offset >= newHeight {
		c.offset = cursorReal - newHeight + 1
	}

	c.cursor.Y = clamp(cursorReal-c.offset, 0, c.height-1)
	c.syncDisplayOffset()
}
