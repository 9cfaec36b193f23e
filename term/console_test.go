package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The end-to-end scenarios below follow spec.md §8 directly; stored line
// content is compared after the Console's own Rstrip (spec.md §3), so a
// scenario's "row reads '123456789 '" becomes an assertion against
// "123456789" plus a separate check that the cursor lands one past the
// last printed column — the trailing pad is a display-time fill the host
// terminal collaborator applies (hostterm.Draw), not buffered state.

func newTestConsole(height, width int) *Console {
	return NewConsole(height, width, 1000)
}

func TestConsoleWritePlainText(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("123456789"))
	assert.Equal(t, "123456789", c.DisplayLine(0).String())
	y, x, _ := c.CursorPosition()
	assert.Equal(t, 0, y)
	assert.Equal(t, 9, x)
}

func TestConsoleCarriageReturnOverwrites(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("123456789"))
	c.Write([]byte("\rabcd"))
	assert.Equal(t, "abcd56789", c.DisplayLine(0).String())
	y, x, _ := c.CursorPosition()
	assert.Equal(t, 0, y)
	assert.Equal(t, 4, x)
}

func TestConsoleNewlineAndCursorHome(t *testing.T) {
	c := newTestConsole(20, 80)
	c.Write([]byte("1234\n56789\x1b[20;15HZZZ"))
	assert.Equal(t, "1234", c.DisplayLine(0).String())
	assert.Equal(t, "56789", c.DisplayLine(1).String())
	row19 := c.DisplayLine(19).String()
	require.GreaterOrEqual(t, len(row19), 17)
	assert.Equal(t, "ZZZ", row19[14:17])
	y, x, _ := c.CursorPosition()
	assert.Equal(t, 19, y)
	assert.Equal(t, 17, x)
}

func TestConsoleCursorUpPreservesColumn(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("AAAA\nBBBB\x1b[AZ"))
	assert.Equal(t, "AAAAZ", c.DisplayLine(0).String())
	assert.Equal(t, "BBBB", c.DisplayLine(1).String())
	y, x, _ := c.CursorPosition()
	assert.Equal(t, 0, y)
	assert.Equal(t, 5, x)
}

func TestConsoleEraseDisplayAndCursorQuery(t *testing.T) {
	c := newTestConsole(5, 10)
	var reply []byte
	c.SetReplyWriter(func(b []byte) { reply = append(reply, b...) })

	c.Write([]byte("hello\x1b[2J"))
	for y := 0; y < 5; y++ {
		assert.True(t, c.DisplayLine(y).IsEmpty(), "row %d should be cleared", y)
	}

	// ED clears the rows but leaves the cursor where "hello" put it.
	c.Write([]byte("\x1b[6n"))
	assert.Equal(t, "\x1b[1;6R", string(reply))
}

func TestConsoleWrapAndReflowMergeRealNum(t *testing.T) {
	c := newTestConsole(5, 5)
	c.Write([]byte("HelloWorld"))
	assert.Equal(t, "Hello", c.DisplayLine(0).String())
	assert.Equal(t, "World", c.DisplayLine(1).String())

	first, second := c.lines.At(0), c.lines.At(1)
	assert.Equal(t, first.RealNum, second.RealNum, "soft-wrapped rows share a real-num")

	c.Resize(5, 10)
	assert.Equal(t, "HelloWorld", c.DisplayLine(0).String())
}

func TestConsoleReflowRoundTrip(t *testing.T) {
	c := newTestConsole(10, 20)
	c.Write([]byte("the quick brown fox jumps over the lazy dog\nsecond line of text"))

	before := collectLines(c)

	c.Resize(10, 13)
	c.Resize(10, 20)

	after := collectLines(c)
	assert.Equal(t, before, after, "round-tripping width should reproduce identical per-cell text")
}

func collectLines(c *Console) []string {
	out := make([]string, c.LineCount())
	for i := 0; i < c.LineCount(); i++ {
		out[i] = c.lines.At(i).Content.String()
	}
	return out
}

func TestConsoleHistoryCap(t *testing.T) {
	c := NewConsole(3, 10, 5)
	for i := 0; i < 20; i++ {
		c.Write([]byte("x\n"))
	}
	assert.Equal(t, 5, c.LineCount())
}

func TestConsoleAutoScrollLaw(t *testing.T) {
	c := NewConsole(3, 10, 100)
	for i := 0; i < 10; i++ {
		c.Write([]byte("x\n"))
		assert.True(t, c.AutoScroll())
		assert.Equal(t, c.offset, c.displayOffset, "display_offset must track offset while auto_scroll holds")
	}
}

func TestConsoleScrollDisablesAutoScroll(t *testing.T) {
	c := NewConsole(3, 10, 100)
	for i := 0; i < 10; i++ {
		c.Write([]byte("x\n"))
	}
	c.Scroll(-1)
	assert.False(t, c.AutoScroll())
	assert.NotEqual(t, c.offset, c.displayOffset)

	c.DeactivateScroll()
	assert.True(t, c.AutoScroll())
	assert.Equal(t, c.offset, c.displayOffset)
}

func TestConsoleScrollClampsAtTop(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Scroll(-100)
	assert.GreaterOrEqual(t, c.displayOffset, 0)
}

func TestConsoleSGRColorsAndReset(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("\x1b[1;31mred\x1b[0mplain"))
	runs := c.DisplayLine(0).Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, "red", runs[0].Text)
	assert.True(t, runs[0].Style.Attr.Has(AttrBold))
	assert.Equal(t, BaseColor(1), runs[0].Style.Fg)
	assert.Equal(t, "plain", runs[1].Text)
	assert.Equal(t, DefaultStyle, runs[1].Style)
}

func TestConsoleSGRTrueColorApproximates(t *testing.T) {
	c := newTestConsole(5, 10)
	// pure red in 24-bit form should approximate to base red (index 1).
	c.Write([]byte("\x1b[38;2;255;0;0mR"))
	runs := c.DisplayLine(0).Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, BaseColor(1), runs[0].Style.Fg)
}

func TestConsoleBackspace(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("abc\x08\x08X"))
	assert.Equal(t, "aXc", c.DisplayLine(0).String())
}

func TestConsoleTabExpandsToNextMultipleOf8(t *testing.T) {
	c := newTestConsole(5, 20)
	c.Write([]byte("ab\tc"))
	assert.Equal(t, "ab      c", c.DisplayLine(0).String())
}

func TestConsoleUnknownEscapeDropsOnlyESCByte(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("\x1bZhello"))
	assert.Equal(t, "Zhello", c.DisplayLine(0).String())
}

func TestConsoleBellCallback(t *testing.T) {
	c := newTestConsole(5, 10)
	rang := false
	c.SetBell(func() { rang = true })
	c.Write([]byte("\x07"))
	assert.True(t, rang)
}

func TestConsoleScrollRegionRestrictsScrolling(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("\x1b[2;4r")) // scroll region rows 2..4 (1-based) -> 1..3
	c.Write([]byte("L1\nL2\nL3\nL4\nL5"))
	assertConsoleInvariants(t, c)
	// row 0 sits outside the scroll region [1,3]: scrolling within the
	// region must never touch it.
	assert.Equal(t, "L1", c.DisplayLine(0).String())
	// the newest line written inside the region must be present there.
	assert.Equal(t, "L5", c.DisplayLine(3).String())
}

// TestConsoleScrollRegionRenumbersRowsAfterRegion exercises a restricted
// scroll whose bottom margin sits above rows that still hold untouched,
// already-numbered content (spec.md §3's "real_num is non-decreasing"):
// scrolling inside the region must renumber everything below it forward
// instead of drawing the blanked boundary row's number from the global
// counter, which could otherwise leave a later row's real-num behind it.
func TestConsoleScrollRegionRenumbersRowsAfterRegion(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("A\nB\nC\nD\nE")) // real-nums [0,1,2,3,4]
	c.Write([]byte("\x1b[2;3r"))    // scroll region rows 2..3 (1-based) -> 1..2; rows 3,4 stay outside
	c.Write([]byte("\x1b[3;1H"))    // cursor to row 2 (the region's bottom margin)
	c.Write([]byte("\n"))           // real newline at the margin: triggers a restricted scrollDown
	assertConsoleInvariants(t, c)
}

func TestConsoleDeleteChars(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("abcdef"))
	c.Write([]byte("\x1b[3G"))   // move to column 3 (1-based) => x=2
	c.Write([]byte("\x1b[2P"))   // delete 2 chars at cursor
	assert.Equal(t, "abef", c.DisplayLine(0).String())
}

func TestConsoleEraseLineModes(t *testing.T) {
	c := newTestConsole(5, 10)
	c.Write([]byte("abcdefghij\r"))
	c.Write([]byte("\x1b[5C")) // move to column 5 (0-based x=5)
	c.Write([]byte("\x1b[K"))  // erase to end of line
	assert.Equal(t, "abcde", c.DisplayLine(0).String())
}

func TestConsoleResizeHeightKeepsCursorOnScreen(t *testing.T) {
	c := newTestConsole(5, 10)
	for i := 0; i < 4; i++ {
		c.Write([]byte("line\n"))
	}
	c.Resize(2, 10)
	_, _, visible := c.CursorPosition()
	assert.True(t, visible)
}

// TestConsoleCombinedShrinkResizeAppliesWidthBeforeHeight documents a
// deliberate divergence from spec.md's prescribed step order: §4.6 lists
// the height adjustment (step 3) before the width rebuild (step 4), but
// Console.Resize applies the width reflow first so a single rebuild pass
// can compute the post-reflow cursor row that the height step then keeps
// on-screen. For a combined shrink this can pick a different surviving
// line than a strictly spec-ordered implementation would; per spec.md
// §9's open question, that divergence is accepted and pinned here rather
// than silently special-cased.
func TestConsoleCombinedShrinkResizeAppliesWidthBeforeHeight(t *testing.T) {
	c := newTestConsole(6, 20)
	c.Write([]byte("first line of text\nsecond line of text\nthird line of text\nfourth"))

	c.Resize(2, 8)
	assertConsoleInvariants(t, c)

	_, _, visible := c.CursorPosition()
	assert.True(t, visible, "cursor must remain on-screen after a combined shrink")
}

func TestConsoleInvariantsHoldAfterMixedOps(t *testing.T) {
	c := NewConsole(4, 8, 50)
	ops := [][]byte{
		[]byte("hello world this wraps\n"),
		[]byte("\x1b[31mcolored\x1b[0m\n"),
		[]byte("\x1b[2J"),
		[]byte("\x1b[10;3Hmid"),
		[]byte("\x08\x08"),
	}
	for _, op := range ops {
		c.Write(op)
		assertConsoleInvariants(t, c)
	}
	c.Resize(6, 12)
	assertConsoleInvariants(t, c)
	c.Resize(3, 6)
	assertConsoleInvariants(t, c)
}

func assertConsoleInvariants(t *testing.T, c *Console) {
	t.Helper()
	require.Greater(t, c.LineCount(), 0, "line buffer must never be empty")
	assert.LessOrEqual(t, c.LineCount(), c.historySize)
	assert.GreaterOrEqual(t, c.offset+c.cursor.Y, 0)
	assert.Less(t, c.offset+c.cursor.Y, c.LineCount())
	assert.LessOrEqual(t, c.scrollTop, c.scrollBottom)
	assert.GreaterOrEqual(t, c.scrollTop, 0)
	assert.LessOrEqual(t, c.scrollBottom, c.height-1)
	assert.GreaterOrEqual(t, c.displayOffset, 0)
	assert.LessOrEqual(t, c.displayOffset, c.LineCount()-1)
	if c.autoScroll {
		assert.Equal(t, c.offset, c.displayOffset)
	}

	var prev uint32
	for i := 0; i < c.LineCount(); i++ {
		rn := c.lines.At(i).RealNum
		assert.GreaterOrEqual(t, rn, prev, "real-num must be non-decreasing")
		prev = rn
	}
}
