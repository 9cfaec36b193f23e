package term

// LineBuffer is an ordered sequence of Lines. It never enforces the
// history cap itself — that is Console's job (spec.md §4.2) — it only
// guarantees it is never empty.
type LineBuffer struct {
	lines []Line
}

// NewLineBuffer returns a buffer containing a single empty line.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{lines: []Line{emptyLine(0)}}
}

// Len returns the number of lines in the buffer.
func (b *LineBuffer) Len() int { return len(b.lines) }

// At returns the line at index i.
func (b *LineBuffer) At(i int) Line { return b.lines[i] }

// Set replaces the line at index i.
func (b *LineBuffer) Set(i int, l Line) { b.lines[i] = l }

// Append adds a line to the end of the buffer.
func (b *LineBuffer) Append(l Line) { b.lines = append(b.lines, l) }

// PopLast removes and returns the last line. Never called when Len()==1;
// callers must preserve the non-empty invariant themselves.
func (b *LineBuffer) PopLast() Line {
	last := b.lines[len(b.lines)-1]
	b.lines = b.lines[:len(b.lines)-1]
	return last
}

// Truncate drops every line from index n onward.
func (b *LineBuffer) Truncate(n int) {
	if n < len(b.lines) {
		b.lines = b.lines[:n]
	}
}

// TrimFront drops the first n lines and returns the number actually
// removed (fewer than n if that would empty the buffer — at least one
// line always survives).
func (b *LineBuffer) TrimFront(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(b.lines) {
		n = len(b.lines) - 1
	}
	if n <= 0 {
		return 0
	}
	b.lines = append([]Line(nil), b.lines[n:]...)
	return n
}

// Lines returns the full backing slice. Callers must not retain it past
// the next mutating call.
func (b *LineBuffer) Lines() []Line { return b.lines }

// InsertAt inserts l at index i, shifting everything at and after i down
// by one. Used only by Console's top-of-history reverse-index path, where
// a row must appear at the front of the buffer.
func (b *LineBuffer) InsertAt(i int, l Line) {
	b.lines = append(b.lines, Line{})
	copy(b.lines[i+1:], b.lines[i:])
	b.lines[i] = l
}
