// Package term implements the terminal emulator core: a formatted-text
// run type, a line buffer with soft-wrap bookkeeping, and the Console
// state machine that consumes a child process's byte stream and keeps a
// scrollback-aware, reflowable display grid.
//
// The data model follows a run-length design rather than a per-cell
// grid: FormattedString carries a Style per contiguous text run, Line
// groups FormattedStrings with a wrap-continuation marker, and Console
// owns a LineBuffer. This mirrors how the teacher package stores
// per-character styling (terminal.CharacterStyles) but collapses runs of
// identical style into one allocation instead of one per cell.
package term

import "strings"

// run is one contiguous stretch of identically-styled text.
type run struct {
	text  []rune
	style Style
}

// FormattedString is an immutable, styled piece of text: an ordered
// sequence of runs. The zero value is the empty string.
type FormattedString struct {
	runs []run
}

// NewFormattedString builds a single-run FormattedString.
func NewFormattedString(text string, style Style) FormattedString {
	if text == "" {
		return FormattedString{}
	}
	return FormattedString{runs: []run{{text: []rune(text), style: style}}}
}

// Len returns the number of codepoints in s.
func (s FormattedString) Len() int {
	n := 0
	for _, r := range s.runs {
		n += len(r.text)
	}
	return n
}

// IsEmpty reports whether s has no runs.
func (s FormattedString) IsEmpty() bool { return len(s.runs) == 0 }

// Run is one contiguous, identically-styled stretch of text, exposed to
// callers (the host-terminal collaborator, spec.md §6) that need to draw
// each run in its own attr/fg/bg rather than as plain text.
type Run struct {
	Text  string
	Style Style
}

// Runs returns s's runs in order. Callers must not mutate the result.
func (s FormattedString) Runs() []Run {
	if len(s.runs) == 0 {
		return nil
	}
	out := make([]Run, len(s.runs))
	for i, r := range s.runs {
		out[i] = Run{Text: string(r.text), Style: r.style}
	}
	return out
}

// String renders s as plain text, discarding styling.
func (s FormattedString) String() string {
	var b strings.Builder
	for _, r := range s.runs {
		b.WriteString(string(r.text))
	}
	return b.String()
}

// appendRun appends text/style to runs, merging into the last run when
// the style is unchanged (spec invariant: adjacent same-style runs merge).
func appendRun(runs []run, text []rune, style Style) []run {
	if len(text) == 0 {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].style.equal(style) {
		runs[n-1].text = append(runs[n-1].text, text...)
		return runs
	}
	cp := make([]rune, len(text))
	copy(cp, text)
	return append(runs, run{text: cp, style: style})
}

// Append concatenates s and other into a new FormattedString, merging
// the boundary runs when their styles match.
func (s FormattedString) Append(other FormattedString) FormattedString {
	if s.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return s
	}
	out := make([]run, 0, len(s.runs)+len(other.runs))
	for _, r := range s.runs {
		out = appendRun(out, r.text, r.style)
	}
	for _, r := range other.runs {
		out = appendRun(out, r.text, r.style)
	}
	return FormattedString{runs: out}
}

// Slice returns the codepoints in [a, b), preserving per-run attribution.
// Panics on out-of-range indices, matching slice semantics elsewhere in Go.
func (s FormattedString) Slice(a, b int) FormattedString {
	if a < 0 || b < a || b > s.Len() {
		panic("term: FormattedString slice out of range")
	}
	if a == b {
		return FormattedString{}
	}
	var out []run
	pos := 0
	for _, r := range s.runs {
		runStart, runEnd := pos, pos+len(r.text)
		pos = runEnd
		lo, hi := max(a, runStart), min(b, runEnd)
		if lo >= hi {
			continue
		}
		out = appendRun(out, r.text[lo-runStart:hi-runStart], r.style)
	}
	return FormattedString{runs: out}
}

// Index returns the single-codepoint FormattedString at position i.
func (s FormattedString) Index(i int) FormattedString {
	return s.Slice(i, i+1)
}

// Ljust pads s on the right with default-styled fill runes up to width n.
// If s is already at least n codepoints, s is returned unchanged.
func (s FormattedString) Ljust(n int, fill rune) FormattedString {
	deficit := n - s.Len()
	if deficit <= 0 {
		return s
	}
	pad := make([]rune, deficit)
	for i := range pad {
		pad[i] = fill
	}
	return s.Append(FormattedString{runs: []run{{text: pad, style: DefaultStyle}}})
}

// Rstrip removes trailing whitespace, run by run, stopping as soon as it
// reaches a run with a non-default background: trailing colored space is
// meaningful and must survive the strip (spec.md §3).
func (s FormattedString) Rstrip() FormattedString {
	out := append([]run(nil), s.runs...)
	for len(out) > 0 {
		last := &out[len(out)-1]
		if !last.style.Bg.IsDefault() {
			break
		}
		trimmed := strings.TrimRight(string(last.text), " \t")
		if len(trimmed) == len(string(last.text)) {
			break
		}
		if trimmed == "" {
			out = out[:len(out)-1]
			continue
		}
		last.text = []rune(trimmed)
		break
	}
	return FormattedString{runs: out}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
