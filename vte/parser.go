// Package vte is the byte-level control-sequence tokenizer that drives
// package term's Console: a ground -> escape -> CSI-param -> final-byte
// state machine that consumes a child process's raw output stream and
// calls back into a Performer for each printable rune, C0 control, or
// recognized escape/CSI/OSC/DCS sequence. It has no notion of a cursor,
// a grid, or scrollback — that belongs entirely to the Performer
// implementation (spec.md §9 prefers this dispatch shape over a regex
// table; spec.md §4.3's sequence table is the behavior this parser,
// paired with term.Console's dispatch, must reproduce).
package vte

import (
	"unicode/utf8"
)

const (
	// MaxIntermediates is the maximum number of intermediate bytes
	MaxIntermediates = 2
	// MaxOSCRaw is the maximum size of OSC string
	MaxOSCRaw = 1024
	// MaxOSCParams is the maximum number of OSC parameters
	MaxOSCParams = 16
)

// Parser is the byte-at-a-time tokenizer driving the state machine this
// file implements: one Advance call can leave it mid-sequence (mid-CSI-
// param, mid-UTF-8, inside a DCS string), so every field below is state
// carried across calls rather than scratch space local to one.
type Parser struct {
	state State

	intermediates []byte // ESC/CSI/DCS intermediate bytes, capped at MaxIntermediates
	params        *Params

	currentParam    uint16 // the numeric field currently being scanned
	hasCurrentParam bool   // whether a digit has been seen for it yet
	inSubparam      bool   // whether currentParam belongs to a colon-delimited group
	ignoring        bool   // sequence overflowed MaxParams/MaxIntermediates; dispatch as unrecognized

	oscRaw       []byte // raw OSC payload, ';' boundaries recorded in oscParams
	oscParams    []int
	oscNumParams int

	pendingESC bool // DCS and SOS/PM/APC strings: saw ESC, not yet resolved as ST or a literal byte

	partialUTF8    [4]byte // a printable rune's bytes split across two Advance calls
	partialUTF8Len int
}

// NewParser returns a Parser ready to tokenize from StateGround.
func NewParser() *Parser {
	return &Parser{
		state:         StateGround,
		params:        NewParams(),
		intermediates: make([]byte, 0, MaxIntermediates),
		oscRaw:        make([]byte, 0, MaxOSCRaw),
		oscParams:     make([]int, 0, MaxOSCParams*2), // start,end pairs
	}
}

// State returns the current parser state
func (p *Parser) State() State {
	return p.state
}

// Advance processes input bytes through the state machine
func (p *Parser) Advance(performer Performer, bytes []byte) {
	i := 0

	// Handle partial UTF-8 from previous call
	if p.partialUTF8Len > 0 {
		consumed := p.advancePartialUTF8(performer, bytes)
		i += consumed
		// If we consumed some bytes, we might still be in Ground state
		// and need to continue processing remaining bytes
		if i >= len(bytes) {
			return
		}
	}

	for i < len(bytes) {
		switch p.state {
		case StateGround:
			i += p.advanceGround(performer, bytes[i:])
		case StateEscape:
			p.advanceEscape(performer, bytes[i])
			i++
		case StateEscapeIntermediate:
			p.advanceEscapeIntermediate(performer, bytes[i])
			i++
		case StateCSIEntry:
			p.advanceCSIEntry(performer, bytes[i])
			i++
		case StateCSIParam:
			p.advanceCSIParam(performer, bytes[i])
			i++
		case StateCSIIntermediate:
			p.advanceCSIIntermediate(performer, bytes[i])
			i++
		case StateCSIIgnore:
			p.advanceCSIIgnore(performer, bytes[i])
			i++
		case StateOSCString:
			p.advanceOSCString(performer, bytes[i])
			i++
		case StateDCSEntry:
			p.advanceDCSEntry(performer, bytes[i])
			i++
		case StateDCSParam:
			p.advanceDCSParam(performer, bytes[i])
			i++
		case StateDCSIntermediate:
			p.advanceDCSIntermediate(performer, bytes[i])
			i++
		case StateDCSPassthrough:
			p.advanceDCSPassthrough(performer, bytes[i])
			i++
		case StateDCSIgnore:
			p.advanceDCSIgnore(performer, bytes[i])
			i++
		case StateSOSPMApcString:
			p.advanceSOSPMApcString(performer, bytes[i])
			i++
		default:
			i++
		}
	}
}

// advanceGround runs the common case: bytes that need no sequence tracking
// at all. It scans a whole run of ground-state bytes in one call (the only
// advance* method that does, since every other state can pivot on a single
// byte) and returns early only when something needs a state change —
// ESC, a C1 introducer, or the start of a multi-byte rune.
func (p *Parser) advanceGround(performer Performer, bytes []byte) int {
	for i, b := range bytes {
		switch {
		case b == 0x1B: // ESC
			p.state = StateEscape
			p.resetParams()
			return i + 1
		case b < 0x20: // C0 control
			performer.Execute(b)
		case b >= 0x20 && b < 0x7F: // Printable ASCII
			performer.Print(rune(b))
		case b >= 0x80: // UTF-8 lead byte, or an 8-bit C1 control
			if b >= 0xC0 {
				return i + p.handleUTF8(performer, bytes[i:])
			} else if b == 0x90 { // C1 DCS
				p.state = StateDCSEntry
				p.resetParams()
				return i + 1
			} else if b == 0x9B { // C1 CSI
				p.state = StateCSIEntry
				p.resetParams()
				return i + 1
			} else if b == 0x9D { // C1 OSC
				p.state = StateOSCString
				p.resetParams()
				return i + 1
			} else {
				// A UTF-8 continuation byte with no lead byte before it.
				performer.Print(utf8.RuneError)
			}
		case b == 0x7F: // DEL: not printable, not a control worth executing
		}
	}
	return len(bytes)
}

// advanceEscape runs immediately after ESC: b selects either a private
// dispatch range, an intermediate byte, or one of the multi-byte
// introducers (CSI/OSC/DCS/SOS-PM-APC) that need their own state.
func (p *Parser) advanceEscape(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
		p.state = StateEscapeIntermediate
	case b >= 0x30 && b <= 0x4F:
		performer.EscDispatch(p.intermediates, p.ignoring, b)
		p.state = StateGround
	case b == 0x5B: // '['
		p.state = StateCSIEntry
	case b == 0x5D: // ']'
		p.state = StateOSCString
	case b == 0x50: // 'P'
		p.state = StateDCSEntry
	case b == 0x58 || b == 0x5E || b == 0x5F: // 'X', '^', '_'
		p.state = StateSOSPMApcString
	case b >= 0x51 && b <= 0x57 || b >= 0x59 && b <= 0x5A || b == 0x5C || b >= 0x60 && b <= 0x7E:
		performer.EscDispatch(p.intermediates, p.ignoring, b)
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceEscapeIntermediate runs after at least one ESC intermediate byte
// has been collected; it accepts more of them or the final byte that
// closes the sequence.
func (p *Parser) advanceEscapeIntermediate(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
	case b >= 0x30 && b <= 0x7E:
		performer.EscDispatch(p.intermediates, p.ignoring, b)
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceCSIEntry runs right after the CSI introducer (ESC [, or the C1
// 0x9B), before any parameter byte has been seen. '?' and friends in the
// 0x3C-0x3F range land here as a leading intermediate (term/console_dispatch.go
// reads that back out as the private-mode marker).
func (p *Parser) advanceCSIEntry(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
		p.state = StateCSIIntermediate
	case b >= 0x30 && b <= 0x39:
		p.paramDigit(b)
		p.state = StateCSIParam
	case b == 0x3A:
		p.paramSubparam()
		p.state = StateCSIParam
	case b == 0x3B:
		p.paramSeparator()
		p.state = StateCSIParam
	case b >= 0x3C && b <= 0x3F:
		p.collectIntermediate(b)
		p.state = StateCSIParam
	case b >= 0x40 && b <= 0x7E:
		p.csiDispatch(performer, b)
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceCSIParam runs while digits, ';', or ':' are still arriving; a
// 0x3C-0x3F byte here is malformed (that range is only legal once,
// right after the introducer) and drops the whole sequence into
// StateCSIIgnore rather than trying to recover a final byte from it.
func (p *Parser) advanceCSIParam(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
		p.state = StateCSIIntermediate
	case b >= 0x30 && b <= 0x39:
		p.paramDigit(b)
	case b == 0x3A:
		p.paramSubparam()
	case b == 0x3B:
		p.paramSeparator()
	case b >= 0x3C && b <= 0x3F:
		p.state = StateCSIIgnore
	case b >= 0x40 && b <= 0x7E:
		p.csiDispatch(performer, b)
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceCSIIntermediate mirrors advanceEscapeIntermediate for CSI
// sequences: once an intermediate byte has been seen, no further
// parameter byte is legal, so 0x30-0x3F here means malformed input.
func (p *Parser) advanceCSIIntermediate(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
	case b >= 0x30 && b <= 0x3F:
		p.state = StateCSIIgnore
	case b >= 0x40 && b <= 0x7E:
		p.csiDispatch(performer, b)
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceCSIIgnore discards the rest of a malformed CSI sequence (a
// misplaced private marker, or a parameter byte after an intermediate;
// too many params only sets ignoring and still dispatches), still tracking the final
// byte so parsing resumes cleanly in Ground afterward without dispatching
// anything for the dropped sequence.
func (p *Parser) advanceCSIIgnore(performer Performer, b byte) {
	switch {
	case b < 0x20:
		performer.Execute(b)
	case b >= 0x20 && b <= 0x3F: // still within the malformed sequence
	case b >= 0x40 && b <= 0x7E:
		p.state = StateGround
	case b == 0x7F: // DEL
	}
}

// advanceOSCString collects an OSC payload up to its terminator, which is
// either BEL (0x07, the common shorthand) or the two-byte ST (ESC \). An
// ESC is provisionally appended to the raw buffer since the byte after it
// decides whether it was ST or just data; oscDispatch's bellTerminated
// flag tells the Performer which form actually closed the sequence.
func (p *Parser) advanceOSCString(performer Performer, b byte) {
	switch {
	case b == 0x07:
		p.oscDispatch(performer, true)
		p.state = StateGround
	case b == 0x1B:
		p.oscPut(b)
	case b == '\\' && len(p.oscRaw) > 0 && p.oscRaw[len(p.oscRaw)-1] == 0x1B:
		p.oscRaw = p.oscRaw[:len(p.oscRaw)-1] // drop the provisional ESC
		p.oscDispatch(performer, false)
		p.state = StateGround
	case b >= 0x20 && b < 0x7F:
		p.oscPut(b)
	case b < 0x20 || b >= 0x80:
		p.oscPut(b)
	}
}

// advanceDCSEntry mirrors advanceCSIEntry for a DCS introducer (ESC P, or
// the C1 0x90): it shares the same param/intermediate collection, but its
// final byte calls hookDCS instead of dispatching immediately, since a DCS
// sequence's payload is a string that arrives over however many more
// Advance calls it takes to reach the terminator.
func (p *Parser) advanceDCSEntry(performer Performer, b byte) {
	switch {
	case b < 0x20:
		// Ignore
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
		p.state = StateDCSIntermediate
	case b >= 0x30 && b <= 0x39:
		p.paramDigit(b)
		p.state = StateDCSParam
	case b == 0x3A:
		p.paramSubparam()
		p.state = StateDCSParam
	case b == 0x3B:
		p.paramSeparator()
		p.state = StateDCSParam
	case b >= 0x3C && b <= 0x3F:
		p.collectIntermediate(b)
		p.state = StateDCSParam
	case b >= 0x40 && b <= 0x7E:
		p.hookDCS(performer, b)
	case b == 0x7F:
		// Ignore
	}
}

// advanceDCSParam is advanceCSIParam's DCS counterpart.
func (p *Parser) advanceDCSParam(performer Performer, b byte) {
	switch {
	case b < 0x20:
		// Ignore
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
		p.state = StateDCSIntermediate
	case b >= 0x30 && b <= 0x39:
		p.paramDigit(b)
	case b == 0x3A:
		p.paramSubparam()
	case b == 0x3B:
		p.paramSeparator()
	case b >= 0x3C && b <= 0x3F:
		p.state = StateDCSIgnore
	case b >= 0x40 && b <= 0x7E:
		p.hookDCS(performer, b)
	case b == 0x7F:
		// Ignore
	}
}

// advanceDCSIntermediate is advanceCSIIntermediate's DCS counterpart.
func (p *Parser) advanceDCSIntermediate(performer Performer, b byte) {
	switch {
	case b < 0x20:
		// Ignore
	case b >= 0x20 && b <= 0x2F:
		p.collectIntermediate(b)
	case b >= 0x30 && b <= 0x3F:
		p.state = StateDCSIgnore
	case b >= 0x40 && b <= 0x7E:
		p.hookDCS(performer, b)
	case b == 0x7F:
		// Ignore
	}
}

// hookDCS finalizes whatever parameter was mid-accumulation and invokes
// Hook for DCS final byte b, then enters passthrough for the string body.
// spec.md §4.3 recognizes no DCS sequence (Console.Hook/Put/Unhook are
// no-ops, see term/console.go), but the tokenizer still has to track one
// correctly end-to-end: dropping it wholesale would leave the state
// machine unable to find the string's terminator and desync on whatever
// CSI/ESC sequence follows.
func (p *Parser) hookDCS(performer Performer, b byte) {
	p.finalizeCurrentParam(true)
	performer.Hook(p.params, p.intermediates, p.ignoring, rune(b))
	p.state = StateDCSPassthrough
}

// finalizeCurrentParam pushes (or extends, inside a colon-delimited
// subparameter group) whatever numeric value is still mid-accumulation
// when a sequence's final byte arrives - the same accounting
// paramSeparator/paramSubparam already do mid-sequence, just run once
// more at the end since there's no trailing separator to trigger it.
// setIgnoring additionally flags the sequence as overflowed once the
// buffer is full, matching the DCS Hook path; csiDispatch's own call
// leaves that flag alone, since CsiDispatch's "ignore" already comes
// from intermediate/param collection during the scan.
func (p *Parser) finalizeCurrentParam(setIgnoring bool) {
	if !p.hasCurrentParam {
		return
	}
	if p.params.IsFull() {
		if setIgnoring {
			p.ignoring = true
		}
		return
	}
	if p.inSubparam {
		p.params.Extend(p.currentParam)
	} else {
		p.params.Push(p.currentParam)
	}
}

// advanceDCSPassthrough streams a DCS string's body to the Performer one
// byte at a time via Put, until BEL or ST (ESC \) closes it with Unhook.
// An ESC here is ambiguous until the following byte arrives — pendingESC
// defers the decision, and a non-'\' byte means it was data after all, so
// the deferred ESC is replayed through Put before the byte that follows it.
func (p *Parser) advanceDCSPassthrough(performer Performer, b byte) {
	switch {
	case b == 0x1B:
		p.pendingESC = true
		return
	case b == '\\' && p.pendingESC:
		p.pendingESC = false
		performer.Unhook()
		p.state = StateGround
	case b == 0x07:
		performer.Unhook()
		p.state = StateGround
	case b >= 0x00 && b <= 0x06 || b >= 0x08 && b <= 0x17 || b == 0x19 || b >= 0x1C && b <= 0x7E:
		if p.pendingESC {
			performer.Put(0x1B)
			p.pendingESC = false
		}
		performer.Put(b)
	case b == 0x18 || b == 0x1A: // CAN/SUB: abort the string, still surface the control
		performer.Unhook()
		performer.Execute(b)
		p.state = StateGround
	case b == 0x7F:
		if p.pendingESC {
			performer.Put(0x1B)
			p.pendingESC = false
		}
		performer.Put(b)
	default:
		if p.pendingESC {
			performer.Put(0x1B)
			p.pendingESC = false
		}
		performer.Put(b)
	}
}

// advanceDCSIgnore discards a malformed DCS string's body, watching only
// for its terminator (ST) or an abort (CAN/SUB) to return to Ground.
func (p *Parser) advanceDCSIgnore(performer Performer, b byte) {
	switch {
	case b == 0x1B: // possibly the start of ST; next byte decides
		p.pendingESC = true
	case b == '\\' && p.pendingESC:
		p.pendingESC = false
		p.state = StateGround
	case b == 0x18 || b == 0x1A:
		p.pendingESC = false
		p.state = StateGround
	default:
		p.pendingESC = false
	}
}

// advanceSOSPMApcString discards an SOS/PM/APC string's body entirely —
// spec.md §4.3 gives Console no use for any of the three, so unlike DCS
// there's no Performer callback to stream the payload through, only the
// ST scan needed to find where the sequence ends.
func (p *Parser) advanceSOSPMApcString(performer Performer, b byte) {
	switch {
	case b == 0x1B:
		p.pendingESC = true
	case b == '\\' && p.pendingESC:
		p.pendingESC = false
		p.state = StateGround
	default:
		p.pendingESC = false
	}
}

// resetParams clears every field a sequence accumulates into, run on
// entry to a new sequence (ESC/CSI/DCS/OSC) so a prior sequence's leftover
// state never leaks into the next one.
func (p *Parser) resetParams() {
	p.params.Clear()
	p.intermediates = p.intermediates[:0]
	p.ignoring = false
	p.oscRaw = p.oscRaw[:0]
	p.oscParams = p.oscParams[:0]
	p.oscNumParams = 0
	p.currentParam = 0
	p.hasCurrentParam = false
	p.inSubparam = false
	p.pendingESC = false
}

// collectIntermediate appends b to the pending intermediate bytes, or
// marks the sequence as overflowed once MaxIntermediates is reached —
// csiDispatch/EscDispatch still fire on the final byte, just with
// ignoring set so the Performer can tell the sequence was truncated.
func (p *Parser) collectIntermediate(b byte) {
	if len(p.intermediates) < MaxIntermediates {
		p.intermediates = append(p.intermediates, b)
	} else {
		p.ignoring = true
	}
}

// paramDigit folds one more digit into the parameter currently being
// scanned, saturating at 9999 — comfortably above any real CSI/DCS
// parameter (SGR codes stop at 107, color components at 255) so the cap
// only ever bites on garbage input.
func (p *Parser) paramDigit(b byte) {
	digit := uint16(b - '0')
	if !p.hasCurrentParam {
		p.currentParam = digit
		p.hasCurrentParam = true
	} else {
		v := int(p.currentParam)*10 + int(digit)
		if v > 9999 {
			v = 9999
		}
		p.currentParam = uint16(v)
	}
}

// pushParam appends v as a new top-level parameter, or marks the sequence
// ignored if Params is already at capacity. Reports whether it succeeded,
// since paramSubparam only opens a subparameter group on success.
func (p *Parser) pushParam(v uint16) bool {
	if p.params.IsFull() {
		p.ignoring = true
		return false
	}
	p.params.Push(v)
	return true
}

// extendParam appends v to the subparameter group the most recent
// pushParam opened, or marks the sequence ignored if Params is full.
func (p *Parser) extendParam(v uint16) bool {
	if p.params.IsFull() {
		p.ignoring = true
		return false
	}
	p.params.Extend(v)
	return true
}

// paramSeparator runs on ';': it closes out whatever parameter (or
// subparameter) was being scanned, or pushes an explicit 0 for an empty
// position (";;" means a zero parameter sits between them), then resets
// scanning state for the next parameter.
func (p *Parser) paramSeparator() {
	if p.hasCurrentParam {
		if p.inSubparam {
			p.extendParam(p.currentParam)
		} else {
			p.pushParam(p.currentParam)
		}
	} else if !p.inSubparam {
		p.pushParam(0)
	}
	p.currentParam = 0
	p.hasCurrentParam = false
	p.inSubparam = false
}

// paramSubparam runs on ':', which behaves like ';' except it keeps the
// parameter group open rather than starting a fresh one — the first
// colon closes the main parameter and opens its subparameter group
// (e.g. "38:2:255:0:0"'s leading "38"), every colon after that appends
// another subparameter to the same group.
func (p *Parser) paramSubparam() {
	if p.hasCurrentParam {
		if !p.inSubparam {
			if p.pushParam(p.currentParam) {
				p.inSubparam = true
			}
		} else {
			p.extendParam(p.currentParam)
		}
		p.currentParam = 0
		p.hasCurrentParam = false
		return
	}
	if !p.inSubparam {
		if p.pushParam(0) {
			p.inSubparam = true
		}
	} else {
		p.extendParam(0)
	}
}

// csiDispatch closes out a CSI sequence's last parameter and hands the
// whole thing to the Performer in one call — term/console_dispatch.go's
// CsiDispatch is the only implementation spec.md §4.3 wires up.
func (p *Parser) csiDispatch(performer Performer, action byte) {
	p.finalizeCurrentParam(false)
	performer.CsiDispatch(p.params, p.intermediates, p.ignoring, rune(action))
	p.resetParams()
}

// oscPut appends one OSC payload byte, recording ';' boundaries in
// oscParams so oscDispatch can split the raw buffer back into fields
// without needing its own delimiter scan. Bytes past MaxOSCRaw are
// silently dropped rather than growing the buffer without bound —
// Console's OscDispatch never recognizes anything OSC-borne (spec.md
// §4.3), so a truncated payload still resolves to the same no-op.
func (p *Parser) oscPut(b byte) {
	if len(p.oscRaw) < MaxOSCRaw {
		if b == ';' && p.oscNumParams < MaxOSCParams {
			p.oscParams = append(p.oscParams, len(p.oscRaw))
			p.oscNumParams++
		} else {
			p.oscRaw = append(p.oscRaw, b)
		}
	}
}

// oscDispatch slices the accumulated oscRaw buffer at the boundaries
// oscPut recorded and hands the resulting fields to the Performer.
func (p *Parser) oscDispatch(performer Performer, bellTerminated bool) {
	params := make([][]byte, 0, p.oscNumParams+1)
	start := 0
	for _, end := range p.oscParams {
		if end > start && end <= len(p.oscRaw) {
			params = append(params, p.oscRaw[start:end])
			start = end
		}
	}
	if start < len(p.oscRaw) {
		params = append(params, p.oscRaw[start:])
	}
	performer.OscDispatch(params, bellTerminated)
	p.resetParams()
}

// handleUTF8 decodes one rune starting at a lead byte seen in Ground. A
// multi-byte rune can be split across two Advance calls (the child
// process's output arrives in whatever chunks its pty gives us, with no
// regard for rune boundaries), so an incomplete-but-possibly-valid prefix
// is stashed in partialUTF8 rather than treated as an error.
func (p *Parser) handleUTF8(performer Performer, bytes []byte) int {
	if len(bytes) == 0 {
		return 0
	}
	r, size := utf8.DecodeRune(bytes)
	if r == utf8.RuneError {
		if size == 1 && !utf8.FullRune(bytes) {
			n := copy(p.partialUTF8[:], bytes)
			p.partialUTF8Len = n
			return len(bytes)
		}
		performer.Print(utf8.RuneError)
		return 1
	}
	performer.Print(r)
	return size
}

// advancePartialUTF8 resumes a rune handleUTF8 stashed mid-decode. A
// control byte arriving before the rune completes means whatever was
// buffered is truly malformed (a real multi-byte rune never contains one),
// so it's dropped as a replacement character and the control byte itself
// is left unconsumed for the caller to process normally.
func (p *Parser) advancePartialUTF8(performer Performer, bytes []byte) int {
	if len(bytes) == 0 {
		return 0
	}
	if bytes[0] < 0x20 || bytes[0] == 0x7F || bytes[0] == 0x1B {
		performer.Print(utf8.RuneError)
		p.partialUTF8Len = 0
		return 0
	}

	needed := utf8.UTFMax - p.partialUTF8Len
	n := min(needed, len(bytes))
	copy(p.partialUTF8[p.partialUTF8Len:], bytes[:n])

	r, size := utf8.DecodeRune(p.partialUTF8[:p.partialUTF8Len+n])
	if r != utf8.RuneError {
		performer.Print(r)
		bytesFromInput := size - p.partialUTF8Len
		p.partialUTF8Len = 0
		return bytesFromInput
	}
	if size == 1 && !utf8.FullRune(p.partialUTF8[:p.partialUTF8Len+n]) {
		p.partialUTF8Len += n
		return n
	}

	performer.Print(utf8.RuneError)
	p.partialUTF8Len = 0
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}