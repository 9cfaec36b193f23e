package vte

// Performer is the callback set Parser drives as it tokenizes a byte
// stream: every printable rune, C0/C1 control, and recognized
// escape/CSI/DCS/OSC sequence lands on one of these methods. term.Console
// is the only production implementation — it carries all cursor, grid,
// and scrollback state; Parser itself carries none.
type Performer interface {
	// Print draws one printable rune at the cursor.
	Print(c rune)

	// Execute runs a single-byte C0/C1 control function (BEL, BS, LF, ...).
	Execute(b byte)

	// Hook fires on the final byte of a DCS sequence's header, before any
	// of its data arrives; action and the private marker/final byte in
	// intermediates select which device control function Put/Unhook feed.
	Hook(params *Params, intermediates []byte, ignore bool, action rune)

	// Put delivers one byte of a DCS string's body to the handler Hook
	// selected.
	Put(b byte)

	// Unhook fires when a DCS string terminates.
	Unhook()

	// OscDispatch fires on a complete OSC sequence, params split on ';'.
	OscDispatch(params [][]byte, bellTerminated bool)

	// CsiDispatch fires on the final byte of a CSI sequence. ignore is set
	// when the sequence carried more parameters or intermediates than the
	// parser tracks, and the dispatch should be treated as unrecognized.
	CsiDispatch(params *Params, intermediates []byte, ignore bool, action rune)

	// EscDispatch fires on the final byte of a non-CSI escape sequence.
	EscDispatch(intermediates []byte, ignore bool, b byte)
}

// NoopPerformer discards every callback; embed it to implement Performer
// partially, e.g. in tests that only care about Print.
type NoopPerformer struct{}

func (n *NoopPerformer) Print(c rune)   {}
func (n *NoopPerformer) Execute(b byte) {}
func (n *NoopPerformer) Put(b byte)     {}
func (n *NoopPerformer) Unhook()        {}

func (n *NoopPerformer) Hook(params *Params, intermediates []byte, ignore bool, action rune) {}
func (n *NoopPerformer) OscDispatch(params [][]byte, bellTerminated bool)                    {}
func (n *NoopPerformer) CsiDispatch(params *Params, intermediates []byte, ignore bool, action rune) {
}
func (n *NoopPerformer) EscDispatch(intermediates []byte, ignore bool, b byte) {}

var _ Performer = (*NoopPerformer)(nil)