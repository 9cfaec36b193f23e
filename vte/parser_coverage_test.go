package vte

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEscapeIntermediateState(t *testing.T) {
	t.Run("collects intermediates, executes controls, dispatches on final byte", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x1B})
		assert.Equal(t, StateEscape, parser.State())

		parser.Advance(performer, []byte{0x20}) // space: first intermediate
		assert.Equal(t, StateEscapeIntermediate, parser.State())

		parser.Advance(performer, []byte{0x0A}) // LF still executes mid-sequence
		assert.Equal(t, StateEscapeIntermediate, parser.State())
		assert.Contains(t, performer.executed, byte(0x0A))

		parser.Advance(performer, []byte{0x21}) // second intermediate
		assert.Equal(t, StateEscapeIntermediate, parser.State())

		parser.Advance(performer, []byte{0x41}) // final byte
		assert.Equal(t, StateGround, parser.State())
		assert.Len(t, performer.escDispatched, 1)
	})

	t.Run("DEL is ignored mid-intermediate", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b "))
		parser.Advance(performer, []byte{0x7F})
		assert.Equal(t, StateEscapeIntermediate, parser.State())
	})
}

func TestCSIIgnoreState(t *testing.T) {
	t.Run("a private marker after params drops into ignore", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b[1"))
		assert.Equal(t, StateCSIParam, parser.State())

		parser.Advance(performer, []byte{0x3F}) // '?' mid-param is malformed
		assert.Equal(t, StateCSIIgnore, parser.State())

		parser.Advance(performer, []byte{0x0A})
		assert.Contains(t, performer.executed, byte(0x0A))

		parser.Advance(performer, []byte("123")) // discarded while ignoring
		assert.Equal(t, StateCSIIgnore, parser.State())

		parser.Advance(performer, []byte{0x40}) // final byte still exits to Ground
		assert.Equal(t, StateGround, parser.State())
	})

	t.Run("a repeated private marker right after the introducer also triggers ignore", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b["))
		parser.Advance(performer, []byte{0x3C}) // '<' collected as the first intermediate
		assert.Equal(t, StateCSIParam, parser.State())

		parser.Advance(performer, []byte{0x3C}) // a second one is malformed
		assert.Equal(t, StateCSIIgnore, parser.State())

		parser.Advance(performer, []byte{0x7F})
		assert.Equal(t, StateCSIIgnore, parser.State())
	})
}

func TestDCSIgnoreState(t *testing.T) {
	t.Run("an invalid byte in DCS intermediate drops into ignore, CAN exits", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP ")) // space intermediate
		assert.Equal(t, StateDCSIntermediate, parser.State())

		parser.Advance(performer, []byte{0x3F})
		assert.Equal(t, StateDCSIgnore, parser.State())

		parser.Advance(performer, []byte{0x1B}) // might be the start of ST, stays in ignore
		assert.Equal(t, StateDCSIgnore, parser.State())

		parser.Advance(performer, []byte{0x18}) // CAN
		assert.Equal(t, StateGround, parser.State())
	})

	t.Run("SUB also exits DCS ignore", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP"))
		parser.Advance(performer, []byte{0x3C}) // intermediate in DCS entry
		assert.Equal(t, StateDCSParam, parser.State())

		parser.Advance(performer, []byte{0x3C}) // second one is malformed
		assert.Equal(t, StateDCSIgnore, parser.State())

		parser.Advance(performer, []byte{0x1A}) // SUB
		assert.Equal(t, StateGround, parser.State())
	})
}

func TestSOSPMApcStringState(t *testing.T) {
	t.Run("content between the introducer and ST is discarded entirely", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x1B, 0x58}) // ESC X: SOS
		assert.Equal(t, StateSOSPMApcString, parser.State())

		parser.Advance(performer, []byte("ignored text"))
		assert.Equal(t, StateSOSPMApcString, parser.State())

		parser.Advance(performer, []byte{0x1B}) // might be ST
		assert.Equal(t, StateSOSPMApcString, parser.State())

		parser.Advance(performer, []byte{'\\'}) // completes ST
		assert.Equal(t, StateGround, parser.State())
	})

	t.Run("PM and APC share the same introducer handling as SOS", func(t *testing.T) {
		for _, b := range []byte{0x5E, 0x5F} { // '^' (PM), '_' (APC)
			parser := NewParser()
			performer := &MockPerformer{}

			parser.Advance(performer, []byte{0x1B, b})
			assert.Equal(t, StateSOSPMApcString, parser.State())
		}
	})
}

func TestDCSEntryVariants(t *testing.T) {
	t.Run("intermediate then final byte reaches passthrough via Hook", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP"))
		assert.Equal(t, StateDCSEntry, parser.State())

		parser.Advance(performer, []byte{0x20})
		assert.Equal(t, StateDCSIntermediate, parser.State())

		parser.Advance(performer, []byte{0x70}) // 'p'
		assert.Equal(t, StateDCSPassthrough, parser.State())
		assert.True(t, performer.hookCalled)
	})

	t.Run("a colon-delimited subparameter group also reaches passthrough", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP"))
		parser.Advance(performer, []byte(":"))
		assert.Equal(t, StateDCSParam, parser.State())

		parser.Advance(performer, []byte("5"))
		parser.Advance(performer, []byte{0x71}) // 'q'
		assert.Equal(t, StateDCSPassthrough, parser.State())
	})

	t.Run("an ESC mid-passthrough that turns out not to be ST is replayed through Put", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP0q"))
		assert.Equal(t, StateDCSPassthrough, parser.State())

		parser.Advance(performer, []byte{0x1B})
		parser.Advance(performer, []byte{0x41}) // 'A', not '\\', so ESC wasn't ST
		assert.Contains(t, performer.putBytes, byte(0x1B))
		assert.Contains(t, performer.putBytes, byte(0x41))
	})

	t.Run("a second intermediate-range byte in DCS intermediate is malformed", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP "))
		assert.Equal(t, StateDCSIntermediate, parser.State())

		parser.Advance(performer, []byte{0x21})
		assert.Equal(t, StateDCSIntermediate, parser.State())

		parser.Advance(performer, []byte{0x3F})
		assert.Equal(t, StateDCSIgnore, parser.State())
	})
}

func TestCSIIntermediateState(t *testing.T) {
	parser := NewParser()
	performer := &MockPerformer{}

	parser.Advance(performer, []byte("\x1b["))
	parser.Advance(performer, []byte{0x20})
	assert.Equal(t, StateCSIIntermediate, parser.State())

	parser.Advance(performer, []byte{0x21})
	assert.Equal(t, StateCSIIntermediate, parser.State())

	parser.Advance(performer, []byte{0x3F}) // malformed once an intermediate is already collected
	assert.Equal(t, StateCSIIgnore, parser.State())
}

func TestGroundC1Introducers(t *testing.T) {
	t.Run("8-bit DCS", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x90})
		assert.Equal(t, StateDCSEntry, parser.State())
	})

	t.Run("8-bit CSI", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x9B})
		assert.Equal(t, StateCSIEntry, parser.State())
	})

	t.Run("8-bit OSC", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x9D})
		assert.Equal(t, StateOSCString, parser.State())
	})

	t.Run("an unrecognized high byte (e.g. NEL) prints a replacement character", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x85})
		assert.Equal(t, StateGround, parser.State())
		assert.Contains(t, performer.printed, utf8.RuneError)
	})
}

func TestOverflowLimits(t *testing.T) {
	t.Run("intermediates beyond MaxIntermediates set ignore on the eventual dispatch", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x1B})
		for i := 0; i < MaxIntermediates+2; i++ {
			parser.Advance(performer, []byte{byte(0x20 + i)})
		}
		parser.Advance(performer, []byte{0x41})
		assert.True(t, performer.escDispatched[0].ignore)
	})

	t.Run("an OSC payload beyond MaxOSCRaw is truncated, not grown without bound", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b]"))
		longData := make([]byte, MaxOSCRaw+100)
		for i := range longData {
			longData[i] = 'A'
		}
		parser.Advance(performer, longData)
		parser.Advance(performer, []byte{0x07})

		assert.LessOrEqual(t, len(performer.oscDispatched[0].params[0]), MaxOSCRaw)
	})
}

func TestMiscEdgeCases(t *testing.T) {
	t.Run("an empty Advance call is a no-op", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{})
		assert.Equal(t, StateGround, parser.State())
	})

	t.Run("DEL is swallowed in every state that can see it", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte{0x7F})
		assert.Equal(t, StateGround, parser.State())
		assert.Empty(t, performer.executed)

		parser.Advance(performer, []byte{0x1B, 0x7F})
		assert.Equal(t, StateEscape, parser.State())

		parser.Advance(performer, []byte{'[', '1', 0x7F})
		assert.Equal(t, StateCSIParam, parser.State())
	})

	t.Run("control and high bytes inside an OSC payload are still collected", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b]"))
		parser.Advance(performer, []byte{0x01, 0x02, 0x03})
		assert.Equal(t, StateOSCString, parser.State())

		parser.Advance(performer, []byte{0x80, 0x81})
		assert.Equal(t, StateOSCString, parser.State())

		parser.Advance(performer, []byte{0x07})
		assert.Equal(t, StateGround, parser.State())
	})

	t.Run("OSC terminated by ST instead of BEL", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b]0;Title"))
		parser.Advance(performer, []byte{0x1B})
		parser.Advance(performer, []byte{'\\'})
		assert.Equal(t, StateGround, parser.State())
		assert.Len(t, performer.oscDispatched, 1)
		assert.False(t, performer.oscDispatched[0].bellTerminated)
	})

	t.Run("back-to-back separators with no digits between them yield zero params", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b[;;H"))
		assert.Len(t, performer.csiDispatched, 1)

		iter := performer.csiDispatched[0].params.Iter()
		assert.Equal(t, []uint16{0}, iter[0])
		if len(iter) > 1 {
			assert.Equal(t, []uint16{0}, iter[1])
		}
	})

	t.Run("a charset-designation escape reaches EscDispatch with its intermediate", func(t *testing.T) {
		// ESC ) 0 and friends (spec.md §4.3) collect ')' as an intermediate like
		// any other ESC sequence; Console.EscDispatch is what actually discards
		// them (term/console_dispatch.go), but the tokenizer has to get them to
		// that call correctly in the first place.
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1b)0"))

		assert.Equal(t, StateGround, parser.State())
		assert.Len(t, performer.escDispatched, 1)
		assert.Equal(t, byte(')'), performer.escDispatched[0].intermediates[0])
		assert.Equal(t, byte('0'), performer.escDispatched[0].b)
	})
}

func TestDCSPassthroughAbort(t *testing.T) {
	t.Run("CAN unhooks and still executes", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP0q"))
		assert.Equal(t, StateDCSPassthrough, parser.State())

		parser.Advance(performer, []byte{0x18})
		assert.Equal(t, StateGround, parser.State())
		assert.True(t, performer.unhookCalled)
		assert.Contains(t, performer.executed, byte(0x18))
	})

	t.Run("SUB does the same", func(t *testing.T) {
		parser := NewParser()
		performer := &MockPerformer{}

		parser.Advance(performer, []byte("\x1bP0q"))
		parser.Advance(performer, []byte{0x1A})
		assert.Equal(t, StateGround, parser.State())
		assert.Contains(t, performer.executed, byte(0x1A))
	})
}
