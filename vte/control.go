package vte

// C0 defines the C0 control characters (0x00-0x1F) relevant to dispatch.
// Kept as a named table rather than bare literals so Performer
// implementations read like the escape-sequence table they match against.
var C0 = struct {
	NUL, BEL, BS, HT, LF, VT, FF, CR, ESC byte
}{
	NUL: 0x00,
	BEL: 0x07,
	BS:  0x08,
	HT:  0x09,
	LF:  0x0A,
	VT:  0x0B,
	FF:  0x0C,
	CR:  0x0D,
	ESC: 0x1B,
}
