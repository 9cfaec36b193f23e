package term

// Attr is a bitmask over the text attributes a cell can carry.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrInvisible
)

// Has reports whether attr is set in a.
func (a Attr) Has(attr Attr) bool { return a&attr != 0 }

// Set returns a with attr turned on.
func (a Attr) Set(attr Attr) Attr { return a | attr }

// Clear returns a with attr turned off.
func (a Attr) Clear(attr Attr) Attr { return a &^ attr }

// ColorKind distinguishes a base-palette color from the terminal's default.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorBase
)

// Color is one of the 8 base ANSI colors, or the "use the terminal
// default" sentinel. RGB and 256-palette colors are approximated down
// to this set at SGR-parse time (see color.go).
type Color struct {
	Kind ColorKind
	Base uint8 // 0-7, valid only when Kind == ColorBase
}

// DefaultColor is the "no explicit color" sentinel.
var DefaultColor = Color{Kind: ColorDefault}

// BaseColor constructs a Color for one of the 8 standard palette entries.
func BaseColor(n uint8) Color {
	return Color{Kind: ColorBase, Base: n % 8}
}

// IsDefault reports whether c is the default-color sentinel.
func (c Color) IsDefault() bool { return c.Kind == ColorDefault }

// Style bundles the three pieces of per-run rendition state.
type Style struct {
	Attr Attr
	Fg   Color
	Bg   Color
}

// DefaultStyle is the style of freshly-created, unstyled text.
var DefaultStyle = Style{Fg: DefaultColor, Bg: DefaultColor}

func (s Style) equal(o Style) bool {
	return s.Attr == o.Attr && s.Fg == o.Fg && s.Bg == o.Bg
}
