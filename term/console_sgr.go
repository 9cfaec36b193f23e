package term

// console_sgr.go implements Select Graphic Rendition (spec.md §4.3, §3),
// including the extended 38/48;5;n and 38/48;2;r;g;b color forms. Ground
// truth for the code table is the teacher's ansi.go Attr/Color constants
// and character.go's AddStyleFromAnsiParams, trimmed to the 8-color model
// spec.md calls for.

// sgrParam reads group i's value at sub-position j, treating a missing
// group/subparam as 0 (SGR's own default).
func sgrParam(groups [][]uint16, i, j int) int {
	if i >= len(groups) || j >= len(groups[i]) {
		return 0
	}
	return int(groups[i][j])
}

func (c *Console) sgr(groups [][]uint16) {
	if len(groups) == 0 {
		c.style = DefaultStyle
		return
	}
	for i := 0; i < len(groups); i++ {
		code := sgrParam(groups, i, 0)
		switch {
		case code == 0:
			c.style = DefaultStyle
		case code == 1:
			c.style.Attr = c.style.Attr.Set(AttrBold)
		case code == 2:
			c.style.Attr = c.style.Attr.Set(AttrDim)
		case code == 4:
			c.style.Attr = c.style.Attr.Set(AttrUnderline)
		case code == 5 || code == 6:
			c.style.Attr = c.style.Attr.Set(AttrBlink)
		case code == 7:
			c.style.Attr = c.style.Attr.Set(AttrReverse)
		case code == 8:
			c.style.Attr = c.style.Attr.Set(AttrInvisible)
		case code == 21:
			// This dialect clears bold|dim on 21 rather than ECMA-48's
			// "doubly underlined" — an intentional divergence from the
			// canonical standard, carried over from the source behavior.
			c.style.Attr = c.style.Attr.Clear(AttrBold).Clear(AttrDim)
		case code == 22:
			c.style.Attr = c.style.Attr.Clear(AttrBold).Clear(AttrDim)
		case code == 24:
			c.style.Attr = c.style.Attr.Clear(AttrUnderline)
		case code == 25:
			c.style.Attr = c.style.Attr.Clear(AttrBlink)
		case code == 27:
			c.style.Attr = c.style.Attr.Clear(AttrReverse)
		case code == 28:
			c.style.Attr = c.style.Attr.Clear(AttrInvisible)
		case code >= 30 && code <= 37:
			c.style.Fg = BaseColor(uint8(code - 30))
		case code == 38:
			col, consumed := c.extendedColor(groups, i)
			c.style.Fg = col
			i += consumed
		case code == 39:
			c.style.Fg = DefaultColor
		case code >= 40 && code <= 47:
			c.style.Bg = BaseColor(uint8(code - 40))
		case code == 48:
			col, consumed := c.extendedColor(groups, i)
			c.style.Bg = col
			i += consumed
		case code == 49:
			c.style.Bg = DefaultColor
		case code >= 90 && code <= 97:
			c.style.Fg = BaseColor(uint8(code - 90))
		case code >= 100 && code <= 107:
			c.style.Bg = BaseColor(uint8(code - 100))
		default:
			c.logf(SeverityWarn, "unhandled SGR code %d", code)
		}
	}
}

// extendedColor parses the 38/48 family starting at group i (which holds
// the 38 or 48 itself), handling both colon-subparam form (38:2:r:g:b in
// one group) and semicolon-separated form (38;2;r;g;b across groups). It
// returns the decoded color and how many extra groups it consumed when in
// semicolon form (0 when colon form already had everything).
func (c *Console) extendedColor(groups [][]uint16, i int) (Color, int) {
	g := groups[i]
	if len(g) >= 2 {
		switch g[1] {
		case 5:
			if len(g) >= 3 {
				return colorFromIndexed(uint8(g[2])), 0
			}
		case 2:
			if len(g) >= 5 {
				return colorFromRGB(uint8(g[2]), uint8(g[3]), uint8(g[4])), 0
			}
		}
	}

	kind := sgrParam(groups, i+1, 0)
	switch kind {
	case 5:
		n := sgrParam(groups, i+2, 0)
		return colorFromIndexed(uint8(n)), 2
	case 2:
		r := sgrParam(groups, i+2, 0)
		gr := sgrParam(groups, i+3, 0)
		b := sgrParam(groups, i+4, 0)
		return colorFromRGB(uint8(r), uint8(gr), uint8(b)), 4
	default:
		c.logf(SeverityWarn, "malformed extended SGR color at group %d", i)
		return DefaultColor, 0
	}
}
