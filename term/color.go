package term

import "math"

// rgb is an intermediate RGB value used only to approximate 24-bit and
// 256-palette SGR colors down to the 8-entry base palette. Ground truth
// for the arithmetic and the 256-color cube/grayscale decode is the
// teacher's ansi.go (Rgb, indexedColorToRgb) — trimmed here to just the
// pieces spec.md §3 actually calls for.
type rgb struct{ r, g, b float64 }

func (c rgb) distance(o rgb) float64 {
	dr, dg, db := c.r-o.r, c.g-o.g, c.b-o.b
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// basePalette gives the canonical RGB triple for each of the 8 standard
// ANSI colors, used as the target set for nearest-color approximation
// (SGR 30-37/40-47 map straight to BaseColor without consulting it).
var basePalette = [8]rgb{
	{0, 0, 0},       // black
	{205, 0, 0},     // red
	{0, 205, 0},     // green
	{205, 205, 0},   // yellow
	{0, 0, 238},     // blue
	{205, 0, 205},   // magenta
	{0, 205, 205},   // cyan
	{229, 229, 229}, // white
}

// approximate maps an arbitrary RGB value to the nearest base color by
// Euclidean distance, per spec.md §3.
func approximate(c rgb) Color {
	best, bestDist := 0, math.Inf(1)
	for i, p := range basePalette {
		if d := c.distance(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return BaseColor(uint8(best))
}

// colorFromRGB approximates an SGR 38/48;2;r;g;b color.
func colorFromRGB(r, g, b uint8) Color {
	return approximate(rgb{float64(r), float64(g), float64(b)})
}

// sixCube holds the 6-step intensity ramp xterm's 256-color cube uses.
var sixCube = [6]float64{0, 95, 135, 175, 215, 255}

// colorFromIndexed decodes an SGR 38/48;5;n 256-color palette index and
// approximates it down to a base color, per spec.md §3: 0-15 map to the
// standard/bright 16 colors (each bright variant is its base triple
// lightened by 85 per channel, which approximates back to that same base
// color), 16-231 are the 6x6x6 color cube, and 232-255 are a grayscale
// ramp.
func colorFromIndexed(n uint8) Color {
	switch {
	case n < 8:
		return BaseColor(n)
	case n < 16:
		// Bright variants: lighten the base triple by 85 per channel
		// (capped at 255) before approximating.
		base := basePalette[n-8]
		bright := rgb{
			r: math.Min(base.r+85, 255),
			g: math.Min(base.g+85, 255),
			b: math.Min(base.b+85, 255),
		}
		return approximate(bright)
	case n < 232:
		idx := n - 16
		r := sixCube[idx/36]
		g := sixCube[(idx%36)/6]
		b := sixCube[idx%6]
		return approximate(rgb{r, g, b})
	default:
		gray := 8.0 + float64(n-232)*10.0
		return approximate(rgb{gray, gray, gray})
	}
}
