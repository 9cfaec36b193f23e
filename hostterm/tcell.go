package hostterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/arthaud/gotmux/term"
)

// TcellTerminal is the Terminal implementation backed by
// github.com/gdamore/tcell/v2, the same library the rest of the example
// pack uses for its own screen rendering (texelation/texelui).
type TcellTerminal struct {
	screen  tcell.Screen
	resize  chan Size
	keys    chan KeyEvent
	attrMap [8]tcell.Color
}

// NewTcellTerminal initializes a tcell screen in raw mode and starts its
// event pump.
func NewTcellTerminal() (*TcellTerminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	t := &TcellTerminal{
		screen: screen,
		resize: make(chan Size, 4),
		keys:   make(chan KeyEvent, 64),
		attrMap: [8]tcell.Color{
			tcell.ColorBlack, tcell.ColorMaroon, tcell.ColorGreen, tcell.ColorOlive,
			tcell.ColorNavy, tcell.ColorPurple, tcell.ColorTeal, tcell.ColorSilver,
		},
	}
	go t.pump()
	return t, nil
}

// pump translates tcell's blocking event loop into the two channels
// Screen selects on, matching spec.md §5's cooperative, non-blocking
// polling model on the consumer side.
func (t *TcellTerminal) pump() {
	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventResize:
			w, h := e.Size()
			t.resize <- Size{Height: h, Width: w}
		case *tcell.EventKey:
			t.keys <- KeyEvent{Bytes: encodeKey(e)}
		case nil:
			return
		}
	}
}

func (t *TcellTerminal) Size() (height, width int) {
	w, h := t.screen.Size()
	return h, w
}

func (t *TcellTerminal) PollResize() <-chan Size { return t.resize }

func (t *TcellTerminal) PollKey() <-chan KeyEvent { return t.keys }

// Draw paints lines starting at the top of the screen, clearing trailing
// cells on each row and positioning the hardware cursor to match
// Console's cursor (spec.md §4.9: the Screen Manager is the only thing
// that touches the real cursor).
func (t *TcellTerminal) Draw(lines []term.FormattedString, cursorY, cursorX int, cursorVisible bool) {
	_, width := t.Size()
	for y, fs := range lines {
		x := 0
		for _, run := range fs.Runs() {
			style := t.styleFor(run.Style)
			for _, r := range run.Text {
				if x >= width {
					break
				}
				t.screen.SetContent(x, y, r, nil, style)
				x++
			}
		}
		for ; x < width; x++ {
			t.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	if cursorVisible {
		t.screen.ShowCursor(cursorX, cursorY)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

// styleFor translates a Console-side Style into the tcell style that
// draws it, mapping the 8-entry base palette through attrMap (tcell's
// own color-pair allocation equivalent, spec.md §6) and leaving default
// colors untouched so the user's own terminal palette shows through.
func (t *TcellTerminal) styleFor(s term.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Fg.IsDefault() {
		style = style.Foreground(t.attrMap[s.Fg.Base])
	}
	if !s.Bg.IsDefault() {
		style = style.Background(t.attrMap[s.Bg.Base])
	}
	if s.Attr.Has(term.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attr.Has(term.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attr.Has(term.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attr.Has(term.AttrBlink) {
		style = style.Blink(true)
	}
	if s.Attr.Has(term.AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Attr.Has(term.AttrInvisible) {
		_, bg, _ := style.Decompose()
		style = style.Foreground(bg)
	}
	return style
}

func (t *TcellTerminal) Beep() { t.screen.Beep() }

func (t *TcellTerminal) Close() error {
	t.screen.Fini()
	return nil
}

// encodeKey renders a tcell key event back into the raw byte sequence a
// child shell would expect to read from its tty, so Screen can forward it
// untouched (spec.md §6).
func encodeKey(e *tcell.EventKey) []byte {
	if e.Key() == tcell.KeyRune {
		return []byte(string(e.Rune()))
	}
	switch e.Key() {
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyEscape:
		return []byte{0x1b}
	case tcell.KeyCtrlC:
		return []byte{0x03}
	case tcell.KeyCtrlD:
		return []byte{0x04}
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	default:
		if e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ {
			return []byte{byte(e.Key())}
		}
		return nil
	}
}
