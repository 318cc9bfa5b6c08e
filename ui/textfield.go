// Copyright ©2026  Steve Merrony

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package ui

import (
	"fmt"
	"strings"

	"github.com/SMerrony/minitel"
)

// characters a TextField accepts from the keyboard
const fieldChars = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	" *$!:;,?./&(-_)=+'@#" +
	"0123456789"

type accent int

const (
	noAccent accent = iota
	grave
	acute
	circumflex
	trema
	cedilla
)

var accentKeys = []struct {
	key []byte
	a   accent
}{
	{minitel.AccentGrave, grave},
	{minitel.AccentAcute, acute},
	{minitel.AccentCircumflex, circumflex},
	{minitel.AccentTrema, trema},
	{minitel.AccentCedilla, cedilla},
}

var accented = map[accent]map[rune]rune{
	grave:      {'a': 'à', 'e': 'è', 'i': 'ì', 'o': 'ò', 'u': 'ù'},
	acute:      {'a': 'á', 'e': 'é', 'i': 'í', 'o': 'ó', 'u': 'ú'},
	circumflex: {'a': 'â', 'e': 'ê', 'i': 'î', 'o': 'ô', 'u': 'û'},
	trema:      {'a': 'ä', 'e': 'ë', 'i': 'ï', 'o': 'ö', 'u': 'ü'},
	cedilla:    {'c': 'ç'},
}

// TextField is a one-line editable field.  When the value is longer than
// the visible width the field scrolls by half its width.
type TextField struct {
	Base
	Masked bool // show '*' in place of the value

	value   []rune
	cursor  int
	offset  int
	visible int
	total   int
	accent  accent
}

// NewTextField makes a field visible characters wide holding up to total
// characters; total 0 means the visible width.
func NewTextField(d *minitel.Driver, col, row, visible, total int, color minitel.Color) *TextField {
	if total == 0 {
		total = visible
	}
	if visible < 1 || total < visible {
		panic(fmt.Sprintf("ui: text field of %d visible and %d total characters", visible, total))
	}
	// the cursor may sit one column past the last character
	if col+visible > minitel.Columns {
		panic(fmt.Sprintf("ui: text field at column %d is too wide", col))
	}
	t := &TextField{
		Base:    newBase(d, col, row, visible, 1, color),
		visible: visible,
		total:   total,
	}
	t.activatable = true
	return t
}

func (t *TextField) Value() string { return string(t.value) }

// SetValue replaces the value, truncated to the field's length, and puts the
// cursor at the start.
func (t *TextField) SetValue(s string) {
	v := []rune(s)
	if len(v) > t.total {
		v = v[:t.total]
	}
	t.value = v
	t.cursor = 0
	t.offset = 0
}

func (t *TextField) Cursor() int { return t.cursor }
func (t *TextField) Offset() int { return t.offset }

func (t *TextField) HandleInput(seq minitel.Sequence) bool {
	switch {
	case seq.Equal(minitel.KeyLeft):
		t.accent = noAccent
		t.left()
		return true
	case seq.Equal(minitel.KeyRight):
		t.accent = noAccent
		t.right()
		return true
	case seq.Equal(minitel.KeyCorrection):
		t.accent = noAccent
		if t.left() {
			t.value = append(t.value[:t.cursor], t.value[t.cursor+1:]...)
			t.Render()
		}
		return true
	case seq.Equal(minitel.KeyAnnulation):
		t.accent = noAccent
		t.value = t.value[:0]
		t.cursor = 0
		t.offset = 0
		t.Render()
		return true
	}
	for _, k := range accentKeys {
		if seq.Equal(k.key) {
			t.accent = k.a
			return true
		}
	}
	if seq.Len() != 1 || !strings.ContainsRune(fieldChars, rune(seq.At(0))) {
		t.accent = noAccent
		return false
	}
	ch := rune(seq.At(0))
	if r, ok := accented[t.accent][ch]; ok {
		ch = r
	}
	t.accent = noAccent
	if len(t.value) >= t.total {
		t.d.Beep()
		return true
	}
	t.value = append(t.value[:t.cursor], append([]rune{ch}, t.value[t.cursor:]...)...)
	t.right()
	t.Render()
	return true
}

func (t *TextField) placeCursor() {
	t.d.Position(t.Col+t.cursor-t.offset, t.Row)
}

// scrollStep is half the window, at least one column.
func (t *TextField) scrollStep() int {
	return max(1, t.visible/2)
}

func (t *TextField) left() bool {
	if t.cursor == 0 {
		t.d.Beep()
		return false
	}
	t.cursor--
	if t.cursor < t.offset {
		t.offset = max(0, t.offset-t.scrollStep())
		t.Render()
	} else {
		t.placeCursor()
	}
	return true
}

func (t *TextField) right() bool {
	if t.cursor == min(len(t.value), t.total) {
		t.d.Beep()
		return false
	}
	t.cursor++
	if t.cursor > t.offset+t.visible {
		t.offset += t.scrollStep()
		t.Render()
	} else {
		t.placeCursor()
	}
	return true
}

func (t *TextField) FocusGained() {
	t.placeCursor()
	t.d.Cursor(true)
}

func (t *TextField) FocusLost() {
	t.accent = noAccent
	t.d.Cursor(false)
}

func (t *TextField) Render() error {
	t.d.Cursor(false)
	t.d.Position(t.Col, t.Row)
	t.applyColor()
	shown := t.value
	if t.Masked {
		shown = []rune(strings.Repeat("*", len(t.value)))
	}
	var text string
	if len(shown)-t.offset <= t.visible {
		text = string(shown[t.offset:]) + strings.Repeat(".", t.visible-(len(shown)-t.offset))
	} else {
		text = string(shown[t.offset : t.offset+t.visible])
	}
	t.d.Send(text)
	t.placeCursor()
	t.d.Cursor(true)
	return t.d.Err()
}
