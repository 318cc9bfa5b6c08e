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

// Package ui provides simple text-mode widgets drawn on a Minitel: labels,
// text fields, menus and containers that move the focus between them.
package ui

import (
	"fmt"

	"github.com/SMerrony/minitel"
)

// Widget is implemented by *Label, *TextField, *Menu and *Container.
type Widget interface {
	// Render draws the widget and returns the driver's first I/O error.
	Render() error
	// HandleInput reports whether the widget consumed seq.
	HandleInput(seq minitel.Sequence) bool
	FocusGained()
	FocusLost()
	Activatable() bool
	// Bounds gives access to the widget's area and colour.
	Bounds() *Base
}

var (
	_ Widget = (*Label)(nil)
	_ Widget = (*TextField)(nil)
	_ Widget = (*Menu)(nil)
	_ Widget = (*Container)(nil)
)

// Base holds what every widget has: its screen area and colour.
type Base struct {
	Col, Row      int
	Width, Height int
	Color         minitel.Color

	d           *minitel.Driver
	activatable bool
}

func newBase(d *minitel.Driver, col, row, width, height int, color minitel.Color) Base {
	switch {
	case d == nil:
		panic("ui: nil driver")
	case row < 1 || row > minitel.Rows || col < 1 || col > minitel.Columns:
		panic(fmt.Sprintf("ui: widget at (%d,%d) is off screen", col, row))
	case width < 1 || col+width-1 > minitel.Columns:
		panic(fmt.Sprintf("ui: widget width %d at column %d does not fit", width, col))
	case height < 1 || row+height-1 > minitel.Rows:
		panic(fmt.Sprintf("ui: widget height %d at row %d does not fit", height, row))
	}
	return Base{Col: col, Row: row, Width: width, Height: height, Color: color, d: d}
}

func (b *Base) Bounds() *Base           { return b }
func (b *Base) Activatable() bool       { return b.activatable }
func (b *Base) FocusGained()            {}
func (b *Base) FocusLost()              {}
func (b *Base) Driver() *minitel.Driver { return b.d }

// HandleInput consumes nothing.
func (b *Base) HandleInput(minitel.Sequence) bool { return false }

// Erase blanks the widget's area.
func (b *Base) Erase() error {
	for row := b.Row; row < b.Row+b.Height; row++ {
		b.d.Position(b.Col, row)
		repeat(b.d, ' ', b.Width)
	}
	return b.d.Err()
}

func (b *Base) applyColor() {
	if b.Color != minitel.NoColor {
		b.d.Foreground(b.Color)
	}
}

// repeat is Driver.Repeat without its limit of 40.
func repeat(d *minitel.Driver, ch any, n int) {
	for n > 0 {
		chunk := min(n, 40)
		d.Repeat(ch, chunk)
		n -= chunk
	}
}

// Run feeds input from the terminal to w until w declines a sequence or the
// line fails.
func Run(w Widget) error {
	d := w.Bounds().Driver()
	for {
		seq := d.ReceiveSequence(true, 0)
		if seq.Len() == 0 {
			return d.Err()
		}
		if !w.HandleInput(seq) {
			return nil
		}
	}
}
