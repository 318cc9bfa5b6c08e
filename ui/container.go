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
	"slices"

	"github.com/SMerrony/minitel"
)

// Container groups widgets and moves the focus between the activatable
// ones with down or SUITE (next) and up or RETOUR (previous).  Its own
// position is independent of its children's.
type Container struct {
	Base
	Background minitel.Color

	children []Widget
	focused  Widget
}

func NewContainer(d *minitel.Driver, col, row, width, height int, color, background minitel.Color) *Container {
	c := &Container{
		Base:       newBase(d, col, row, width, height, color),
		Background: background,
	}
	return c
}

// Activatable is true once the container holds an activatable child.
func (c *Container) Activatable() bool { return c.focused != nil }

// Add appends w.  A child without a colour takes the container's; the first
// activatable child gets the focus.
func (c *Container) Add(w Widget) {
	if slices.Contains(c.children, w) {
		panic("ui: widget added twice to a container")
	}
	if b := w.Bounds(); b.Color == minitel.NoColor {
		b.Color = c.Color
	}
	c.children = append(c.children, w)
	if c.focused == nil && w.Activatable() {
		c.focused = w
	}
}

func (c *Container) Children() []Widget { return c.children }

// Focused is the child receiving input, nil if none is activatable.
func (c *Container) Focused() Widget { return c.focused }

func (c *Container) HandleInput(seq minitel.Sequence) bool {
	if c.focused == nil {
		return false
	}
	if c.focused.HandleInput(seq) {
		return true
	}
	var moved bool
	switch {
	case seq.Equal(minitel.KeyDown) || seq.Equal(minitel.KeySuite):
		c.focused.FocusLost()
		moved = c.move(+1)
	case seq.Equal(minitel.KeyUp) || seq.Equal(minitel.KeyRetour):
		c.focused.FocusLost()
		moved = c.move(-1)
	default:
		return false
	}
	if !moved {
		c.d.Beep()
	}
	c.focused.FocusGained()
	return true
}

// move shifts the focus to the nearest activatable child in direction step.
func (c *Container) move(step int) bool {
	i := slices.Index(c.children, c.focused)
	for i += step; i >= 0 && i < len(c.children); i += step {
		if c.children[i].Activatable() {
			c.focused = c.children[i]
			return true
		}
	}
	return false
}

func (c *Container) Render() error {
	if c.Background != minitel.NoColor {
		for row := c.Row; row < c.Row+c.Height; row++ {
			c.d.Position(c.Col, row)
			c.d.Background(c.Background)
			repeat(c.d, ' ', c.Width)
		}
	}
	for _, w := range c.children {
		w.Render()
	}
	if c.focused != nil {
		c.focused.FocusGained()
	}
	return c.d.Err()
}
