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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SMerrony/minitel"
)

func TestContainerFocus(t *testing.T) {
	d, line := newTestDriver(t)
	c := NewContainer(d, 1, 1, 40, 10, minitel.Cyan, minitel.NoColor)
	assert.False(t, c.Activatable())

	title := NewLabel(d, 2, 2, "Connexion", minitel.NoColor)
	user := NewTextField(d, 2, 4, 10, 0, minitel.White)
	pass := NewTextField(d, 2, 6, 10, 0, minitel.NoColor)
	c.Add(title)
	assert.False(t, c.Activatable())
	c.Add(user)
	c.Add(pass)
	assert.True(t, c.Activatable())
	assert.Len(t, c.Children(), 3)
	assert.Equal(t, Widget(user), c.Focused())

	// children without a colour take the container's
	assert.Equal(t, minitel.Cyan, title.Color)
	assert.Equal(t, minitel.White, user.Color)
	assert.Equal(t, minitel.Cyan, pass.Color)

	assert.Panics(t, func() { c.Add(user) })

	// typed text goes to the focused field
	assert.True(t, c.HandleInput(seq('a')))
	assert.Equal(t, "a", user.Value())

	assert.True(t, c.HandleInput(seq(minitel.KeySuite)))
	assert.Equal(t, Widget(pass), c.Focused())

	line.Reset()
	assert.True(t, c.HandleInput(seq(minitel.KeyDown)))
	assert.Equal(t, Widget(pass), c.Focused())
	assert.Contains(t, string(line.Written().Bytes()), string(minitel.BEL))

	assert.True(t, c.HandleInput(seq(minitel.KeyRetour)))
	assert.Equal(t, Widget(user), c.Focused())

	line.Reset()
	assert.True(t, c.HandleInput(seq(minitel.KeyUp)))
	assert.Equal(t, Widget(user), c.Focused())
	assert.Contains(t, string(line.Written().Bytes()), string(minitel.BEL))

	assert.False(t, c.HandleInput(seq(minitel.KeyEnvoi)))
}

func TestEmptyContainerDeclinesInput(t *testing.T) {
	d, _ := newTestDriver(t)
	c := NewContainer(d, 1, 1, 10, 2, minitel.NoColor, minitel.NoColor)
	assert.False(t, c.HandleInput(seq(minitel.KeyDown)))
	assert.NoError(t, c.Render())
}

func TestContainerRendersBackground(t *testing.T) {
	d, line := newTestDriver(t)
	c := NewContainer(d, 3, 2, 5, 2, minitel.NoColor, minitel.Blue)
	assert.NoError(t, c.Render())
	want := seq(
		minitel.US, 0x42, 0x43, minitel.ESC, 0x54, ' ', minitel.REP, 0x44,
		minitel.US, 0x43, 0x43, minitel.ESC, 0x54, ' ', minitel.REP, 0x44,
	)
	assert.Equal(t, want.Bytes(), line.Written().Bytes())
}
