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
	"unicode/utf8"

	"github.com/SMerrony/minitel"
)

// Separator is the option text drawn as a rule between menu entries.
const Separator = "-"

// grid drawing characters
const (
	gridTop    = 0x5f
	gridBottom = 0x7e
	gridLeft   = 0x7d
	gridRight  = 0x7b
	gridRule   = 0x60
)

// Menu is a vertical list of options moved through with the up and down
// keys.
type Menu struct {
	Base
	Options []string
	Grid    bool

	selection int
	lineWidth int
}

func NewMenu(d *minitel.Driver, options []string, col, row, selection int, color minitel.Color, grid bool) *Menu {
	if selection < 0 || selection >= len(options) {
		panic(fmt.Sprintf("ui: menu selection %d out of range", selection))
	}
	if options[selection] == Separator {
		panic(fmt.Sprintf("ui: menu selection %d is a separator", selection))
	}
	lineWidth := 0
	for _, o := range options {
		lineWidth = max(lineWidth, utf8.RuneCountInString(o))
	}
	m := &Menu{
		Base:      newBase(d, col, row, lineWidth+2, len(options)+2, color),
		Options:   options,
		Grid:      grid,
		selection: selection,
		lineWidth: lineWidth,
	}
	m.activatable = true
	return m
}

// Selection is the index of the highlighted option.
func (m *Menu) Selection() int { return m.selection }

func (m *Menu) Selected() string { return m.Options[m.selection] }

func (m *Menu) HandleInput(seq minitel.Sequence) bool {
	var next int
	switch {
	case seq.Equal(minitel.KeyUp):
		next = m.previous(m.selection)
	case seq.Equal(minitel.KeyDown):
		next = m.next(m.selection)
	default:
		return false
	}
	if next < 0 {
		m.d.Beep()
	} else {
		m.selectOption(next)
	}
	return true
}

func (m *Menu) Render() error {
	if m.Grid {
		m.d.Position(m.Col+1, m.Row)
		m.applyColor()
		repeat(m.d, gridTop, m.lineWidth)
	}
	for i := range m.Options {
		m.applyColor()
		m.renderLine(i, i == m.selection)
	}
	if m.Grid {
		m.d.Position(m.Col+1, m.Row+len(m.Options)+1)
		m.applyColor()
		repeat(m.d, gridBottom, m.lineWidth)
	}
	return m.d.Err()
}

func (m *Menu) renderLine(i int, selected bool) {
	m.d.Position(m.Col, m.Row+i+1)
	m.applyColor()
	if m.Grid {
		m.d.Send(gridLeft)
	}
	if m.Options[i] == Separator {
		if m.Grid {
			repeat(m.d, gridRule, m.lineWidth)
		}
	} else {
		if selected {
			m.d.Effects(minitel.Effects{Reverse: minitel.On})
		}
		option := m.Options[i]
		m.d.Send(option + strings.Repeat(" ", m.lineWidth-utf8.RuneCountInString(option)))
	}
	if selected {
		m.d.Effects(minitel.Effects{Reverse: minitel.Off})
	}
	if m.Grid {
		m.d.Send(gridRight)
	}
}

// selectOption redraws only the two lines that change.
func (m *Menu) selectOption(i int) {
	if i == m.selection {
		return
	}
	m.renderLine(m.selection, false)
	m.renderLine(i, true)
	m.selection = i
}

func (m *Menu) next(from int) int {
	for i := from + 1; i < len(m.Options); i++ {
		if m.Options[i] != Separator {
			return i
		}
	}
	return -1
}

func (m *Menu) previous(from int) int {
	for i := from - 1; i >= 0; i-- {
		if m.Options[i] != Separator {
			return i
		}
	}
	return -1
}
