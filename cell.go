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

package minitel

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a Minitel colour number.  Monochrome sets show them as grey levels.
type Color int

const (
	NoColor Color = -1
	Black   Color = 0
	Red     Color = 1
	Green   Color = 2
	Yellow  Color = 3
	Blue    Color = 4
	Magenta Color = 5
	Cyan    Color = 6
	White   Color = 7
)

var colorNames = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// French names, as used in existing videotex scripts.
var colorNamesFR = [...]string{"noir", "rouge", "vert", "jaune", "bleu", "magenta", "cyan", "blanc"}

// greyLevels orders the colours from darkest to brightest on a monochrome set.
var greyLevels = [8]Color{Black, Blue, Red, Magenta, Green, Cyan, Yellow, White}

// Grey returns the colour rendered as grey level 0 (black) to 7 (white).
func Grey(level int) Color {
	if level < 0 || level > 7 {
		panic(fmt.Sprintf("minitel: grey level %d out of range 0..7", level))
	}
	return greyLevels[level]
}

func (c Color) String() string {
	if c < Black || c > White {
		return "none"
	}
	return colorNames[c]
}

// ParseColor accepts an English or French colour name, or a grey level 0-7.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return NoColor, nil
	}
	for i := range colorNames {
		if s == colorNames[i] || s == colorNamesFR[i] {
			return Color(i), nil
		}
	}
	if level, err := strconv.Atoi(s); err == nil && level >= 0 && level <= 7 {
		return Grey(level), nil
	}
	return NoColor, fmt.Errorf("minitel: unknown colour %q", s)
}

func (c Color) valid() bool { return c >= Black && c <= White }

// Toggle is a three-way attribute change.
type Toggle int

const (
	Keep Toggle = iota
	On
	Off
)

// Effects selects the attribute changes applied to following characters.
type Effects struct {
	Underline, Blink, Reverse Toggle
}

func (e Effects) codes() []any {
	var out []any
	for _, a := range []struct {
		t       Toggle
		on, off byte
	}{
		{e.Underline, 0x5a, 0x59},
		{e.Blink, 0x48, 0x49},
		{e.Reverse, 0x5d, 0x5c},
	} {
		switch a.t {
		case On:
			out = append(out, ESC, a.on)
		case Off:
			out = append(out, ESC, a.off)
		}
	}
	return out
}
