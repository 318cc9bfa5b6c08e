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

// Screen geometry.  Row 0 is the status line.
const (
	Columns = 80
	Rows    = 24
)

// usMaxColumn is the last column US can address with 7-bit codes.
const usMaxColumn = 0x7f - 0x40

// Position moves the cursor to an absolute column and row, both from 1.
// Columns past usMaxColumn are reached with CSI row;col H, which cannot
// address the status line.
func (d *Driver) Position(col, row int) error {
	if col < 1 || col > Columns || row < 0 || row > Rows {
		panic(fmt.Sprintf("minitel: position (%d,%d) outside the screen", col, row))
	}
	switch {
	case col == 1 && row == 1:
		return d.Send(RS)
	case col <= usMaxColumn:
		return d.Send(US, 0x40+row, 0x40+col)
	case row == 0:
		panic(fmt.Sprintf("minitel: status line column %d is beyond %d", col, usMaxColumn))
	}
	return d.Send(CSI, strconv.Itoa(row), ';', strconv.Itoa(col), 'H')
}

// Move shifts the cursor relative to where it is, rows first.
func (d *Driver) Move(dcol, drow int) error {
	var codes []any
	codes = append(codes, moveCodes(drow, VT, LF, 'A', 'B')...)
	codes = append(codes, moveCodes(dcol, BS, TAB, 'D', 'C')...)
	if len(codes) == 0 {
		return nil
	}
	return d.Send(codes)
}

// moveCodes repeats a single-step code for short moves and uses a CSI
// sequence otherwise.
func moveCodes(n int, back, forward byte, csiBack, csiForward rune) []any {
	step, letter := forward, csiForward
	if n < 0 {
		n, step, letter = -n, back, csiBack
	}
	switch {
	case n == 0:
		return nil
	case n <= 4:
		codes := make([]any, n)
		for i := range codes {
			codes[i] = step
		}
		return codes
	}
	return []any{CSI, strconv.Itoa(n), letter}
}

// Colors sets the character and background colours; NoColor leaves a side
// unchanged.
func (d *Driver) Colors(fg, bg Color) error {
	var codes []any
	if fg != NoColor {
		if !fg.valid() {
			panic(fmt.Sprintf("minitel: invalid colour %d", fg))
		}
		codes = append(codes, ESC, 0x40+int(fg))
	}
	if bg != NoColor {
		if !bg.valid() {
			panic(fmt.Sprintf("minitel: invalid colour %d", bg))
		}
		codes = append(codes, ESC, 0x50+int(bg))
	}
	if len(codes) == 0 {
		return nil
	}
	return d.Send(codes)
}

func (d *Driver) Foreground(c Color) error { return d.Colors(c, NoColor) }
func (d *Driver) Background(c Color) error { return d.Colors(NoColor, c) }

// Size sets double width and/or height; each factor is 1 or 2.
func (d *Driver) Size(width, height int) error {
	if width < 1 || width > 2 || height < 1 || height > 2 {
		panic(fmt.Sprintf("minitel: size %dx%d must be 1 or 2 each way", width, height))
	}
	return d.Send(ESC, 0x4c+(height-1)+(width-1)*2)
}

// Effects applies e; Keep attributes are not sent.
func (d *Driver) Effects(e Effects) error {
	codes := e.codes()
	if len(codes) == 0 {
		return nil
	}
	return d.Send(codes)
}

func (d *Driver) Cursor(visible bool) error {
	if visible {
		return d.Send(CON)
	}
	return d.Send(COF)
}

// ClearScope is what Clear erases.
type ClearScope int

const (
	ClearAll ClearScope = iota
	ClearEndOfLine
	ClearEndOfScreen
	ClearStartOfScreen
	ClearStartOfLine
	ClearLine
	ClearStatus
	ClearEverything // screen and status line
)

var clearCodes = map[ClearScope][]any{
	ClearAll:           {FF},
	ClearEndOfLine:     {CAN},
	ClearEndOfScreen:   {CSI, 0x4a},
	ClearStartOfScreen: {CSI, 0x31, 0x4a},
	ClearStartOfLine:   {CSI, 0x31, 0x4b},
	ClearLine:          {CSI, 0x32, 0x4b},
	ClearStatus:        {US, 0x40, 0x41, CAN, LF},
	ClearEverything:    {FF, US, 0x40, 0x41, CAN, LF},
}

var clearScopeNames = map[string]ClearScope{
	"all":             ClearAll,
	"end-of-line":     ClearEndOfLine,
	"end-of-screen":   ClearEndOfScreen,
	"start-of-screen": ClearStartOfScreen,
	"start-of-line":   ClearStartOfLine,
	"line":            ClearLine,
	"status":          ClearStatus,
	"everything":      ClearEverything,
}

// ParseClearScope accepts the names used by scripts, such as "end-of-line".
func ParseClearScope(name string) (ClearScope, error) {
	if s, ok := clearScopeNames[strings.ToLower(name)]; ok {
		return s, nil
	}
	return ClearAll, fmt.Errorf("minitel: unknown clear scope %q", name)
}

func (d *Driver) Clear(scope ClearScope) error {
	codes, ok := clearCodes[scope]
	if !ok {
		panic(fmt.Sprintf("minitel: unknown clear scope %d", scope))
	}
	return d.Send(codes)
}

// Repeat sends ch count times (1 to 40) using the terminal's REP code.
// ch must be a single character or code.
func (d *Driver) Repeat(ch any, count int) error {
	if count < 1 || count > 40 {
		panic(fmt.Sprintf("minitel: repeat count %d out of range 1..40", count))
	}
	return d.Send(ch, REP, 0x40+count-1)
}

func (d *Driver) Beep() error      { return d.Send(BEL) }
func (d *Driver) LineStart() error { return d.Send(CR) }

func checkCount(n int) {
	if n < 0 {
		panic(fmt.Sprintf("minitel: negative count %d", n))
	}
}

func (d *Driver) DeleteColumns(n int) error {
	checkCount(n)
	return d.Send(CSI, strconv.Itoa(n), 'P')
}

func (d *Driver) DeleteRows(n int) error {
	checkCount(n)
	return d.Send(CSI, strconv.Itoa(n), 'M')
}

// InsertColumns opens n blank columns at the cursor using insert mode.
func (d *Driver) InsertColumns(n int) error {
	checkCount(n)
	return d.Send(CSI, "4h", strings.Repeat(" ", n), CSI, "4l")
}

func (d *Driver) InsertRows(n int) error {
	checkCount(n)
	return d.Send(CSI, strconv.Itoa(n), 'L')
}

// Semigraphic selects the mosaic (G1) set, or returns to text (G0).
func (d *Driver) Semigraphic(on bool) error {
	if on {
		return d.Send(SO)
	}
	return d.Send(SI)
}

// CharSet is the set of characters a redefinition replaces.
type CharSet int

const (
	G0 CharSet = iota
	G1
)

// ParseCharSet accepts "G0" or "G1".
func ParseCharSet(name string) (CharSet, error) {
	switch strings.ToUpper(name) {
	case "G0":
		return G0, nil
	case "G1":
		return G1, nil
	}
	return G0, fmt.Errorf("minitel: unknown character set %q", name)
}

const glyphPixels = GlyphWidth * GlyphHeight

// RedefineCharacters uploads glyph drawings starting at character from.
// bitmap holds 80 pixels ('0' or '1', row by row) per character; any
// other character is ignored so drawings may be laid out freely.
func (d *Driver) RedefineCharacters(from byte, bitmap string, set CharSet) error {
	return d.Send(redefineCodes(from, bitmap, set))
}

// RedefineGlyphs uploads glyphs starting at character from.
func (d *Driver) RedefineGlyphs(from byte, glyphs []Glyph, set CharSet) error {
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Bitmap())
	}
	return d.RedefineCharacters(from, sb.String(), set)
}

func redefineCodes(from byte, bitmap string, set CharSet) []any {
	pixels := make([]byte, 0, len(bitmap))
	for i := 0; i < len(bitmap); i++ {
		if bitmap[i] == '0' || bitmap[i] == '1' {
			pixels = append(pixels, bitmap[i]-'0')
		}
	}
	if len(pixels)%glyphPixels != 0 {
		panic(fmt.Sprintf("minitel: %d pixels is not a whole number of characters", len(pixels)))
	}

	codes := []any{US, 0x23, 0x20, 0x20, 0x20, 0x42, 0x49}
	if set == G1 {
		codes = []any{US, 0x23, 0x20, 0x20, 0x20, 0x43, 0x49}
	}
	codes = append(codes, US, 0x23, from, 0x30)
	for start := 0; start < len(pixels); start += glyphPixels {
		char := pixels[start : start+glyphPixels]
		// 80 pixels go out as 13 groups of 6 bits and a last group
		// holding 2 bits padded with zeros
		for g := 0; g < glyphPixels; g += 6 {
			var group byte
			for b := 0; b < 6; b++ {
				group <<= 1
				if g+b < glyphPixels {
					group |= char[g+b]
				}
			}
			codes = append(codes, 0x40+group)
		}
		codes = append(codes, 0x30)
	}
	codes = append(codes, US, 0x41, 0x41)
	if set == G1 {
		return append(codes, ESC, 0x29, 0x20, 0x43)
	}
	return append(codes, ESC, 0x28, 0x20, 0x42)
}
