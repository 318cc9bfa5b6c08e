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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Redefinable character cell.
const (
	GlyphWidth  = 8
	GlyphHeight = 10

	glyphDescent = 2 // rows below the baseline
)

// Glyph is one character drawing; bit 7 of each row is the leftmost pixel.
type Glyph [GlyphHeight]byte

// ParseGlyph reads 80 pixels, '1' for ink and '0' for paper, ignoring any
// other character.
func ParseGlyph(bitmap string) (Glyph, error) {
	var g Glyph
	n := 0
	for _, c := range bitmap {
		if c != '0' && c != '1' {
			continue
		}
		if n == glyphPixels {
			return g, fmt.Errorf("minitel: glyph has more than %d pixels", glyphPixels)
		}
		if c == '1' {
			g[n/GlyphWidth] |= 0x80 >> (n % GlyphWidth)
		}
		n++
	}
	if n != glyphPixels {
		return g, fmt.Errorf("minitel: glyph has %d pixels, want %d", n, glyphPixels)
	}
	return g, nil
}

// Bitmap renders the glyph as RedefineCharacters expects it.
func (g Glyph) Bitmap() string {
	var sb strings.Builder
	sb.Grow(glyphPixels)
	for _, row := range g {
		for bit := 0; bit < GlyphWidth; bit++ {
			if row&(0x80>>bit) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}

func (g *Glyph) set(col, row int) {
	if col < 0 || col >= GlyphWidth || row < 0 || row >= GlyphHeight {
		return
	}
	g[row] |= 0x80 >> col
}

// LoadBDF reads the characters of a BDF font, each drawn into an 8x10 cell
// with its baseline two rows from the bottom.  Larger drawings are clipped.
func LoadBDF(r io.Reader) (map[rune]Glyph, error) {
	glyphs := make(map[rune]Glyph)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if !strings.HasPrefix(line, "STARTCHAR") {
			continue
		}
		var (
			code                      = -1
			width, height, xOff, yOff int
			glyph                     Glyph
			inBitmap                  bool
			bitmapRow                 int
			top                       int
		)
		for {
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("minitel: BDF ends inside a character")
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch {
			case fields[0] == "ENDCHAR":
			case inBitmap:
				bits, err := strconv.ParseUint(fields[0], 16, 64)
				if err != nil {
					return nil, fmt.Errorf("minitel: BDF line %d: bad bitmap row %q", lineNo, fields[0])
				}
				total := 4 * len(fields[0])
				for i := 0; i < width && i < total; i++ {
					if bits&(1<<(total-1-i)) != 0 {
						glyph.set(xOff+i, top+bitmapRow)
					}
				}
				bitmapRow++
				continue
			case fields[0] == "ENCODING" && len(fields) > 1:
				n, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("minitel: BDF line %d: bad encoding %q", lineNo, fields[1])
				}
				code = n
				continue
			case fields[0] == "BBX" && len(fields) == 5:
				vals := make([]int, 4)
				for i := range vals {
					v, err := strconv.Atoi(fields[i+1])
					if err != nil {
						return nil, fmt.Errorf("minitel: BDF line %d: bad BBX", lineNo)
					}
					vals[i] = v
				}
				width, height, xOff, yOff = vals[0], vals[1], vals[2], vals[3]
				top = GlyphHeight - glyphDescent - height - yOff
				continue
			case fields[0] == "BITMAP":
				inBitmap = true
				continue
			default:
				continue
			}
			break // ENDCHAR
		}
		if code >= 0 {
			glyphs[rune(code)] = glyph
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return glyphs, nil
}
