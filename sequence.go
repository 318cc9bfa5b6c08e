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
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// A Sequence is a flat run of codes (0-255) ready to be sent to, or just
// received from, a Minitel.  Text appended to it is translated with the
// character table of the Sequence's mode.
type Sequence struct {
	codes []byte
	mode  Mode
}

// NewSequence builds a Sequence using the VIDEOTEX character table.
func NewSequence(values ...any) Sequence {
	return NewSequenceFor(Videotex, values...)
}

// NewSequenceFor builds a Sequence whose text is translated for mode.
func NewSequenceFor(mode Mode, values ...any) Sequence {
	s := Sequence{mode: mode}
	s.Append(values...)
	return s
}

// Append flattens values onto the end of the Sequence.  Accepted kinds are
// int, byte, rune (one character), string, []byte, []int, []any (nested to any
// depth), Sequence and *Sequence.  Anything else, or an integer outside
// 0..255, is a programming error and panics.
func (s *Sequence) Append(values ...any) {
	for _, v := range values {
		s.codes = s.appendValue(s.codes, v)
	}
}

func (s *Sequence) appendValue(dst []byte, v any) []byte {
	switch v := v.(type) {
	case byte:
		return append(dst, v)
	case int:
		if v < 0 || v > 255 {
			panic(fmt.Sprintf("minitel: code %d out of range 0..255", v))
		}
		return append(dst, byte(v))
	case rune:
		return s.appendRune(dst, v)
	case string:
		for _, r := range v {
			dst = s.appendRune(dst, r)
		}
		return dst
	case []byte:
		return append(dst, v...)
	case []int:
		for _, i := range v {
			dst = s.appendValue(dst, i)
		}
		return dst
	case []any:
		for _, e := range v {
			dst = s.appendValue(dst, e)
		}
		return dst
	case Sequence:
		return append(dst, v.codes...)
	case *Sequence:
		return append(dst, v.codes...)
	}
	panic(fmt.Sprintf("minitel: cannot append a %T to a Sequence", v))
}

func (s *Sequence) appendRune(dst []byte, r rune) []byte {
	table := otherCharset
	if s.mode == Videotex {
		table = videotexCharset
	}
	if codes, ok := table[r]; ok {
		return append(dst, codes...)
	}
	if r < 0x80 {
		return append(dst, byte(r))
	}
	return append(dst, asciiFallback(r)...)
}

// asciiFallback strips diacritics from r and replaces whatever is still not
// ASCII with '?'.
func asciiFallback(r rune) []byte {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, string(r))
	if err != nil || stripped == "" {
		return []byte{'?'}
	}
	out := make([]byte, 0, len(stripped))
	for _, c := range stripped {
		if c < 0x80 {
			out = append(out, byte(c))
		} else {
			out = append(out, '?')
		}
	}
	return out
}

// Equal reports whether other, converted as Append would convert it, holds the
// same codes as s.
func (s Sequence) Equal(other any) bool {
	switch o := other.(type) {
	case Sequence:
		return bytes.Equal(s.codes, o.codes)
	case *Sequence:
		return o != nil && bytes.Equal(s.codes, o.codes)
	}
	return bytes.Equal(s.codes, NewSequenceFor(s.mode, other).codes)
}

// HasSuffix reports whether s ends with the codes of other.
func (s Sequence) HasSuffix(other any) bool {
	return bytes.HasSuffix(s.codes, NewSequenceFor(s.mode, other).codes)
}

// Bytes returns the codes; the caller must not modify them.
func (s Sequence) Bytes() []byte { return s.codes }

func (s Sequence) Len() int { return len(s.codes) }

func (s Sequence) At(i int) byte { return s.codes[i] }

// Mode returns the mode whose character table translates text.
func (s Sequence) Mode() Mode { return s.mode }

// Last returns the final code, false if the Sequence is empty.
func (s Sequence) Last() (byte, bool) {
	if len(s.codes) == 0 {
		return 0, false
	}
	return s.codes[len(s.codes)-1], true
}

// String renders the codes in hex, for logs and traces.
func (s Sequence) String() string {
	var sb strings.Builder
	for i, c := range s.codes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}

var videotexCharset = map[rune][]byte{
	'£': {SS2, 0x23}, '°': {SS2, 0x30}, '±': {SS2, 0x31},
	'←': {SS2, 0x2c}, '↑': {SS2, 0x2d}, '→': {SS2, 0x2e}, '↓': {SS2, 0x2f},
	'¼': {SS2, 0x3c}, '½': {SS2, 0x3d}, '¾': {SS2, 0x3e},
	'ç': {SS2, 0x4b, 0x63}, '’': {SS2, 0x4b, 0x27},
	'à': {SS2, 0x41, 0x61}, 'á': {SS2, 0x42, 0x61}, 'â': {SS2, 0x43, 0x61}, 'ä': {SS2, 0x48, 0x61},
	'è': {SS2, 0x41, 0x65}, 'é': {SS2, 0x42, 0x65}, 'ê': {SS2, 0x43, 0x65}, 'ë': {SS2, 0x48, 0x65},
	'ì': {SS2, 0x41, 0x69}, 'í': {SS2, 0x42, 0x69}, 'î': {SS2, 0x43, 0x69}, 'ï': {SS2, 0x48, 0x69},
	'ò': {SS2, 0x41, 0x6f}, 'ó': {SS2, 0x42, 0x6f}, 'ô': {SS2, 0x43, 0x6f}, 'ö': {SS2, 0x48, 0x6f},
	'ù': {SS2, 0x41, 0x75}, 'ú': {SS2, 0x42, 0x75}, 'û': {SS2, 0x43, 0x75}, 'ü': {SS2, 0x48, 0x75},
	'Œ': {SS2, 0x6a}, 'œ': {SS2, 0x7a}, 'ß': {SS2, 0x7b}, 'β': {SS2, 0x7b},
}

// otherCharset serves MIXTE and TELEINFORMATIQUE, which reach the few
// national characters through the G1 set.
var otherCharset = map[rune][]byte{
	'£': {SO, 0x23, SI}, '°': {SO, 0x5b, SI}, 'ç': {SO, 0x5c, SI},
	'’': {0x27}, '`': {0x60}, '§': {SO, 0x5d, SI},
	'à': {SO, 0x40, SI}, 'è': {SO, 0x7f, SI}, 'é': {SO, 0x7b, SI}, 'ù': {SO, 0x7c, SI},
}
