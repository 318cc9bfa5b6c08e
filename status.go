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
	"strings"
)

// Mode is one of the three display modes of a Minitel.
type Mode int

const (
	Videotex         Mode = iota // 40 columns, videotex escape dialect
	Mixte                        // 80 columns, protocol commands still answered
	Teleinformatique             // 80 columns, ANSI-like dialect, deaf to PRO probes
)

var modeNames = [...]string{"VIDEOTEX", "MIXTE", "TELEINFORMATIQUE"}

func (m Mode) String() string {
	if m < Videotex || m > Teleinformatique {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name in any case.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, name) {
			return Mode(i), nil
		}
	}
	return Videotex, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Keyboard is the layout of the terminal's keyboard.
type Keyboard int

const (
	KeyboardNone   Keyboard = iota // printers and some Terminatels have none
	KeyboardABCD                   // basic layout
	KeyboardAzerty                 // extended layout
)

func (k Keyboard) String() string {
	switch k {
	case KeyboardABCD:
		return "ABCD"
	case KeyboardAzerty:
		return "Azerty"
	}
	return "none"
}

// Capability holds the static facts learnt from the identification exchange.
type Capability struct {
	Name         string
	Reversible   bool // can act as a modem
	Keyboard     Keyboard
	MaxSpeed     int
	Manufacturer string
	Columns80    bool
	CustomChars  bool // DRCS glyph redefinition
	Version      byte // firmware version code, 0 when unknown
}

// BasicCapability is the conservative record used until identification succeeds.
func BasicCapability() Capability {
	return Capability{
		Name:         "Minitel inconnu",
		Keyboard:     KeyboardABCD,
		MaxSpeed:     1200,
		Manufacturer: "Unknown",
	}
}

func (c Capability) String() string {
	version := "unknown"
	if c.Version != 0 {
		version = string(rune(c.Version))
	}
	return fmt.Sprintf("%s by %s (version %s): keyboard %s, max %d bps, reversible %t, 80 columns %t, custom characters %t",
		c.Name, c.Manufacturer, version, c.Keyboard, c.MaxSpeed, c.Reversible, c.Columns80, c.CustomChars)
}

// terminalTypes is keyed by the type code of the ENQROM reply.
var terminalTypes = map[byte]Capability{
	'b': {Name: "Minitel 1", Keyboard: KeyboardABCD, MaxSpeed: 1200},
	'c': {Name: "Minitel 1", Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	'd': {Name: "Minitel 10", Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	'e': {Name: "Minitel 1 couleur", Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	'f': {Name: "Minitel 10", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	'g': {Name: "Émulateur", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 9600, Columns80: true, CustomChars: true},
	'j': {Name: "Imprimante", Keyboard: KeyboardNone, MaxSpeed: 1200},
	'r': {Name: "Minitel 1", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	's': {Name: "Minitel 1 couleur", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 1200},
	't': {Name: "Terminatel 252", Keyboard: KeyboardNone, MaxSpeed: 1200},
	'u': {Name: "Minitel 1B", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 4800, Columns80: true},
	'v': {Name: "Minitel 2", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 9600, Columns80: true, CustomChars: true},
	'w': {Name: "Minitel 10B", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 4800, Columns80: true},
	'y': {Name: "Minitel 5", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 9600, Columns80: true, CustomChars: true},
	'z': {Name: "Minitel 12", Reversible: true, Keyboard: KeyboardAzerty, MaxSpeed: 9600, Columns80: true, CustomChars: true},
}

// manufacturers is keyed by the manufacturer code of the ENQROM reply.
var manufacturers = map[byte]string{
	'A': "Matra",
	'B': "RTIC",
	'C': "Telic-Alcatel",
	'D': "Thomson",
	'E': "CCS",
	'F': "Fiet",
	'G': "Fime",
	'H': "Unitel",
	'I': "Option",
	'J': "Bull",
	'K': "Télématique",
	'L': "Desmet",
}

// LinkState is what has actually been acknowledged by the terminal.
type LinkState struct {
	Speed int
	Mode  Mode
}

func (s LinkState) String() string {
	return fmt.Sprintf("%d bps, %s", s.Speed, s.Mode)
}
