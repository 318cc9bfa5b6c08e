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

// ASCII control codes as the Minitel uses them. Several codes carry a second,
// Minitel-specific meaning (CON, REP, SEP, COF, SS2, SS3).
const (
	NUL byte = 0x00
	SOH byte = 0x01 // start of heading, opens the ENQROM reply
	STX byte = 0x02
	ETX byte = 0x03
	EOT byte = 0x04 // closes the ENQROM reply
	ENQ byte = 0x05
	ACK byte = 0x06
	BEL byte = 0x07
	BS  byte = 0x08 // cursor left
	TAB byte = 0x09 // cursor right
	LF  byte = 0x0a // cursor down
	VT  byte = 0x0b // cursor up
	FF  byte = 0x0c // clear screen
	CR  byte = 0x0d
	SO  byte = 0x0e // G1 (semigraphic) set
	SI  byte = 0x0f // G0 (alphanumeric) set
	DLE byte = 0x10
	CON byte = 0x11 // cursor on
	REP byte = 0x12 // repeat previous character
	SEP byte = 0x13 // function keys and acknowledgments
	COF byte = 0x14 // cursor off
	NAK byte = 0x15
	SYN byte = 0x16
	ETB byte = 0x17
	CAN byte = 0x18 // clear to end of line
	SS2 byte = 0x19 // G2 set: accents and special characters
	SUB byte = 0x1a
	ESC byte = 0x1b
	FS  byte = 0x1c
	SS3 byte = 0x1d
	RS  byte = 0x1e // cursor home
	US  byte = 0x1f // absolute cursor position / sub-article
	DEL byte = 0x7f
)

// Escape introducers.
var (
	PRO1 = []byte{ESC, 0x39}
	PRO2 = []byte{ESC, 0x3a}
	PRO3 = []byte{ESC, 0x3b}
	CSI  = []byte{ESC, 0x5b}
)

// PRO1 commands
const (
	proStatusTerm = 0x70
	proStatusFunc = 0x72
	proEnqROM     = 0x7b
)

// PRO2 commands and replies
const (
	proStart       = 0x69
	proStop        = 0x6a
	proProg        = 0x6b
	repStatusTerm  = 0x71
	repStatusSpeed = 0x75
)

// PRO3 switching commands
const (
	proSwitchOff = 0x60
	proSwitchOn  = 0x61
)

// Mode switching payloads sent after PRO2.
var (
	proTeleinfo = []byte{0x31, 0x7d}
	proMixte1   = []byte{0x32, 0x7d}
	proMixte2   = []byte{0x32, 0x7e}
)

// Reply lengths of the PRO2 and PRO3 families.
const (
	lenPRO2 = 4
	lenPRO3 = 5
)

// Operating mode and keyboard switches (PRO2/PRO3 START/STOP).
const (
	optScroll    = 0x43 // ROULEAU
	optLowercase = 0x45 // MINUSCULES
	optExtended  = 0x41 // ETEN
	optC0        = 0x43 // cursor keys send C0 codes
)

// Speed codes for PRO2 PROG.
const (
	speed9600 = 0x7f
	speed4800 = 0x76
	speed1200 = 0x64
	speed300  = 0x52
)

// Reception module codes
const (
	rcptKeyboard = 0x59
	rcptModem    = 0x5a
)

// Emission module codes
const emitKeyboard = 0x51

// Accent keys, as sent by the keyboard.
var (
	AccentCedilla    = []byte{SS2, 0x4b}
	AccentGrave      = []byte{SS2, 0x41}
	AccentAcute      = []byte{SS2, 0x42}
	AccentCircumflex = []byte{SS2, 0x43}
	AccentTrema      = []byte{SS2, 0x48}
)

// Cursor keys.
var (
	KeyUp    = []byte{ESC, 0x5b, 0x41}
	KeyDown  = []byte{ESC, 0x5b, 0x42}
	KeyLeft  = []byte{ESC, 0x5b, 0x44}
	KeyRight = []byte{ESC, 0x5b, 0x43}

	KeyShiftUp    = []byte{ESC, 0x5b, 0x4d}
	KeyShiftDown  = []byte{ESC, 0x5b, 0x4c}
	KeyShiftLeft  = []byte{ESC, 0x5b, 0x50}
	KeyShiftRight = []byte{ESC, 0x5b, 0x34, 0x68}

	KeyCtrlLeft = []byte{DEL}

	KeyEnter      = []byte{CR}
	KeyShiftEnter = []byte{ESC, 0x5b, 0x48}
	KeyCtrlEnter  = []byte{ESC, 0x5b, 0x32, 0x4a}
)

// Function keys.
var (
	KeyEnvoi      = []byte{SEP, 0x41}
	KeyRetour     = []byte{SEP, 0x42}
	KeyRepetition = []byte{SEP, 0x43}
	KeyGuide      = []byte{SEP, 0x44}
	KeyAnnulation = []byte{SEP, 0x45}
	KeySommaire   = []byte{SEP, 0x46}
	KeyCorrection = []byte{SEP, 0x47}
	KeySuite      = []byte{SEP, 0x48}
	KeyConnexion  = []byte{SEP, 0x49}
)

// KeyNames maps the lower-case name of every function and cursor key to its
// sequence.
var KeyNames = map[string][]byte{
	"envoi":      KeyEnvoi,
	"retour":     KeyRetour,
	"repetition": KeyRepetition,
	"guide":      KeyGuide,
	"annulation": KeyAnnulation,
	"sommaire":   KeySommaire,
	"correction": KeyCorrection,
	"suite":      KeySuite,
	"connexion":  KeyConnexion,
	"up":         KeyUp,
	"down":       KeyDown,
	"left":       KeyLeft,
	"right":      KeyRight,
	"enter":      KeyEnter,
}

// KeyName returns the name of the key that produced seq, or "" if it is not a
// named key.
func KeyName(seq Sequence) string {
	for name, codes := range KeyNames {
		if seq.Equal(codes) {
			return name
		}
	}
	return ""
}
