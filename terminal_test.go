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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinitel answers protocol commands the way a terminal set to baud and
// mode would.  Anything written at another speed is lost.
type fakeMinitel struct {
	baud     int
	mode     Mode
	maxSpeed int
	rom      []byte
	mute     bool // answer nothing
	pending  []byte
}

func newFakeMinitel(t *testing.T, baud int, mode Mode) (*fakeMinitel, *Driver, *MemoryLine) {
	t.Helper()
	f := &fakeMinitel{
		baud:     baud,
		mode:     mode,
		maxSpeed: 9600,
		rom:      []byte{SOH, 'B', 'v', '4', EOT},
	}
	line := NewMemoryLine()
	line.OnWrite = f.onWrite
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)
	return f, d, line
}

func testOptions() Options {
	return Options{
		CallTimeout:   20 * time.Millisecond,
		EscapeTimeout: 20 * time.Millisecond,
		PollInterval:  time.Millisecond,
		HistorySize:   32,
	}
}

func (f *fakeMinitel) onWrite(m *MemoryLine, p []byte) {
	if m.Config().Baud != f.baud || f.mute {
		return
	}
	f.pending = append(f.pending, p...)
	if f.pending[0] != ESC {
		f.pending = f.pending[:0]
		return
	}
	if len(f.pending) < 2 {
		return
	}
	var length int
	switch f.pending[1] {
	case 0x39:
		length = 3
	case 0x3a, 0x5b:
		length = 4
	case 0x3b:
		length = 5
	default:
		f.pending = f.pending[:0]
		return
	}
	if len(f.pending) < length {
		return
	}
	cmd := NewSequence(f.pending[:length])
	f.pending = f.pending[length:]
	if reply := f.answer(cmd); reply != nil {
		m.Feed(reply)
	}
}

func (f *fakeMinitel) answer(cmd Sequence) []any {
	if f.mode == Teleinformatique {
		if cmd.Equal([]any{CSI, 0x3f, 0x7b}) {
			f.mode = Videotex
			return []any{SEP, 0x5e}
		}
		return nil
	}
	switch {
	case cmd.Equal([]any{PRO1, 0x70}):
		return []any{PRO2, 0x71, 0x44}
	case cmd.Equal([]any{PRO1, 0x7b}):
		return []any{f.rom}
	case cmd.Equal([]any{PRO1, 0x72}):
		status := 0x40
		if f.mode == Mixte {
			status |= 1
		}
		return []any{PRO2, 0x73, status}
	case cmd.Equal([]any{PRO2, 0x32, 0x7d}) && f.mode == Videotex:
		f.mode = Mixte
		return []any{SEP, 0x70}
	case cmd.Equal([]any{PRO2, 0x32, 0x7e}) && f.mode == Mixte:
		f.mode = Videotex
		return []any{SEP, 0x71}
	case cmd.Equal([]any{PRO2, 0x31, 0x7d}):
		f.mode = Teleinformatique
		return []any{CSI, 0x3f, 0x7a}
	case cmd.At(1) == 0x3a && cmd.At(2) == proProg:
		rates := map[byte]int{0x52: 300, 0x64: 1200, 0x76: 4800, 0x7f: 9600}
		if rate := rates[cmd.At(3)]; rate > 0 && rate <= f.maxSpeed {
			// the acknowledgment goes out at the new speed
			f.baud = rate
			return nil
		}
		return []any{PRO2, 0x75, 0x64}
	case cmd.At(1) == 0x3b:
		return []any{PRO3, 0x73, cmd.At(3), 0x40}
	case cmd.At(1) == 0x3a:
		return []any{PRO2, 0x73, 0x40}
	}
	return nil
}

func TestNewDriverConfiguresLine(t *testing.T) {
	_, d, line := newFakeMinitel(t, 1200, Videotex)
	assert.Equal(t, DefaultLineConfig(1200), line.Config())
	assert.Equal(t, LinkState{Speed: 1200, Mode: Videotex}, d.State())
	assert.Equal(t, BasicCapability(), d.Capability())
}

func TestSendWritesOneCodeAtATime(t *testing.T) {
	line := NewMemoryLine()
	writes := 0
	line.OnWrite = func(_ *MemoryLine, p []byte) {
		writes++
		assert.Len(t, p, 1)
	}
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)
	require.NoError(t, d.Send("é", 0x41))
	assert.Equal(t, 4, writes)
	assert.True(t, line.Written().Equal([]any{SS2, 0x42, 0x65, 0x41}))
}

func TestSendInMixteUsesItsCharset(t *testing.T) {
	_, d, line := newFakeMinitel(t, 1200, Videotex)
	require.NoError(t, d.SetMode(Mixte))
	line.Reset()
	require.NoError(t, d.Send("é"))
	assert.True(t, line.Written().Equal([]any{SO, 0x7b, SI}))
}

func TestReceiveSequenceFraming(t *testing.T) {
	tests := []struct {
		name  string
		input []any
		want  []byte
	}{
		{"plain", []any{0x41, 0x42}, []byte{0x41}},
		{"SS2", []any{SS2, 0x41, 0x61}, []byte{SS2, 0x41}},
		{"SEP", []any{SEP, 0x41}, []byte{SEP, 0x41}},
		{"lone ESC", []any{ESC}, []byte{ESC}},
		{"ESC pair", []any{ESC, 0x39, 0x70}, []byte{ESC, 0x39}},
		{"CSI", []any{ESC, 0x5b, 0x41}, []byte{ESC, 0x5b, 0x41}},
		{"CSI 4", []any{ESC, 0x5b, 0x34, 0x68}, []byte{ESC, 0x5b, 0x34, 0x68}},
		{"CSI 2", []any{ESC, 0x5b, 0x32, 0x4a}, []byte{ESC, 0x5b, 0x32, 0x4a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewMemoryLine()
			d, err := NewDriver(line, testOptions())
			require.NoError(t, err)
			line.Feed(tt.input...)
			assert.Equal(t, tt.want, d.ReceiveSequence(true, time.Second).Bytes())
		})
	}
}

func TestReceiveTimeouts(t *testing.T) {
	line := NewMemoryLine()
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, d.Receive(false, 0).Len())
	start := time.Now()
	assert.Equal(t, 0, d.Receive(true, 30*time.Millisecond).Len())
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, 0, d.ReceiveSequence(false, 0).Len())
	assert.Panics(t, func() { d.Receive(true, -time.Second) })
}

func TestReceiveOnClosedLine(t *testing.T) {
	line := NewMemoryLine()
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)
	require.NoError(t, d.Close())
	assert.Equal(t, 0, d.ReceiveSequence(true, 0).Len())
	assert.ErrorIs(t, d.Err(), ErrClosed)
	assert.ErrorIs(t, d.Send("x"), ErrClosed)
}

func TestCallReturnsShortReply(t *testing.T) {
	line := NewMemoryLine()
	line.OnWrite = func(m *MemoryLine, p []byte) {
		if p[0] == 0x7b {
			m.Feed(SEP, 0x5e)
		}
	}
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)
	reply, err := d.Call([]any{CSI, 0x3f, 0x7b}, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{SEP, 0x5e}, reply.Bytes())
}

// slowLine hands out each scheduled code once its delay, counted from the
// last write (or from creation), has passed.
type slowLine struct {
	*MemoryLine
	since time.Time
	codes []slowCode
}

type slowCode struct {
	after time.Duration
	code  byte
}

func newSlowLine(codes ...slowCode) *slowLine {
	return &slowLine{MemoryLine: NewMemoryLine(), since: time.Now(), codes: codes}
}

func (s *slowLine) release() {
	for len(s.codes) > 0 && time.Since(s.since) >= s.codes[0].after {
		s.Feed(s.codes[0].code)
		s.codes = s.codes[1:]
	}
}

func (s *slowLine) Write(p []byte) error {
	s.since = time.Now()
	return s.MemoryLine.Write(p)
}

func (s *slowLine) Available() bool {
	s.release()
	return s.MemoryLine.Available()
}

func (s *slowLine) Read(max int) ([]byte, error) {
	s.release()
	return s.MemoryLine.Read(max)
}

func TestCallWaitsPastASilentRead(t *testing.T) {
	line := newSlowLine(slowCode{0, SEP}, slowCode{75 * time.Millisecond, 0x5e})
	opts := testOptions()
	opts.CallTimeout = 50 * time.Millisecond
	d, err := NewDriver(line, opts)
	require.NoError(t, err)

	start := time.Now()
	reply, err := d.Call([]any{CSI, 0x3f, 0x7b}, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{SEP, 0x5e}, reply.Bytes())
	// two reads found nothing, each after its own timeout
	assert.GreaterOrEqual(t, time.Since(start), 125*time.Millisecond)
}

func TestEscapeWindow(t *testing.T) {
	t.Run("late code", func(t *testing.T) {
		line := newSlowLine(slowCode{0, ESC}, slowCode{60 * time.Millisecond, 0x41})
		d, err := NewDriver(line, testOptions())
		require.NoError(t, err)
		assert.Equal(t, []byte{ESC}, d.ReceiveSequence(true, time.Second).Bytes())
		assert.Equal(t, []byte{0x41}, d.ReceiveSequence(true, time.Second).Bytes())
	})
	t.Run("code within the window", func(t *testing.T) {
		line := newSlowLine(slowCode{0, ESC}, slowCode{5 * time.Millisecond, 0x41})
		d, err := NewDriver(line, testOptions())
		require.NoError(t, err)
		assert.Equal(t, []byte{ESC, 0x41}, d.ReceiveSequence(true, time.Second).Bytes())
	})
}

func TestDetectSpeed(t *testing.T) {
	for _, baud := range []int{9600, 4800, 1200, 300} {
		_, d, line := newFakeMinitel(t, baud, Videotex)
		got, err := d.DetectSpeed()
		require.NoError(t, err)
		assert.Equal(t, baud, got)
		assert.Equal(t, baud, d.Speed())
		assert.Equal(t, baud, line.Config().Baud)
	}
}

func TestDetectSpeedNotFound(t *testing.T) {
	_, d, line := newFakeMinitel(t, 1200, Teleinformatique)
	got, err := d.DetectSpeed()
	assert.ErrorIs(t, err, ErrSpeedNotFound)
	assert.Equal(t, -1, got)
	var tried []int
	for _, c := range line.Configurations()[1:] {
		tried = append(tried, c.Baud)
	}
	assert.Equal(t, []int{9600, 4800, 1200, 300}, tried)
}

func TestRecover(t *testing.T) {
	_, d, _ := newFakeMinitel(t, 4800, Teleinformatique)
	got, err := d.Recover()
	require.NoError(t, err)
	assert.Equal(t, 4800, got)
	assert.Equal(t, LinkState{Speed: 4800, Mode: Videotex}, d.State())
}

func TestRecoverFails(t *testing.T) {
	f, d, _ := newFakeMinitel(t, 1200, Teleinformatique)
	f.mute = true
	got, err := d.Recover()
	assert.ErrorIs(t, err, ErrSpeedNotFound)
	assert.Equal(t, -1, got)
	assert.Equal(t, Teleinformatique, d.Mode())
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name        string
		rom         []byte
		mode        Mode
		wantName    string
		wantMaker   string
		wantSpeed   int
		wantMode    Mode
		wantCustom  bool
		wantColumns bool
	}{
		{"Philips Minitel 2", []byte{SOH, 'B', 'v', '4', EOT}, Videotex, "Minitel 2", "Philips", 9600, Videotex, true, true},
		{"Telic or Matra", []byte{SOH, 'C', 'c', ';', EOT}, Videotex, "Minitel 1", "Telic or Matra", 1200, Videotex, false, false},
		{"Telic-Alcatel", []byte{SOH, 'C', 'c', '2', EOT}, Videotex, "Minitel 1", "Telic-Alcatel", 1200, Videotex, false, false},
		{"mixte", []byte{SOH, 'D', 'u', '1', EOT}, Mixte, "Minitel 1B", "Thomson", 4800, Mixte, false, true},
		{"unknown", []byte{SOH, 'Z', 'x', '1', EOT}, Videotex, "Minitel inconnu", "Unknown", 1200, Videotex, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, d, _ := newFakeMinitel(t, 1200, tt.mode)
			f.rom = tt.rom
			require.NoError(t, d.Identify())
			c := d.Capability()
			assert.Equal(t, tt.wantName, c.Name)
			assert.Equal(t, tt.wantMaker, c.Manufacturer)
			assert.Equal(t, tt.wantSpeed, c.MaxSpeed)
			assert.Equal(t, tt.wantCustom, c.CustomChars)
			assert.Equal(t, tt.wantColumns, c.Columns80)
			assert.Equal(t, tt.rom[3], c.Version)
			assert.Equal(t, tt.wantMode, d.Mode())
		})
	}
}

func TestIdentifyMalformed(t *testing.T) {
	f, d, _ := newFakeMinitel(t, 1200, Videotex)
	f.rom = []byte{SOH, 'B', 'v'}
	assert.ErrorIs(t, d.Identify(), ErrIdentification)
	assert.Equal(t, BasicCapability(), d.Capability())
}

func TestIdentifySilentModeQueryMeansTeleinformatique(t *testing.T) {
	line := NewMemoryLine()
	line.OnWrite = func(m *MemoryLine, p []byte) {
		if p[0] == 0x7b {
			m.Feed(SOH, 'B', 'v', '4', EOT)
		}
	}
	d, err := NewDriver(line, testOptions())
	require.NoError(t, err)
	require.NoError(t, d.Identify())
	assert.Equal(t, Teleinformatique, d.Mode())
}

func TestSetModeTransitions(t *testing.T) {
	f, d, _ := newFakeMinitel(t, 1200, Videotex)
	for _, target := range []Mode{Videotex, Mixte, Videotex, Teleinformatique, Videotex, Teleinformatique, Mixte, Teleinformatique} {
		require.NoError(t, d.SetMode(target), "to %v", target)
		assert.Equal(t, target, d.Mode())
		assert.Equal(t, target, f.mode)
	}
}

func TestSetModeFailureKeepsMode(t *testing.T) {
	f, d, _ := newFakeMinitel(t, 1200, Teleinformatique)
	d.state.Mode = Teleinformatique
	f.mute = true
	assert.ErrorIs(t, d.SetMode(Mixte), ErrNoAcknowledge)
	assert.Equal(t, Teleinformatique, d.Mode())
	assert.ErrorIs(t, d.SetMode(Mode(7)), ErrUnknownMode)
}

func TestSetSpeed(t *testing.T) {
	f, d, line := newFakeMinitel(t, 1200, Videotex)
	f.maxSpeed = 4800

	require.NoError(t, d.SetSpeed(1200))
	require.NoError(t, d.SetSpeed(4800))
	assert.Equal(t, 4800, d.Speed())
	assert.Equal(t, 4800, line.Config().Baud)

	assert.ErrorIs(t, d.SetSpeed(9600), ErrSpeedRejected)
	assert.Equal(t, 4800, d.Speed())
	assert.Equal(t, 4800, line.Config().Baud)

	assert.ErrorIs(t, d.SetSpeed(2400), ErrUnsupportedSpeed)
}

func TestKeyboardEchoScroll(t *testing.T) {
	f, d, line := newFakeMinitel(t, 1200, Videotex)
	require.NoError(t, d.ConfigureKeyboard(true, true, false))
	assert.True(t, line.Written().HasSuffix([]any{PRO2, 0x6a, 0x45}))
	assert.True(t, line.Written().Equal([]any{
		PRO3, 0x69, 0x59, 0x41,
		PRO3, 0x69, 0x59, 0x43,
		PRO2, 0x6a, 0x45,
	}))

	line.Reset()
	require.NoError(t, d.Echo(false))
	assert.True(t, line.Written().Equal([]any{PRO3, 0x60, 0x5a, 0x51}))

	line.Reset()
	require.NoError(t, d.Scroll(true))
	assert.True(t, line.Written().Equal([]any{PRO2, 0x69, 0x43}))

	f.mute = true
	assert.ErrorIs(t, d.ConfigureKeyboard(false, false, false), ErrNoAcknowledge)
	assert.ErrorIs(t, d.Echo(true), ErrNoAcknowledge)
	assert.ErrorIs(t, d.Scroll(false), ErrNoAcknowledge)
}

func TestHistoryRecordsTraffic(t *testing.T) {
	_, d, _ := newFakeMinitel(t, 1200, Videotex)
	_, err := d.DetectSpeed()
	require.NoError(t, err)
	entries := d.History().Entries()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, In, last.Dir)
	assert.True(t, last.Codes.Equal([]any{PRO2, 0x71, 0x44}))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("/dev/null", "carrier-pigeon", Options{})
	assert.Error(t, err)
}
