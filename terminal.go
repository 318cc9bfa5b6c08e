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
	"io"
	"log"
	"time"
)

// Options tune a Driver.  Zero values select the defaults.
type Options struct {
	CallTimeout   time.Duration // per code of a command reply, default 1s
	EscapeTimeout time.Duration // wait after a lone ESC, default 100ms
	PollInterval  time.Duration // default 10ms
	Logger        *log.Logger   // nil discards
	HistorySize   int           // exchanges kept, 0 disables the history
}

const (
	defaultCallTimeout   = time.Second
	defaultEscapeTimeout = 100 * time.Millisecond
	defaultPollInterval  = 10 * time.Millisecond
)

// Driver talks to one Minitel over a Line.  It is not safe for concurrent
// use.
type Driver struct {
	line       Line
	opts       Options
	log        *log.Logger
	state      LinkState
	capability Capability
	history    *History
	err        error
}

// NewDriver configures line for 1200 bps 7E1, the Minitel's power-on state,
// and assumes VIDEOTEX mode.
func NewDriver(line Line, opts Options) (*Driver, error) {
	if opts.CallTimeout < 0 || opts.EscapeTimeout < 0 || opts.PollInterval < 0 {
		panic("minitel: negative timeout in Options")
	}
	if opts.CallTimeout == 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.EscapeTimeout == 0 {
		opts.EscapeTimeout = defaultEscapeTimeout
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = defaultPollInterval
	}
	d := &Driver{
		line:       line,
		opts:       opts,
		log:        opts.Logger,
		state:      LinkState{Speed: 1200, Mode: Videotex},
		capability: BasicCapability(),
	}
	if d.log == nil {
		d.log = log.New(io.Discard, "", 0)
	}
	if opts.HistorySize > 0 {
		d.history = NewHistory(opts.HistorySize)
	}
	if err := line.Configure(DefaultLineConfig(1200)); err != nil {
		return nil, err
	}
	return d, nil
}

// Open opens device with the named backend ("sers", the default, or "tarm")
// and returns a Driver for it.
func Open(device, backend string, opts Options) (*Driver, error) {
	var (
		line Line
		err  error
	)
	switch backend {
	case "", "sers":
		line, err = OpenSers(device)
	case "tarm":
		line, err = OpenTarm(device)
	default:
		return nil, fmt.Errorf("minitel: unknown serial backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	d, err := NewDriver(line, opts)
	if err != nil {
		line.Close()
		return nil, err
	}
	return d, nil
}

func (d *Driver) Mode() Mode             { return d.state.Mode }
func (d *Driver) Speed() int             { return d.state.Speed }
func (d *Driver) State() LinkState       { return d.state }
func (d *Driver) Capability() Capability { return d.capability }

// History is nil unless Options.HistorySize was set.
func (d *Driver) History() *History { return d.history }

// Err returns the first I/O error met by the driver.
func (d *Driver) Err() error { return d.err }

func (d *Driver) Close() error {
	return d.line.Close()
}

func (d *Driver) fail(err error) error {
	if d.err == nil {
		d.err = err
		d.log.Printf("line error: %v", err)
	}
	return err
}

// Send translates values with the current mode's character table and writes
// them one code at a time.
func (d *Driver) Send(values ...any) error {
	seq := NewSequenceFor(d.state.Mode, values...)
	d.history.append(Out, seq)
	for _, c := range seq.Bytes() {
		if err := d.line.Write([]byte{c}); err != nil {
			return d.fail(err)
		}
	}
	return nil
}

// SendRaw writes p untranslated, typically pre-rendered videotex pages.
func (d *Driver) SendRaw(p []byte) error {
	d.history.append(Out, NewSequence(p))
	if err := d.line.Write(p); err != nil {
		return d.fail(err)
	}
	return nil
}

// Receive reads at most one code.  A non-blocking call returns at once; a
// blocking call waits for timeout, or forever when timeout is 0.  The result
// is empty when nothing arrived or the line failed.
func (d *Driver) Receive(blocking bool, timeout time.Duration) Sequence {
	seq, _ := d.receive(blocking, timeout)
	return seq
}

func (d *Driver) receive(blocking bool, timeout time.Duration) (Sequence, error) {
	if timeout < 0 {
		panic(fmt.Sprintf("minitel: negative receive timeout %v", timeout))
	}
	empty := Sequence{mode: d.state.Mode}
	start := time.Now()
	for !d.line.Available() {
		if !blocking || (timeout > 0 && time.Since(start) > timeout) {
			return empty, nil
		}
		time.Sleep(d.opts.PollInterval)
	}
	b, err := d.line.Read(1)
	if err != nil {
		return empty, d.fail(err)
	}
	return NewSequenceFor(d.state.Mode, b), nil
}

// ReceiveSequence reads one complete keyboard or protocol sequence: a plain
// code, SS2 or SEP and their argument, a lone ESC, or an ESC sequence of up
// to four codes.
func (d *Driver) ReceiveSequence(blocking bool, timeout time.Duration) Sequence {
	seq := d.Receive(blocking, timeout)
	if seq.Len() == 0 {
		return seq
	}
	switch seq.At(0) {
	case SS2, SEP:
		seq.Append(d.Receive(true, 0))
	case ESC:
		// the Esc key sends ESC alone
		next := d.Receive(true, d.opts.EscapeTimeout)
		if next.Len() == 0 {
			break
		}
		seq.Append(next)
		if seq.Equal(CSI) {
			seq.Append(d.Receive(true, 0))
			if last, _ := seq.Last(); last == 0x32 || last == 0x34 {
				seq.Append(d.Receive(true, 0))
			}
		}
	}
	d.history.append(In, seq)
	return seq
}

// Call sends content then makes expected reads of one code, each allowed
// CallTimeout.  A read that times out does not end the call, so a short
// reply is returned as it stands only after every read was tried.
func (d *Driver) Call(content any, expected int) (Sequence, error) {
	reply := Sequence{mode: d.state.Mode}
	if err := d.Send(content); err != nil {
		return reply, err
	}
	for i := 0; i < expected; i++ {
		c, err := d.receive(true, d.opts.CallTimeout)
		if err != nil {
			return reply, err
		}
		reply.Append(c)
	}
	d.history.append(In, reply)
	return reply, nil
}

var probeSpeeds = []int{9600, 4800, 1200, 300}

func (d *Driver) reconfigure(baud int) error {
	if err := d.line.Configure(DefaultLineConfig(baud)); err != nil {
		return d.fail(err)
	}
	return nil
}

// DetectSpeed finds the rate the terminal is set to by asking for its status
// at each possible speed, fastest first.
func (d *Driver) DetectSpeed() (int, error) {
	for _, baud := range probeSpeeds {
		if err := d.reconfigure(baud); err != nil {
			return -1, err
		}
		reply, err := d.Call([]any{PRO1, proStatusTerm}, lenPRO2)
		if err != nil {
			return -1, err
		}
		if reply.Len() == lenPRO2 && reply.At(2) == repStatusTerm {
			d.state.Speed = baud
			d.log.Printf("terminal answered at %d bps", baud)
			return baud, nil
		}
		d.log.Printf("no status reply at %d bps", baud)
	}
	return -1, ErrSpeedNotFound
}

// Recover assumes the terminal is in TELEINFORMATIQUE mode, where it ignores
// protocol probes, and tries at each speed to bring it back to VIDEOTEX.
func (d *Driver) Recover() (int, error) {
	d.state.Mode = Teleinformatique
	for _, baud := range probeSpeeds {
		if err := d.reconfigure(baud); err != nil {
			return -1, err
		}
		reply, err := d.Call([]any{CSI, 0x3f, 0x7b}, 2)
		if err != nil {
			return -1, err
		}
		if reply.Equal([]any{SEP, 0x5e}) {
			d.state = LinkState{Speed: baud, Mode: Videotex}
			d.log.Printf("recovered VIDEOTEX mode at %d bps", baud)
			return baud, nil
		}
	}
	return -1, ErrSpeedNotFound
}

// Identify asks the terminal for its ROM identification and current mode.
// On a malformed reply the capability stays at BasicCapability.
func (d *Driver) Identify() error {
	d.capability = BasicCapability()
	reply, err := d.Call([]any{PRO1, proEnqROM}, 5)
	if err != nil {
		return err
	}
	if reply.Len() != 5 || reply.At(0) != SOH || reply.At(4) != EOT {
		d.log.Printf("bad identification reply [%v]", reply)
		return ErrIdentification
	}
	maker, kind, version := reply.At(1), reply.At(2), reply.At(3)

	capability := BasicCapability()
	if c, ok := terminalTypes[kind]; ok {
		capability = c
		capability.Manufacturer = "Unknown"
	}
	if name, ok := manufacturers[maker]; ok {
		capability.Manufacturer = name
	}
	capability.Version = version
	switch {
	case maker == 'B' && kind == 'v':
		capability.Manufacturer = "Philips"
	case maker == 'C' && (version == '4' || version == '5' || version == ';' || version == '<'):
		capability.Manufacturer = "Telic or Matra"
	}
	d.capability = capability
	d.log.Printf("identified %v", capability)

	reply, err = d.Call([]any{PRO1, proStatusFunc}, lenPRO2)
	if err != nil {
		return err
	}
	switch {
	case reply.Len() != lenPRO2:
		// only TELEINFORMATIQUE ignores a protocol command
		d.state.Mode = Teleinformatique
	case reply.At(3)&1 == 1:
		d.state.Mode = Mixte
	default:
		d.state.Mode = Videotex
	}
	d.log.Printf("terminal is in %v mode", d.state.Mode)
	return nil
}

type modeChange struct{ from, to Mode }

type modeCommand struct {
	command []any
	reply   int
	ack     []any
}

var modeCommands = map[modeChange]modeCommand{
	{Teleinformatique, Videotex}: {[]any{CSI, 0x3f, 0x7b}, 2, []any{SEP, 0x5e}},
	{Videotex, Mixte}:            {[]any{PRO2, proMixte1}, 2, []any{SEP, 0x70}},
	{Videotex, Teleinformatique}: {[]any{PRO2, proTeleinfo}, 4, []any{CSI, 0x3f, 0x7a}},
	{Mixte, Teleinformatique}:    {[]any{PRO2, proTeleinfo}, 4, []any{CSI, 0x3f, 0x7a}},
	{Mixte, Videotex}:            {[]any{PRO2, proMixte2}, 2, []any{SEP, 0x71}},
}

// SetMode switches the terminal to target.  The recorded mode only changes
// when the terminal acknowledges exactly.
func (d *Driver) SetMode(target Mode) error {
	if target < Videotex || target > Teleinformatique {
		return fmt.Errorf("%w: %v", ErrUnknownMode, target)
	}
	if target == d.state.Mode {
		return nil
	}
	// there is no direct command from TELEINFORMATIQUE to MIXTE
	if d.state.Mode == Teleinformatique && target == Mixte {
		if err := d.SetMode(Videotex); err != nil {
			return err
		}
	}
	cmd := modeCommands[modeChange{d.state.Mode, target}]
	reply, err := d.Call(cmd.command, cmd.reply)
	if err != nil {
		return err
	}
	if !reply.Equal(cmd.ack) {
		d.log.Printf("%v to %v not acknowledged [%v]", d.state.Mode, target, reply)
		return fmt.Errorf("%w: switching to %v", ErrNoAcknowledge, target)
	}
	d.log.Printf("mode %v -> %v", d.state.Mode, target)
	d.state.Mode = target
	return nil
}

var speedCodes = map[int]byte{
	300:  speed300,
	1200: speed1200,
	4800: speed4800,
	9600: speed9600,
}

// SetSpeed programs the terminal for baud then follows it on the line.
func (d *Driver) SetSpeed(baud int) error {
	if baud == d.state.Speed {
		return nil
	}
	code, ok := speedCodes[baud]
	if !ok {
		return fmt.Errorf("%w: %d bps", ErrUnsupportedSpeed, baud)
	}
	reply, err := d.Call([]any{PRO2, proProg, code}, lenPRO2)
	if err != nil {
		return err
	}
	// an acknowledgment readable at the old speed means the change was refused
	if reply.Len() == lenPRO2 && reply.At(2) == repStatusSpeed {
		d.log.Printf("%d bps refused", baud)
		return fmt.Errorf("%w: %d bps", ErrSpeedRejected, baud)
	}
	if err = d.reconfigure(baud); err != nil {
		return err
	}
	d.log.Printf("speed now %d bps", baud)
	d.state.Speed = baud
	return nil
}

func startStop(on bool) byte {
	if on {
		return proStart
	}
	return proStop
}

func (d *Driver) expectFull(command []any, length int) error {
	reply, err := d.Call(command, length)
	if err != nil {
		return err
	}
	if reply.Len() != length {
		return fmt.Errorf("%w: [%v]", ErrNoAcknowledge, NewSequence(command))
	}
	return nil
}

// ConfigureKeyboard sets the extended keyboard, the cursor keys and lower
// case input, stopping at the first command not acknowledged.
func (d *Driver) ConfigureKeyboard(extended, cursorKeys, lowercase bool) error {
	calls := []struct {
		command []any
		length  int
	}{
		{[]any{PRO3, startStop(extended), rcptKeyboard, optExtended}, lenPRO3},
		{[]any{PRO3, startStop(cursorKeys), rcptKeyboard, optC0}, lenPRO3},
		{[]any{PRO2, startStop(lowercase), optLowercase}, lenPRO2},
	}
	for _, c := range calls {
		if err := d.expectFull(c.command, c.length); err != nil {
			return err
		}
	}
	return nil
}

// Echo routes the keyboard to the screen, or not.
func (d *Driver) Echo(on bool) error {
	route := byte(proSwitchOff)
	if on {
		route = proSwitchOn
	}
	return d.expectFull([]any{PRO3, route, rcptModem, emitKeyboard}, lenPRO3)
}

// Scroll turns scrolling mode on or off.
func (d *Driver) Scroll(on bool) error {
	return d.expectFull([]any{PRO2, startStop(on), optScroll}, lenPRO2)
}
