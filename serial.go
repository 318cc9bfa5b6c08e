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
	"errors"
	"fmt"
	"io"

	"github.com/distributed/sers"
)

// Parity of the serial framing.
type Parity byte

const (
	ParityNone Parity = 'N'
	ParityEven Parity = 'E'
	ParityOdd  Parity = 'O'
)

// LineConfig describes the framing of the serial line.  Lines never block,
// so timeouts belong to the Driver.
type LineConfig struct {
	Baud     int
	DataBits int
	Parity   Parity
	StopBits int
}

// DefaultLineConfig is the Minitel's 7E1 framing at the given rate.
func DefaultLineConfig(baud int) LineConfig {
	return LineConfig{
		Baud:     baud,
		DataBits: 7,
		Parity:   ParityEven,
		StopBits: 1,
	}
}

func (c LineConfig) String() string {
	return fmt.Sprintf("%d %d%c%d", c.Baud, c.DataBits, c.Parity, c.StopBits)
}

// A Line is the byte transport between the driver and the terminal.
// Configure replaces any existing connection with a new one using cfg.
// Read never blocks: it returns whatever is buffered, at most max bytes.
// Available reports whether a Read would return data or an error.
type Line interface {
	Configure(cfg LineConfig) error
	Available() bool
	Read(max int) ([]byte, error)
	Write(p []byte) error
	Close() error
}

type portOpener func(cfg LineConfig) (io.ReadWriteCloser, error)

// pollingLine adapts a serial port whose reads return immediately into a
// Line, keeping what a poll has already read until it is consumed.
type pollingLine struct {
	device string
	open   portOpener
	port   io.ReadWriteCloser
	cfg    LineConfig
	ahead  []byte
	err    error
	buf    [64]byte
}

func newPollingLine(device string, open portOpener) (*pollingLine, error) {
	p := &pollingLine{device: device, open: open}
	if err := p.Configure(DefaultLineConfig(1200)); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pollingLine) Configure(cfg LineConfig) error {
	if p.port != nil && cfg == p.cfg {
		return nil
	}
	if p.port != nil {
		p.port.Close()
		p.port = nil
	}
	p.ahead = p.ahead[:0]
	p.err = nil
	port, err := p.open(cfg)
	if err != nil {
		return fmt.Errorf("opening %s at %v: %w", p.device, cfg, err)
	}
	p.port = port
	p.cfg = cfg
	return nil
}

// fill polls the port when nothing is buffered.  A failed poll is kept so
// that Available reports it and the next Read returns it.
func (p *pollingLine) fill() {
	if len(p.ahead) > 0 || p.err != nil {
		return
	}
	if p.port == nil {
		p.err = ErrClosed
		return
	}
	n, err := p.port.Read(p.buf[:])
	if n > 0 {
		p.ahead = append(p.ahead, p.buf[:n]...)
	}
	// an empty poll is reported as EOF by some drivers
	if err != nil && !(n == 0 && errors.Is(err, io.EOF)) {
		p.err = fmt.Errorf("reading %s: %w", p.device, err)
	}
}

func (p *pollingLine) Available() bool {
	p.fill()
	return len(p.ahead) > 0 || p.err != nil
}

func (p *pollingLine) Read(max int) ([]byte, error) {
	p.fill()
	if len(p.ahead) == 0 && p.err != nil {
		err := p.err
		p.err = nil
		return nil, err
	}
	n := min(max, len(p.ahead))
	out := append([]byte(nil), p.ahead[:n]...)
	p.ahead = p.ahead[n:]
	return out, nil
}

func (p *pollingLine) Write(b []byte) error {
	if p.port == nil {
		return ErrClosed
	}
	if _, err := p.port.Write(b); err != nil {
		return fmt.Errorf("writing %s: %w", p.device, err)
	}
	return nil
}

func (p *pollingLine) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// OpenSers opens device at 1200 bps 7E1 using the sers driver.
func OpenSers(device string) (Line, error) {
	return newPollingLine(device, func(cfg LineConfig) (io.ReadWriteCloser, error) {
		port, err := sers.Open(device)
		if err != nil {
			return nil, err
		}
		parity := sers.N
		switch cfg.Parity {
		case ParityEven:
			parity = sers.E
		case ParityOdd:
			parity = sers.O
		}
		if err = port.SetMode(cfg.Baud, cfg.DataBits, parity, cfg.StopBits, sers.NO_HANDSHAKE); err != nil {
			port.Close()
			return nil, err
		}
		// no minimum, no timeout: reads return at once
		if err = port.SetReadParams(0, 0); err != nil {
			port.Close()
			return nil, err
		}
		return port, nil
	})
}
