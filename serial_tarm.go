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
	"io"
	"time"

	"github.com/tarm/serial"
)

// tarmPollTimeout is the shortest read timeout tarm can express.
const tarmPollTimeout = 100 * time.Millisecond

// OpenTarm opens device at 1200 bps 7E1 using the tarm driver, for platforms
// sers does not support.  Each reconfiguration closes and reopens the port.
func OpenTarm(device string) (Line, error) {
	return newPollingLine(device, func(cfg LineConfig) (io.ReadWriteCloser, error) {
		c := &serial.Config{
			Name:        device,
			Baud:        cfg.Baud,
			Size:        byte(cfg.DataBits),
			Parity:      serial.Parity(cfg.Parity),
			StopBits:    serial.Stop1,
			ReadTimeout: tarmPollTimeout,
		}
		if cfg.StopBits == 2 {
			c.StopBits = serial.Stop2
		}
		return serial.OpenPort(c)
	})
}
