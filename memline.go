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

// MemoryLine is a Line held in memory.  Bytes given to Feed are what the
// terminal "sends"; everything written is kept for inspection.
type MemoryLine struct {
	// OnWrite, when set, is called after every Write with the bytes written.
	// It may Feed a reply.
	OnWrite func(m *MemoryLine, p []byte)

	input   []byte
	output  []byte
	cfg     LineConfig
	configs []LineConfig
	closed  bool
}

// NewMemoryLine returns an open MemoryLine configured at 1200 bps 7E1.
func NewMemoryLine() *MemoryLine {
	return &MemoryLine{cfg: DefaultLineConfig(1200)}
}

func (m *MemoryLine) Configure(cfg LineConfig) error {
	if m.closed {
		return ErrClosed
	}
	m.cfg = cfg
	m.configs = append(m.configs, cfg)
	return nil
}

// Available is also true once the line is closed, so that Read reports it.
func (m *MemoryLine) Available() bool { return len(m.input) > 0 || m.closed }

func (m *MemoryLine) Read(max int) ([]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}
	n := min(max, len(m.input))
	out := append([]byte(nil), m.input[:n]...)
	m.input = m.input[n:]
	return out, nil
}

func (m *MemoryLine) Write(p []byte) error {
	if m.closed {
		return ErrClosed
	}
	m.output = append(m.output, p...)
	if m.OnWrite != nil {
		m.OnWrite(m, p)
	}
	return nil
}

func (m *MemoryLine) Close() error {
	m.closed = true
	return nil
}

// Feed queues input as if the terminal had sent it.  values are converted as
// Sequence.Append converts them.
func (m *MemoryLine) Feed(values ...any) {
	m.input = append(m.input, NewSequence(values...).Bytes()...)
}

// Written returns everything written since the last Reset.
func (m *MemoryLine) Written() Sequence {
	return NewSequence(m.output)
}

// Reset forgets what has been written.
func (m *MemoryLine) Reset() { m.output = m.output[:0] }

// Config is the configuration currently applied.
func (m *MemoryLine) Config() LineConfig { return m.cfg }

// Configurations lists every configuration applied, in order.
func (m *MemoryLine) Configurations() []LineConfig { return m.configs }
