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
	"sync"
)

// Direction of an Exchange.
type Direction int

const (
	Out Direction = iota // host to terminal
	In                   // terminal to host
)

func (d Direction) String() string {
	if d == In {
		return "<-"
	}
	return "->"
}

// Exchange is one recorded burst of traffic.
type Exchange struct {
	Dir   Direction
	Codes Sequence
}

// History is a bounded ring of the most recent exchanges.
type History struct {
	mutex     sync.RWMutex
	exchanges []Exchange
	first     int
	count     int
}

// NewHistory keeps at most size exchanges; size must be positive.
func NewHistory(size int) *History {
	if size <= 0 {
		panic(fmt.Sprintf("minitel: history size %d must be positive", size))
	}
	return &History{exchanges: make([]Exchange, size)}
}

func (h *History) append(dir Direction, codes Sequence) {
	if h == nil || codes.Len() == 0 {
		return
	}
	h.mutex.Lock()
	last := (h.first + h.count) % len(h.exchanges)
	h.exchanges[last] = Exchange{Dir: dir, Codes: codes}
	if h.count == len(h.exchanges) {
		// full: the oldest entry has just been overwritten
		h.first = (h.first + 1) % len(h.exchanges)
	} else {
		h.count++
	}
	h.mutex.Unlock()
}

// Entries returns the recorded exchanges, oldest first.
func (h *History) Entries() []Exchange {
	if h == nil {
		return nil
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	out := make([]Exchange, 0, h.count)
	for i := 0; i < h.count; i++ {
		out = append(out, h.exchanges[(h.first+i)%len(h.exchanges)])
	}
	return out
}

// Dump writes one line per exchange.
func (h *History) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "   *** Start of History ***"); err != nil {
		return err
	}
	for _, e := range h.Entries() {
		if _, err := fmt.Fprintf(w, "%v %v\n", e.Dir, e.Codes); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "   *** End of History ***")
	return err
}
