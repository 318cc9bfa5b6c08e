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

// This file implements a small send/expect scripting language for driving
// a Minitel unattended.

package minitel

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"
)

// RunScript executes the script read from r, one command per line:
//
//	# comment
//	send "text"     (\r and \n are CR and LF)
//	expect "text"   wait until the terminal has sent text
//	key NAME        wait for a function key, eg. envoi
//	pause MS
//	mode NAME       VIDEOTEX, MIXTE or TELEINFORMATIQUE
//	speed BPS
//	clear
//	beep
//	exit
//
// trace, when not nil, receives a line per command.
func RunScript(d *Driver, r io.Reader, trace *log.Logger) error {
	if trace == nil {
		trace = log.New(io.Discard, "", 0)
	}
	scanner := bufio.NewScanner(r)
	lineNo := 0
scriptLoop:
	for scanner.Scan() {
		lineNo++
		scriptLine := strings.TrimSpace(scanner.Text())
		if len(scriptLine) == 0 || scriptLine[0] == '#' {
			continue
		}
		trace.Printf("script line %d <%s>", lineNo, scriptLine)
		verb, arg, _ := strings.Cut(scriptLine, " ")
		arg = strings.TrimSpace(arg)
		var err error
		switch verb {
		case "send":
			var text string
			if text, err = quoted(arg); err == nil {
				err = d.Send(text)
			}
		case "expect":
			var text string
			if text, err = quoted(arg); err == nil {
				err = expect(d, text, trace)
			}
		case "key":
			err = waitKey(d, strings.ToLower(arg), trace)
		case "pause":
			var ms int
			if ms, err = strconv.Atoi(arg); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "mode":
			var mode Mode
			if mode, err = ParseMode(arg); err == nil {
				err = d.SetMode(mode)
			}
		case "speed":
			var baud int
			if baud, err = strconv.Atoi(arg); err == nil {
				err = d.SetSpeed(baud)
			}
		case "clear":
			err = d.Clear(ClearAll)
		case "beep":
			err = d.Beep()
		case "exit":
			trace.Printf("exiting script")
			break scriptLoop
		default:
			err = fmt.Errorf("unknown command %q", verb)
		}
		if err != nil {
			return fmt.Errorf("script line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func quoted(arg string) (string, error) {
	parts := strings.Split(arg, "\"")
	if len(parts) < 3 {
		return "", fmt.Errorf("missing quoted text in %q", arg)
	}
	return strings.NewReplacer(`\r`, "\r", `\n`, "\n").Replace(parts[1]), nil
}

// expect reads until the input since the last CR ends with text.
func expect(d *Driver, text string, trace *log.Logger) error {
	want := NewSequenceFor(d.Mode(), text)
	got := NewSequenceFor(d.Mode())
	for {
		seq := d.ReceiveSequence(true, 0)
		if seq.Len() == 0 {
			return fmt.Errorf("line failed while expecting %q: %w", text, d.Err())
		}
		if seq.Equal(CR) {
			got = NewSequenceFor(d.Mode())
			continue
		}
		got.Append(seq)
		if got.HasSuffix(want) {
			trace.Printf("found expected <%s>", text)
			return nil
		}
	}
}

func waitKey(d *Driver, name string, trace *log.Logger) error {
	if _, ok := KeyNames[name]; !ok {
		return fmt.Errorf("unknown key %q", name)
	}
	for {
		seq := d.ReceiveSequence(true, 0)
		if seq.Len() == 0 {
			return fmt.Errorf("line failed while waiting for %s: %w", name, d.Err())
		}
		if KeyName(seq) == name {
			trace.Printf("got key %s", name)
			return nil
		}
	}
}
