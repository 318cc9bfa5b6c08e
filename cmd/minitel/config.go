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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/SMerrony/minitel"
)

// deviceEnv overrides the device named in the config file.
const deviceEnv = "MINITEL_DEVICE"

type keyboardConfig struct {
	Extended  bool `toml:"extended" yaml:"extended"`
	Cursor    bool `toml:"cursor" yaml:"cursor"`
	Lowercase bool `toml:"lowercase" yaml:"lowercase"`
}

// config is what a config file may hold.  Flags given on the command line
// take precedence.
type config struct {
	Device          string         `toml:"device" yaml:"device"`
	Backend         string         `toml:"backend" yaml:"backend"`
	Speed           int            `toml:"speed" yaml:"speed"`
	Mode            string         `toml:"mode" yaml:"mode"`
	Keyboard        keyboardConfig `toml:"keyboard" yaml:"keyboard"`
	CallTimeoutMs   int            `toml:"call_timeout_ms" yaml:"call_timeout_ms"`
	EscapeTimeoutMs int            `toml:"escape_timeout_ms" yaml:"escape_timeout_ms"`
	History         int            `toml:"history" yaml:"history"`
}

func defaultConfig() config {
	return config{
		Device:  "/dev/ttyUSB0",
		Backend: "sers",
	}
}

// loadConfig reads path, TOML or YAML according to its extension, over the
// defaults.  An empty path gives the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			err = toml.Unmarshal(data, &cfg)
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &cfg)
		default:
			return cfg, fmt.Errorf("config file %s: unknown format, want .toml, .yaml or .yml", path)
		}
		if err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if dev := os.Getenv(deviceEnv); dev != "" {
		cfg.Device = dev
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Backend {
	case "sers", "tarm":
	default:
		return fmt.Errorf("unknown backend %q, want sers or tarm", c.Backend)
	}
	if c.Mode != "" {
		if _, err := minitel.ParseMode(c.Mode); err != nil {
			return err
		}
	}
	if c.CallTimeoutMs < 0 || c.EscapeTimeoutMs < 0 || c.History < 0 {
		return fmt.Errorf("timeouts and history size must not be negative")
	}
	return nil
}

func (c config) options() minitel.Options {
	return minitel.Options{
		CallTimeout:   time.Duration(c.CallTimeoutMs) * time.Millisecond,
		EscapeTimeout: time.Duration(c.EscapeTimeoutMs) * time.Millisecond,
		HistorySize:   c.History,
	}
}
