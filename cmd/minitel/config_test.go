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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SMerrony/minitel"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	t.Setenv(deviceEnv, "")
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, minitel.Options{}, cfg.options())
}

func TestLoadTOML(t *testing.T) {
	t.Setenv(deviceEnv, "")
	path := writeFile(t, "minitel.toml", `
device = "/dev/ttyS1"
backend = "tarm"
speed = 4800
mode = "mixte"
call_timeout_ms = 250
history = 64

[keyboard]
extended = true
lowercase = true
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyS1", cfg.Device)
	assert.Equal(t, "tarm", cfg.Backend)
	assert.Equal(t, 4800, cfg.Speed)
	assert.Equal(t, "mixte", cfg.Mode)
	assert.True(t, cfg.Keyboard.Extended)
	assert.False(t, cfg.Keyboard.Cursor)
	assert.True(t, cfg.Keyboard.Lowercase)

	opts := cfg.options()
	assert.Equal(t, 250*time.Millisecond, opts.CallTimeout)
	assert.Zero(t, opts.EscapeTimeout)
	assert.Equal(t, 64, opts.HistorySize)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv(deviceEnv, "")
	path := writeFile(t, "minitel.yml", `
device: /dev/ttyACM0
escape_timeout_ms: 50
keyboard:
  cursor: true
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, "sers", cfg.Backend)
	assert.True(t, cfg.Keyboard.Cursor)
	assert.Equal(t, 50*time.Millisecond, cfg.options().EscapeTimeout)
}

func TestDeviceFromEnvironment(t *testing.T) {
	path := writeFile(t, "minitel.toml", `device = "/dev/ttyS1"`)
	t.Setenv(deviceEnv, "/dev/ttyUSB3")
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Device)
}

func TestConfigErrors(t *testing.T) {
	t.Setenv(deviceEnv, "")
	tests := []struct {
		name, file, content, want string
	}{
		{"extension", "minitel.ini", "device=x", "unknown format"},
		{"backend", "minitel.toml", `backend = "usb"`, "unknown backend"},
		{"mode", "minitel.yaml", "mode: plaid", "unknown mode"},
		{"negative", "minitel.toml", "history = -1", "must not be negative"},
		{"syntax", "minitel.toml", "device = ", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(writeFile(t, tt.file, tt.content))
			if err == nil {
				err = cfg.validate()
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestFlagsOverrideFileBeforeValidation(t *testing.T) {
	t.Setenv(deviceEnv, "")
	savedConfig, savedBackend, savedHistory := configFlag, backendFlag, historyFlag
	t.Cleanup(func() {
		configFlag, backendFlag, historyFlag = savedConfig, savedBackend, savedHistory
	})
	configFlag = writeFile(t, "minitel.toml", "backend = \"usb\"\nhistory = 8\n")

	flags := pflag.NewFlagSet("minitel", pflag.ContinueOnError)
	flags.StringVar(&backendFlag, "backend", "sers", "")
	flags.IntVar(&historyFlag, "history", 0, "")
	require.NoError(t, flags.Parse([]string{"--backend", "tarm"}))

	cfg, err := resolveConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "tarm", cfg.Backend)
	assert.Equal(t, 8, cfg.History)

	// without the flag the file's backend is rejected
	flags = pflag.NewFlagSet("minitel", pflag.ContinueOnError)
	_, err = resolveConfig(flags)
	assert.ErrorContains(t, err, "unknown backend")
}
