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
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SMerrony/minitel"
)

const (
	appTitle     = "minitel"
	appCopyright = "Copyright ©2026 S.Merrony"
	appSemVer    = "0.1.0"
)

var (
	cfg    config
	logger = log.New(io.Discard, "", 0)

	configFlag  string
	deviceFlag  string
	backendFlag string
	verboseFlag bool
	historyFlag int
)

var rootCmd = &cobra.Command{
	Use:     appTitle,
	Short:   "Drive a Minitel over a serial line",
	Long:    `minitel probes, configures and drives a Minitel videotex terminal connected to a serial port.`,
	Version: appSemVer,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = resolveConfig(cmd.Flags()); err != nil {
			return err
		}
		if verboseFlag {
			logger = log.New(os.Stderr, "minitel: ", log.LstdFlags)
		}
		return nil
	},
}

// resolveConfig layers the flags set on the command line over the config
// file and environment, then validates the result.
func resolveConfig(flags *pflag.FlagSet) (config, error) {
	c, err := loadConfig(configFlag)
	if err != nil {
		return c, err
	}
	if flags.Changed("device") {
		c.Device = deviceFlag
	}
	if flags.Changed("backend") {
		c.Backend = backendFlag
	}
	if flags.Changed("history") {
		c.History = historyFlag
	}
	return c, c.validate()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version %s\n%s\n", appTitle, appSemVer, appCopyright))
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (.toml, .yaml or .yml)")
	pf.StringVar(&deviceFlag, "device", "", "serial device the Minitel is connected to")
	pf.StringVar(&backendFlag, "backend", "sers", "serial driver: sers or tarm")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "log the negotiation on stderr")
	pf.IntVar(&historyFlag, "history", 0, "dump the last N exchanges on stderr at exit")

	rootCmd.AddCommand(probeCmd, setupCmd, keysCmd, formCmd, glyphsCmd, scriptCmd)
}

// withDriver opens the configured device, runs fn and closes the device,
// dumping the traffic history if one was kept.
func withDriver(fn func(d *minitel.Driver) error) error {
	opts := cfg.options()
	opts.Logger = logger
	d, err := minitel.Open(cfg.Device, cfg.Backend, opts)
	if err != nil {
		return err
	}
	defer d.Close()
	err = fn(d)
	if h := d.History(); h != nil {
		h.Dump(os.Stderr)
	}
	return err
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func newTraceLogger() *log.Logger {
	return log.New(os.Stderr, "script: ", log.Ltime|log.Lmicroseconds)
}
