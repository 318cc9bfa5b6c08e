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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SMerrony/minitel"
	"github.com/SMerrony/minitel/ui"
)

var (
	speedFlag     int
	modeFlag      string
	extendedFlag  bool
	cursorFlag    bool
	lowercaseFlag bool
	fromFlag      string
	setFlag       string
	traceFlag     bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Find the terminal's speed, model and mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d *minitel.Driver) error {
			if err := probe(d); err != nil {
				return err
			}
			fmt.Println(d.Capability())
			fmt.Println(d.State())
			return nil
		})
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Probe the terminal then set its speed, mode and keyboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("speed") {
			cfg.Speed = speedFlag
		}
		if flags.Changed("mode") {
			cfg.Mode = modeFlag
		}
		if flags.Changed("extended") {
			cfg.Keyboard.Extended = extendedFlag
		}
		if flags.Changed("cursor") {
			cfg.Keyboard.Cursor = cursorFlag
		}
		if flags.Changed("lowercase") {
			cfg.Keyboard.Lowercase = lowercaseFlag
		}
		return withDriver(setup)
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show each key sequence typed on the terminal until CONNEXION/FIN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(func(d *minitel.Driver) error {
			for {
				seq := d.ReceiveSequence(true, 0)
				if seq.Len() == 0 {
					return d.Err()
				}
				name := minitel.KeyName(seq)
				fmt.Printf("%-12s %s\n", seq, name)
				if name == "connexion" {
					return nil
				}
			}
		})
	},
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Run a demonstration form on the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDriver(runForm)
	},
}

var glyphsCmd = &cobra.Command{
	Use:   "glyphs FILE.bdf",
	Short: "Upload the glyphs of a BDF font to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := minitel.ParseCharSet(setFlag)
		if err != nil {
			return err
		}
		if len(fromFlag) != 1 {
			return fmt.Errorf("--from must be a single character")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		font, err := minitel.LoadBDF(f)
		if err != nil {
			return err
		}
		// upload the run of consecutive characters starting at --from
		var glyphs []minitel.Glyph
		for c := rune(fromFlag[0]); c < 0x80; c++ {
			g, ok := font[c]
			if !ok {
				break
			}
			glyphs = append(glyphs, g)
		}
		if len(glyphs) == 0 {
			return fmt.Errorf("%s has no glyph for %q", args[0], fromFlag)
		}
		return withDriver(func(d *minitel.Driver) error {
			logger.Printf("uploading %d glyphs from %q", len(glyphs), fromFlag)
			return d.RedefineGlyphs(fromFlag[0], glyphs, set)
		})
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script FILE",
	Short: "Run a send/expect script against the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return withDriver(func(d *minitel.Driver) error {
			trace := logger
			if traceFlag {
				trace = newTraceLogger()
			}
			return minitel.RunScript(d, f, trace)
		})
	},
}

func init() {
	sf := setupCmd.Flags()
	sf.IntVar(&speedFlag, "speed", 0, "speed to set, default the terminal's maximum")
	sf.StringVar(&modeFlag, "mode", "", "mode to set: VIDEOTEX, MIXTE or TELEINFORMATIQUE")
	sf.BoolVar(&extendedFlag, "extended", false, "extended keyboard")
	sf.BoolVar(&cursorFlag, "cursor", false, "cursor keys")
	sf.BoolVar(&lowercaseFlag, "lowercase", false, "lower case without shift")

	glyphsCmd.Flags().StringVar(&fromFlag, "from", "a", "first character redefined")
	glyphsCmd.Flags().StringVar(&setFlag, "set", "G0", "character set: G0 or G1")

	scriptCmd.Flags().BoolVar(&traceFlag, "trace", false, "print a trace of the script on stderr")
}

// probe finds the speed, bringing the terminal back from TELEINFORMATIQUE
// if it does not answer, then identifies it.
func probe(d *minitel.Driver) error {
	if _, err := d.DetectSpeed(); err != nil {
		if !errors.Is(err, minitel.ErrSpeedNotFound) {
			return err
		}
		if _, err = d.Recover(); err != nil {
			return err
		}
	}
	return d.Identify()
}

func setup(d *minitel.Driver) error {
	if err := probe(d); err != nil {
		return err
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = d.Capability().MaxSpeed
	}
	if err := d.SetSpeed(speed); err != nil {
		return err
	}
	if cfg.Mode != "" {
		mode, err := minitel.ParseMode(cfg.Mode)
		if err != nil {
			return err
		}
		if err = d.SetMode(mode); err != nil {
			return err
		}
	}
	kb := cfg.Keyboard
	if err := d.ConfigureKeyboard(kb.Extended, kb.Cursor, kb.Lowercase); err != nil {
		return err
	}
	if err := d.Echo(false); err != nil {
		return err
	}
	fmt.Println(d.State())
	return nil
}

func runForm(d *minitel.Driver) error {
	if err := d.Clear(minitel.ClearEverything); err != nil {
		return err
	}
	form := ui.NewContainer(d, 1, 1, 40, 24, minitel.White, minitel.Blue)
	form.Add(ui.NewLabel(d, 2, 2, "Identification", minitel.Yellow))
	form.Add(ui.NewLabel(d, 2, 5, "Nom :", minitel.NoColor))
	name := ui.NewTextField(d, 14, 5, 20, 40, minitel.NoColor)
	form.Add(name)
	form.Add(ui.NewLabel(d, 2, 7, "Mot de passe :", minitel.NoColor))
	password := ui.NewTextField(d, 17, 7, 10, 0, minitel.NoColor)
	password.Masked = true
	form.Add(password)
	menu := ui.NewMenu(d, []string{"Consulter", "Modifier", ui.Separator, "Quitter"}, 2, 10, 0, minitel.Cyan, true)
	form.Add(menu)
	form.Add(ui.NewLabel(d, 2, 23, "SUITE/RETOUR pour changer de champ", minitel.Green))
	if err := form.Render(); err != nil {
		return err
	}
	if err := ui.Run(form); err != nil {
		return err
	}
	d.Cursor(false)
	fmt.Printf("name=%q password=%d characters choice=%q\n", name.Value(), len(password.Value()), menu.Selected())
	return d.Err()
}
