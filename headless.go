// This file is part of Gamevm.
//
// Gamevm is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gamevm is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gamevm.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jetsetilly/gamevm/inspector"
	"github.com/jetsetilly/gamevm/modalflag"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/platform/headless"
	"github.com/jetsetilly/gamevm/terminal"
	"github.com/jetsetilly/gamevm/vm"
	"github.com/jetsetilly/gamevm/wavwriter"
)

// keyboard feeds key presses from the terminal to the headless platform. the
// escape key quits.
type keyboard struct {
	*headless.Headless
	keys   <-chan byte
	ticker *time.Ticker
}

func (kb *keyboard) PollEvents(input *platform.InputState) bool {
	<-kb.ticker.C

	if kb.Pending() == 0 {
		select {
		case b, ok := <-kb.keys:
			if !ok {
				kb.Quit()
				break
			}
			k, ok := terminal.KeyName(b)
			if !ok {
				kb.Queue(headless.Frame{})
				break
			}
			if k.Name == "escape" {
				kb.Quit()
				break
			}
			kb.Queue(headless.Frame{Hold: k.Modifiers(), Tap: []string{k.Name}})
		default:
			kb.Queue(headless.Frame{})
		}
	}

	return kb.Headless.PollEvents(input)
}

// statusLine prints the status of the VM whenever it changes
type statusLine struct {
	print func(s string, a ...any)
	prev  string
}

func (sl *statusLine) Draw(st vm.Status) (uint32, bool) {
	s := st.String()
	if s != sl.prev {
		sl.prev = s
		sl.print("%s\n", s)
	}
	return 0, false
}

func runHeadless(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	f := addCommonFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run. zero means run until interrupted")
	keys := md.AddBool("keys", true, "read key presses from the terminal. escape quits")
	wav := md.AddString("wav", "", "record the sounds played by the guest program to a WAV file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("a guest program is required for %s mode", md)
	}
	source := md.GetArg(0)

	layout, err := f.setup(output)
	if err != nil {
		return err
	}

	hl := headless.NewHeadless()
	hl.Limit = *frames

	var plt platform.Platform = hl
	opts := f.options()
	opts.Notify = noticeLog{}

	if *keys {
		term, err := terminal.NewTerminal(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		if err := term.CBreakMode(); err != nil {
			return err
		}
		defer term.CanonicalMode()
		_ = term.Flush()

		ticker := time.NewTicker(time.Duration(hl.Step * float64(time.Second)))
		defer ticker.Stop()

		plt = &keyboard{
			Headless: hl,
			keys:     term.Start(),
			ticker:   ticker,
		}
		opts.DebugUI = &statusLine{print: term.Print}
	}

	intr := newInterruptible(plt)
	defer intr.stop()

	var aud platform.Audio = hl
	var aw *wavwriter.WavWriter
	if *wav != "" {
		aw = wavwriter.New(*wav, hl, hl.Time)
		aud = aw
	}

	v := vm.NewVM(intr, hl, aud, opts)
	f.preferences(v)

	err = v.Init(source)
	if err != nil {
		return err
	}

	v.Run()

	if aw != nil {
		if err := aw.Write(); err != nil {
			return err
		}
	}

	fmt.Fprintf(output, "%s\n", v.Status())
	if err := report(output, layout, v.StateBytes()); err != nil {
		return err
	}

	return f.finish(v, layout, source, output)
}

// report writes the guest state as described by the layout
func report(output io.Writer, layout *inspector.Layout, state []byte) error {
	if layout == nil || state == nil {
		return nil
	}
	n, err := layout.Inspect("state", state)
	if err != nil {
		return err
	}
	return n.Write(output)
}
