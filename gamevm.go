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
	"os/signal"
	"runtime"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/gui/sdlplatform"
	"github.com/jetsetilly/gamevm/inspector"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/modalflag"
	"github.com/jetsetilly/gamevm/notifications"
	"github.com/jetsetilly/gamevm/paths"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/statsview"
	"github.com/jetsetilly/gamevm/vm"
)

const additionalHelp = `A guest program is a Starlark script that defines the functions setup(),
update(state, time, dt) and render(state). The script and every image and
sound it loads are reloaded when the file changes.

Press space to pause. While paused the frame history can be explored with the
keys listed in the overlay.

The exit status is 30 if the guest program could not be compiled or set up.`

// SDL requires that window events are handled by the main thread
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

// launch returns the value to be used with os.Exit()
func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "HEADLESS")
	md.AdditionalHelp(additionalHelp)

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, output)
	case "HEADLESS":
		err = runHeadless(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		if guestError(err) {
			return 30
		}
		return 20
	}

	return 0
}

// guestError returns true if the error was caused by the guest program rather
// than by the platform or the command line
func guestError(err error) bool {
	return curated.Has(err, guest.CompileError) || curated.Has(err, guest.SetupError)
}

// flags shared by all modes
type commonFlags struct {
	log      *bool
	seed     *uint64
	steps    *uint64
	compress *bool
	stats    *bool
	layout   *string
	memviz   *bool
}

func addCommonFlags(md *modalflag.Modes) commonFlags {
	return commonFlags{
		log:      md.AddBool("log", false, "echo debugging log to stdout"),
		seed:     md.AddUint64("seed", 0, "seed for the random number generator. zero chooses a seed"),
		steps:    md.AddUint64("steps", 0, "maximum interpreter steps for each call to the guest. zero uses the preference value"),
		compress: md.AddBool("compress", false, "compress the frame history"),
		stats:    md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address)),
		layout:   md.AddString("layout", "", "layout file for the state inspector"),
		memviz:   md.AddBool("memviz", false, "write a graphviz file of the guest state on exit (requires -layout)"),
	}
}

// setup applies the flags that do not depend on the VM. the layout will be
// nil if no layout file has been specified.
func (f commonFlags) setup(output io.Writer) (*inspector.Layout, error) {
	if *f.log {
		logger.SetEcho(output)
	} else {
		logger.SetEcho(nil)
	}

	if *f.stats {
		statsview.Launch(output)
	}

	if *f.layout == "" {
		if *f.memviz {
			return nil, fmt.Errorf("-memviz requires -layout")
		}
		return nil, nil
	}

	return inspector.LoadLayout(*f.layout)
}

func (f commonFlags) options() vm.Options {
	return vm.Options{
		Seed:      *f.seed,
		StepLimit: *f.steps,
		Compress:  *f.compress,
	}
}

// preferences are loaded from disk but flags that have been set on the
// command line take priority. preferences are not saved.
func (f commonFlags) preferences(v *vm.VM) {
	prefs, err := vm.NewPreferences(v)
	if err != nil {
		logger.Logf(logger.Allow, "gamevm", "preferences: %v", err)
		return
	}
	if *f.steps != 0 {
		if err := prefs.StepLimit.Set(int(*f.steps)); err != nil {
			logger.Logf(logger.Allow, "gamevm", "preferences: %v", err)
		}
	}
	if *f.compress {
		if err := prefs.Rewind.Compress.Set(true); err != nil {
			logger.Logf(logger.Allow, "gamevm", "preferences: %v", err)
		}
	}
}

// finish writes the graphviz file of the guest state if it has been requested
func (f commonFlags) finish(v *vm.VM, layout *inspector.Layout, source string, output io.Writer) error {
	if !*f.memviz || layout == nil {
		return nil
	}

	n, err := layout.Inspect("state", v.StateBytes())
	if err != nil {
		return err
	}

	fn := fmt.Sprintf("%s.dot", paths.UniqueFilename("memviz", source))
	w, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer w.Close()

	inspector.Dump(w, n)
	fmt.Fprintf(output, "guest state written to %s\n", fn)

	return nil
}

// interruptible stops the VM when an interrupt signal is received
type interruptible struct {
	platform.Platform
	sig chan os.Signal
}

func newInterruptible(plt platform.Platform) *interruptible {
	p := &interruptible{
		Platform: plt,
		sig:      make(chan os.Signal, 1),
	}
	signal.Notify(p.sig, os.Interrupt)
	return p
}

func (p *interruptible) PollEvents(input *platform.InputState) bool {
	select {
	case <-p.sig:
		return false
	default:
	}
	return p.Platform.PollEvents(input)
}

func (p *interruptible) stop() {
	signal.Stop(p.sig)
}

// noticeLog records VM notifications in the log
type noticeLog struct{}

func (noticeLog) Notify(notice notifications.Notice) error {
	logger.Log(logger.Allow, "gamevm", notice)
	return nil
}

func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	f := addCommonFlags(md)

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

	plt, err := sdlplatform.NewPlatform()
	if err != nil {
		return err
	}
	defer plt.Destroy()

	intr := newInterruptible(plt)
	defer intr.stop()

	var v *vm.VM

	opts := f.options()
	opts.Notify = noticeLog{}
	opts.DebugUI = sdlplatform.NewOverlay(plt, layout, func() []byte {
		return v.StateBytes()
	})

	v = vm.NewVM(intr, plt, plt, opts)
	f.preferences(v)

	err = v.Init(source)
	if err != nil {
		return err
	}

	v.Run()

	if err := plt.Prefs.Save(); err != nil {
		logger.Logf(logger.Allow, "gamevm", "preferences: %v", err)
	}

	return f.finish(v, layout, source, output)
}
