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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/sound"
	"github.com/jetsetilly/gamevm/test"
	"github.com/jetsetilly/gamevm/vm"
)

const counterGame = `
def setup():
    return allocate(8)

def update(s, t, dt):
    s.set_u32(0, s.u32(0) + 1)

def render(s):
    pass
`

const counterLayout = `
root = "Counter"

[[type]]
name = "Counter"
fields = [
  { name = "ticks", type = "u32" },
  { name = "spare", type = "u32" },
]
`

func writeTemp(t *testing.T, name string, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(fn, []byte(content), 0600)
	test.DemandSuccess(t, err)
	return fn
}

func TestHelp(t *testing.T) {
	tw := &test.CompareWriter{}
	test.ExpectEquality(t, launch([]string{"-help"}, tw), 0)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "RUN"))
	test.ExpectSuccess(t, strings.Contains(tw.String(), "HEADLESS"))
}

func TestUnknownFlag(t *testing.T) {
	tw := &test.CompareWriter{}
	test.ExpectEquality(t, launch([]string{"-nosuchflag"}, tw), 10)
}

func TestHeadless(t *testing.T) {
	source := writeTemp(t, "counter.star", counterGame)
	layout := writeTemp(t, "counter.toml", counterLayout)

	tw := &test.CompareWriter{}
	ret := launch([]string{"HEADLESS", "-keys=false", "-frames", "5", "-seed", "1", "-layout", layout, source}, tw)
	test.ExpectEquality(t, ret, 0)

	out := tw.String()
	test.ExpectSuccess(t, strings.Contains(out, "advance: frame 5/5"))
	test.ExpectSuccess(t, strings.Contains(out, "(u32) ticks: 5"))
}

func TestHeadlessMissingGuest(t *testing.T) {
	tw := &test.CompareWriter{}
	source := filepath.Join(t.TempDir(), "missing.star")
	ret := launch([]string{"HEADLESS", "-keys=false", "-frames", "5", source}, tw)
	test.ExpectEquality(t, ret, 30)
}

func TestHeadlessGuestErrors(t *testing.T) {
	tw := &test.CompareWriter{}
	source := writeTemp(t, "syntax.star", "def setup(:\n")
	ret := launch([]string{"HEADLESS", "-keys=false", "-frames", "5", source}, tw)
	test.ExpectEquality(t, ret, 30)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "guest: compile"))

	tw = &test.CompareWriter{}
	source = writeTemp(t, "setup.star", strings.Replace(counterGame, "return allocate(8)", "return allocate(-1)", 1))
	ret = launch([]string{"HEADLESS", "-keys=false", "-frames", "5", source}, tw)
	test.ExpectEquality(t, ret, 30)
	test.ExpectSuccess(t, strings.Contains(tw.String(), "guest: setup"))
}

func TestGuestError(t *testing.T) {
	test.ExpectSuccess(t, guestError(curated.Errorf(vm.InitError, curated.Errorf(guest.CompileError, "x.star", "bad"))))
	test.ExpectSuccess(t, guestError(curated.Errorf(guest.SetupError, "bad")))
	test.ExpectFailure(t, guestError(curated.Errorf(vm.InitError, "bad")))
	test.ExpectFailure(t, guestError(fmt.Errorf("a guest program is required")))
	test.ExpectFailure(t, guestError(nil))
}

func TestHeadlessNoGuest(t *testing.T) {
	tw := &test.CompareWriter{}
	ret := launch([]string{"HEADLESS", "-keys=false"}, tw)
	test.ExpectEquality(t, ret, 20)
}

const soundGame = `
def setup():
    s = allocate(8)
    s.set_u32(4, load_sound(%q))
    return s

def update(s, t, dt):
    s.set_u32(0, s.u32(0) + 1)
    if s.u32(0) == 2:
        play_sound(s.u32(4))

def render(s):
    pass
`

func TestHeadlessWav(t *testing.T) {
	dir := t.TempDir()

	beep := filepath.Join(dir, "beep.wav")
	f, err := os.Create(beep)
	test.DemandSuccess(t, err)
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 800),
		SourceBitDepth: 16,
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, enc.Close())
	test.DemandSuccess(t, f.Close())

	source := writeTemp(t, "sound.star", fmt.Sprintf(soundGame, beep))
	out := filepath.Join(dir, "out.wav")

	tw := &test.CompareWriter{}
	ret := launch([]string{"HEADLESS", "-keys=false", "-frames", "3", "-wav", out, source}, tw)
	test.ExpectEquality(t, ret, 0)

	p, err := sound.Load(out)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, len(p.Data) > 0)
}
