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

package headless_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/platform/headless"
	"github.com/jetsetilly/gamevm/test"
)

func TestScript(t *testing.T) {
	h := headless.NewHeadless()
	var in platform.InputState

	a, _ := platform.Scancode("a")
	b, _ := platform.Scancode("b")

	h.Queue(headless.Frame{Hold: []string{"a"}})
	h.Queue(headless.Frame{Hold: []string{"a"}, Tap: []string{"b"}})
	h.Queue(headless.Frame{})
	test.ExpectEquality(t, h.Pending(), 3)

	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectEquality(t, in.Down[a], uint8(1))
	test.ExpectEquality(t, in.Pressed[a], uint8(1))

	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectEquality(t, in.Down[a], uint8(1))
	test.ExpectEquality(t, in.Pressed[a], uint8(0))
	test.ExpectEquality(t, in.Down[b], uint8(0))
	test.ExpectEquality(t, in.Pressed[b], uint8(1))
	test.ExpectEquality(t, in.Released[b], uint8(1))

	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectEquality(t, in.Down[a], uint8(0))
	test.ExpectEquality(t, in.Released[a], uint8(1))

	// empty script
	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectEquality(t, in.Released[a], uint8(0))
	test.ExpectEquality(t, h.Pending(), 0)

	test.ExpectApproximate(t, h.Time(), 4.0/60.0, 0.0001)
}

func TestTapKeepsHeld(t *testing.T) {
	h := headless.NewHeadless()
	var in platform.InputState

	h.Queue(headless.Frame{Hold: []string{"lshift"}})
	test.ExpectSuccess(t, h.PollEvents(&in))

	h.Tap("n")
	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectEquality(t, in.Mod(), platform.KeyModShift)

	n, _ := platform.Scancode("n")
	test.ExpectEquality(t, in.Pressed[n], uint8(1))
}

func TestLimitAndQuit(t *testing.T) {
	h := headless.NewHeadless()
	h.Limit = 2
	var in platform.InputState

	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectSuccess(t, h.PollEvents(&in))
	test.ExpectFailure(t, h.PollEvents(&in))

	h = headless.NewHeadless()
	h.Quit()
	test.ExpectFailure(t, h.PollEvents(&in))
}

func TestUnknownKey(t *testing.T) {
	h := headless.NewHeadless()
	var in platform.InputState
	h.Queue(headless.Frame{Tap: []string{"nokey"}})
	test.ExpectPanic(t, func() {
		h.PollEvents(&in)
	})
}

func TestRenderer(t *testing.T) {
	h := headless.NewHeadless()

	_, err := h.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	test.ExpectFailure(t, err)

	path := filepath.Join(t.TempDir(), "sprite.png")
	test.DemandSuccess(t, os.WriteFile(path, []byte{0}, 0o644))

	tex, err := h.LoadImage(path)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tex, uint32(1))

	tex, err = h.LoadImage(path)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tex, uint32(2))

	h.Begin()
	h.DrawSprite(2, 10, 20, 1, 1, 1, 1, 1)
	h.End()
	test.ExpectEquality(t, len(h.Sprites), 1)
	test.ExpectEquality(t, h.Sprites[0].X, float32(10))
	test.ExpectEquality(t, h.Frames, 1)

	h.Begin()
	test.ExpectEquality(t, len(h.Sprites), 0)
}
