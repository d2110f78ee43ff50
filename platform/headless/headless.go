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

// Package headless is a window-less implementation of the platform
// interfaces. Input is scripted one frame at a time and drawing is recorded
// rather than displayed. It is used by the tests and by the HEADLESS mode of
// the gamevm program.
package headless

import (
	"fmt"
	"os"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/sound"
)

// UnknownKey is the panic pattern for a scripted key name that can't be
// resolved.
const UnknownKey = "headless: unknown key (%s)"

// Frame is the keyboard input for one call to PollEvents().
type Frame struct {
	// keys held down for the frame. keys held in the previous frame that are
	// not in this list are released
	Hold []string

	// keys pressed and released within the frame
	Tap []string
}

// Sprite is a recorded call to DrawSprite().
type Sprite struct {
	Texture    uint32
	X, Y       float32
	Scale      float32
	R, G, B, A float32
}

// Headless implements the platform.Platform, platform.Renderer and
// platform.Audio interfaces.
type Headless struct {
	script []Frame
	held   map[int]bool

	// number of calls to PollEvents(). the clock advances by Step seconds
	// on every call
	polls int
	Step  float64

	// PollEvents() returns false once the limit is reached. a value of zero
	// means no limit
	Limit int

	quit bool

	// Textures holds the path of every loaded image, indexed by texture
	// handle minus one
	Textures []string

	// sprites drawn since the most recent Begin()
	Sprites []Sprite

	// number of completed frames
	Frames int

	// Sounds holds the decoded sound for every loaded sound, indexed by
	// sound handle minus one
	Sounds []*sound.PCM
	Played []uint32
}

// NewHeadless is the preferred method of initialisation for the Headless type.
func NewHeadless() *Headless {
	return &Headless{
		held: make(map[int]bool),
		Step: 1.0 / 60.0,
	}
}

// Queue adds frames of input to the end of the script.
func (h *Headless) Queue(frames ...Frame) {
	h.script = append(h.script, frames...)
}

// Tap is a convenience function that queues a single frame with the keys
// tapped and the currently held keys unchanged.
func (h *Headless) Tap(keys ...string) {
	var hold []string
	for sc := range h.held {
		hold = append(hold, platform.KeyName(sc))
	}
	h.Queue(Frame{Hold: hold, Tap: keys})
}

// Pending returns the number of queued frames.
func (h *Headless) Pending() int {
	return len(h.script)
}

// Quit causes the next call to PollEvents() to return false.
func (h *Headless) Quit() {
	h.quit = true
}

func scancode(name string) int {
	sc, ok := platform.Scancode(name)
	if !ok {
		panic(curated.Errorf(UnknownKey, name))
	}
	return sc
}

// PollEvents implements the platform.Platform interface. If the script is
// empty the held keys are unchanged and no keys are tapped.
func (h *Headless) PollEvents(input *platform.InputState) bool {
	if h.quit {
		return false
	}
	if h.Limit > 0 && h.polls >= h.Limit {
		return false
	}
	h.polls++

	input.BeginFrame()

	if len(h.script) == 0 {
		return true
	}

	fr := h.script[0]
	h.script = h.script[1:]

	hold := make(map[int]bool)
	for _, k := range fr.Hold {
		hold[scancode(k)] = true
	}

	for sc := range h.held {
		if !hold[sc] {
			input.KeyUp(sc)
		}
	}
	for sc := range hold {
		input.KeyDown(sc)
	}
	h.held = hold

	for _, k := range fr.Tap {
		sc := scancode(k)
		if h.held[sc] {
			continue
		}
		input.Tap(sc)
	}

	return true
}

// Scancode implements the platform.Platform interface.
func (h *Headless) Scancode(name string) (int, bool) {
	return platform.Scancode(name)
}

// Time implements the platform.Platform interface.
func (h *Headless) Time() float64 {
	return float64(h.polls) * h.Step
}

// Begin implements the platform.Renderer interface.
func (h *Headless) Begin() {
	h.Sprites = h.Sprites[:0]
}

// End implements the platform.Renderer interface.
func (h *Headless) End() {
	h.Frames++
}

// LoadImage implements the platform.Renderer interface. The file must exist
// but the contents are not decoded.
func (h *Headless) LoadImage(path string) (uint32, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("headless: %w", err)
	}
	h.Textures = append(h.Textures, path)
	logger.Logf(logger.Allow, "headless", "texture %d: %s", len(h.Textures), path)
	return uint32(len(h.Textures)), nil
}

// DrawSprite implements the platform.Renderer interface.
func (h *Headless) DrawSprite(tex uint32, x, y, scale, r, g, b, a float32) {
	h.Sprites = append(h.Sprites, Sprite{
		Texture: tex,
		X:       x,
		Y:       y,
		Scale:   scale,
		R:       r,
		G:       g,
		B:       b,
		A:       a,
	})
}

// LoadSound implements the platform.Audio interface.
func (h *Headless) LoadSound(path string) (uint32, error) {
	p, err := sound.Load(path)
	if err != nil {
		return 0, err
	}
	h.Sounds = append(h.Sounds, p)
	return uint32(len(h.Sounds)), nil
}

// PlaySound implements the platform.Audio interface.
func (h *Headless) PlaySound(snd uint32) {
	h.Played = append(h.Played, snd)
}
