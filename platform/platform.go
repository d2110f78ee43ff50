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

package platform

// MaxScancodes is the size of the keyboard arrays in InputState.
const MaxScancodes = 512

// InputState is the keyboard state for a single frame. It contains only
// fixed size arrays so that it can be recorded verbatim with the rest of the
// engine state.
type InputState struct {
	// non-zero if the key is held down at the end of the frame
	Down [MaxScancodes]uint8

	// the number of times the key was pressed or released during the frame.
	// counts saturate at 255
	Pressed  [MaxScancodes]uint8
	Released [MaxScancodes]uint8
}

// BeginFrame clears the pressed and released counts. It should be called by
// the platform before processing the events for a new frame.
func (in *InputState) BeginFrame() {
	clear(in.Pressed[:])
	clear(in.Released[:])
}

// KeyDown records a key press. Repeated key down events for a key that is
// already held down are ignored.
func (in *InputState) KeyDown(sc int) {
	if sc < 0 || sc >= MaxScancodes {
		return
	}
	if in.Down[sc] != 0 {
		return
	}
	in.Down[sc] = 1
	if in.Pressed[sc] < 255 {
		in.Pressed[sc]++
	}
}

// KeyUp records a key release.
func (in *InputState) KeyUp(sc int) {
	if sc < 0 || sc >= MaxScancodes {
		return
	}
	if in.Down[sc] == 0 {
		return
	}
	in.Down[sc] = 0
	if in.Released[sc] < 255 {
		in.Released[sc]++
	}
}

// Tap records a press and release of the key within the same frame.
func (in *InputState) Tap(sc int) {
	in.KeyDown(sc)
	in.KeyUp(sc)
}

// KeyMod identifies the modifier keys held down during a frame.
type KeyMod int

// list of key modifiers. values can be combined
const (
	KeyModShift KeyMod = 1 << iota
	KeyModCtrl
	KeyModAlt

	KeyModNone KeyMod = 0
)

// Mod returns the modifier keys that are held down.
func (in *InputState) Mod() KeyMod {
	var m KeyMod
	if in.Down[ScancodeLShift] != 0 || in.Down[ScancodeRShift] != 0 {
		m |= KeyModShift
	}
	if in.Down[ScancodeLCtrl] != 0 || in.Down[ScancodeRCtrl] != 0 {
		m |= KeyModCtrl
	}
	if in.Down[ScancodeLAlt] != 0 || in.Down[ScancodeRAlt] != 0 {
		m |= KeyModAlt
	}
	return m
}

// Platform is the window and event source.
type Platform interface {
	// PollEvents processes pending events and updates the input state.
	// Returns false if the user has requested that the program quit.
	PollEvents(input *InputState) bool

	// Scancode returns the scancode for the key name.
	Scancode(name string) (int, bool)

	// Time returns the number of seconds since the platform was created.
	Time() float64
}

// Renderer draws sprites.
type Renderer interface {
	// Begin and End bracket the drawing of a frame
	Begin()
	End()

	// LoadImage loads an image file and returns a texture handle. Every call
	// returns a new texture, even if the file has been loaded before.
	LoadImage(path string) (uint32, error)

	// DrawSprite draws the texture with the top-left corner at x, y.
	DrawSprite(tex uint32, x, y, scale, r, g, b, a float32)
}

// Audio plays sounds.
type Audio interface {
	// LoadSound loads a sound file and returns a sound handle. Every call
	// returns a new sound, even if the file has been loaded before.
	LoadSound(path string) (uint32, error)

	// PlaySound starts playback of the sound.
	PlaySound(snd uint32)
}
