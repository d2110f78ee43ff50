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

package guest

// Bindings are the host functions available to guest code. A Bindings
// implementation is given to NewHost() and the predeclared guest builtins call
// the corresponding function.
//
// An error returned by any of these functions is treated as a fault in the
// guest program and stops the current guest call.
type Bindings interface {
	// Allocate returns zero-initialised memory of the requested size. The
	// memory must be owned by the host for the lifetime of the program.
	Allocate(size int) ([]byte, error)

	// LoadImage returns an image handle. Handles are 1-based.
	LoadImage(path string) (uint32, error)

	// DrawSprite draws the image at the position with a scale and colour.
	DrawSprite(handle uint32, x, y, scale, r, g, b, a float32) error

	// IsKeyDown returns true if the named key is held down.
	IsKeyDown(name string) (bool, error)

	// KeyPressed and KeyReleased return the number of times the named key
	// was pressed or released since the previous frame.
	KeyPressed(name string) (int, error)
	KeyReleased(name string) (int, error)

	// RandomFloat returns a value in the range [0, 1).
	RandomFloat() float32

	// Timestamp returns the next timestamp. The stop value is true if the
	// timestamp is the one the host wants the guest to stop at.
	Timestamp() (ts uint64, stop bool)

	// LoadSound returns a sound handle. Handles are 1-based.
	LoadSound(path string) (uint32, error)

	// PlaySound plays the sound.
	PlaySound(handle uint32) error
}
