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

// Package guest compiles and runs guest programs. Guest programs are Starlark
// scripts that define three functions. setup() returns the guest state,
// update() advances it and render() draws it:
//
//	def setup():
//	    state = allocate(8)
//	    state.set_f32(0, 100)
//	    state.set_u32(4, load_image("ship.png"))
//	    return state
//
//	def update(state, time, dt):
//	    if is_key_down("right"):
//	        state.set_f32(0, state.f32(0) + 60 * dt)
//
//	def render(state):
//	    draw_sprite(state.u32(4), state.f32(0), 200)
//
// A Host compiles a guest source file into a Module and calls the entry points
// of the Module. The functions the guest can call (allocate, load_image,
// draw_sprite, is_key_down, trap, etc.) are predeclared by the Host and are
// implemented by the Bindings given to NewHost().
//
// Guest state must be kept in blobs created with allocate(). A blob is a
// region of host memory and is snapshotted along with the rest of the engine
// state. Global values in the guest program are frozen once the program has
// been compiled and so can't be used to hold state.
//
// A guest can stop the current call to update or render with the trap() and
// trap_if() functions. The call returns immediately to the host with a Result
// that describes where the trap happened. A runtime error in guest code is
// also reported as a trap so that the host can pause and the guest program
// can be fixed and reloaded.
package guest
