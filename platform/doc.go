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

// Package platform defines the interfaces between the VM and the window,
// renderer and audio device. It also defines the keyboard input state that is
// recorded with every frame.
//
// Key names are resolved to scancodes with the Scancode() function. Scancode
// values follow the USB usage table, which is also the numbering used by SDL.
// This means a backend based on SDL can index the InputState arrays directly
// with the scancode reported by an event.
package platform
