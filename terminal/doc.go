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

// Package terminal provides single key input from a posix terminal for the
// HEADLESS mode of gamevm. It is a thin wrapper for "github.com/pkg/term/termios".
//
// Key presses are read by a goroutine and delivered over a channel. The
// KeyName() function converts the bytes read from the terminal to the key
// names understood by the platform package.
package terminal
