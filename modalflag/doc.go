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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// Gamevm has two modes, RUN and HEADLESS. RUN is the default mode so the
// following command lines are equivalent:
//
//	gamevm game.star
//	gamevm run game.star
//
// Mode names are case insensitive. Flags that precede the mode name are
// flags for the top level, flags that follow it are flags for the mode:
//
//	gamevm -log headless -frames 600 game.star
//
// Idiomatic use:
//
//	md := &modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "HEADLESS")
//	switch md.Parse() {
//	case modalflag.ParseHelp:
//		return
//	case modalflag.ParseError:
//		...
//	}
//
//	md.NewMode()
//	frames := md.AddInt("frames", 0, "number of frames to run")
//	...
//	md.Parse()
//
// The first sub-mode in the list is the default mode. The help message for
// a mode lists its flags and sub-modes and is printed automatically when the
// -help flag is encountered.
package modalflag
