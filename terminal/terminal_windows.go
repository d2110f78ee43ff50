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

//go:build windows

package terminal

import (
	"fmt"
	"os"
)

// Terminal is not supported on windows.
type Terminal struct{}

// NewTerminal always returns an error on windows.
func NewTerminal(_ *os.File, _ *os.File) (*Terminal, error) {
	return nil, fmt.Errorf("terminal: not supported on windows")
}

func (pt *Terminal) CanonicalMode() error { return nil }
func (pt *Terminal) CBreakMode() error { return nil }
func (pt *Terminal) Flush() error { return nil }
func (pt *Terminal) Print(_ string, _ ...any) {}
func (pt *Terminal) Start() <-chan byte { return nil }
