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

//go:build !windows

package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is a posix terminal that can be put into cbreak mode.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	keys chan byte
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
func NewTerminal(input *os.File, output *os.File) (*Terminal, error) {
	if input == nil {
		return nil, fmt.Errorf("terminal: an input file is required")
	}
	if output == nil {
		return nil, fmt.Errorf("terminal: an output file is required")
	}

	pt := &Terminal{
		input:  input,
		output: output,
		keys:   make(chan byte, 16),
	}

	// prepare the attributes for the different terminal modes we'll be using
	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	return pt, nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr)
}

// CBreakMode puts terminal into cbreak mode. Key presses are available
// immediately and are not echoed.
func (pt *Terminal) CBreakMode() error {
	return termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr)
}

// Flush makes sure the terminal's input buffer is empty.
func (pt *Terminal) Flush() error {
	return termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH)
}

// Print writes the formatted string to the output file.
func (pt *Terminal) Print(s string, a ...any) {
	pt.output.WriteString(fmt.Sprintf(s, a...))
	pt.output.Sync()
}

// Start reading key presses. The channel is closed when the input file is
// closed or returns an error.
func (pt *Terminal) Start() <-chan byte {
	go readKeys(pt.input, pt.keys)
	return pt.keys
}

func readKeys(r io.Reader, keys chan<- byte) {
	defer close(keys)
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if err != nil {
			return
		}
		if n == 1 {
			keys <- b[0]
		}
	}
}
