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

package terminal_test

import (
	"testing"

	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/terminal"
	"github.com/jetsetilly/gamevm/test"
)

func TestKeyName(t *testing.T) {
	k, ok := terminal.KeyName('n')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, terminal.Key{Name: "n"})

	k, ok = terminal.KeyName('N')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, terminal.Key{Name: "n", Shift: true})
	test.ExpectEquality(t, len(k.Modifiers()), 1)
	test.ExpectEquality(t, k.Modifiers()[0], "lshift")

	// ctrl+r
	k, ok = terminal.KeyName(0x12)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k, terminal.Key{Name: "r", Ctrl: true})

	k, ok = terminal.KeyName('\r')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k.Name, "return")

	k, ok = terminal.KeyName(' ')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, k.Name, "space")

	_, ok = terminal.KeyName('#')
	test.ExpectFailure(t, ok)
}

func TestKeyNamesAreKnown(t *testing.T) {
	for b := 0; b < 256; b++ {
		k, ok := terminal.KeyName(byte(b))
		if !ok {
			continue
		}
		_, ok = platform.Scancode(k.Name)
		test.ExpectSuccess(t, ok, k.Name)
		for _, m := range k.Modifiers() {
			_, ok = platform.Scancode(m)
			test.ExpectSuccess(t, ok, m)
		}
	}
}
