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

package terminal

// Key is a key press read from the terminal.
type Key struct {
	Name  string
	Shift bool
	Ctrl  bool
}

// list of control codes with special meaning
const (
	keyTab       = 0x09
	keyLF        = 0x0a
	keyCR        = 0x0d
	keyEsc       = 0x1b
	keySpace     = 0x20
	keyBackspace = 0x7f
)

// KeyName converts a byte read from a terminal in cbreak mode to a key. Upper
// case letters are shifted and control codes for letters are ctrl. Returns
// false if there is no key for the byte.
//
// Because the terminal can't distinguish between them, ctrl+m is reported as
// the return key and ctrl+i as the tab key.
func KeyName(b byte) (Key, bool) {
	switch {
	case b == keyCR || b == keyLF:
		return Key{Name: "return"}, true
	case b == keyTab:
		return Key{Name: "tab"}, true
	case b == keyEsc:
		return Key{Name: "escape"}, true
	case b == keySpace:
		return Key{Name: "space"}, true
	case b == keyBackspace:
		return Key{Name: "backspace"}, true
	case b >= 'a' && b <= 'z':
		return Key{Name: string(rune(b))}, true
	case b >= 'A' && b <= 'Z':
		return Key{Name: string(rune(b - 'A' + 'a')), Shift: true}, true
	case b >= '0' && b <= '9':
		return Key{Name: string(rune(b))}, true
	case b >= 0x01 && b <= 0x1a:
		return Key{Name: string(rune(b - 1 + 'a')), Ctrl: true}, true
	}
	return Key{}, false
}

// Modifiers returns the names of the modifier keys for the key.
func (k Key) Modifiers() []string {
	var m []string
	if k.Shift {
		m = append(m, "lshift")
	}
	if k.Ctrl {
		m = append(m, "lctrl")
	}
	return m
}
