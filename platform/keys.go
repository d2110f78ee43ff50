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

import (
	"fmt"
	"strings"
)

// scancodes for the modifier keys
const (
	ScancodeLCtrl  = 224
	ScancodeLShift = 225
	ScancodeLAlt   = 226
	ScancodeRCtrl  = 228
	ScancodeRShift = 229
	ScancodeRAlt   = 230
)

// key names and their scancode. names are lowercase. some keys have more than
// one name
var scancodes = map[string]int{
	"return":       40,
	"enter":        40,
	"escape":       41,
	"backspace":    42,
	"tab":          43,
	"space":        44,
	"minus":        45,
	"equals":       46,
	"leftbracket":  47,
	"rightbracket": 48,
	"backslash":    49,
	"semicolon":    51,
	"apostrophe":   52,
	"grave":        53,
	"comma":        54,
	"period":       55,
	"slash":        56,
	"capslock":     57,
	"insert":       73,
	"home":         74,
	"pageup":       75,
	"delete":       76,
	"end":          77,
	"pagedown":     78,
	"right":        79,
	"left":         80,
	"down":         81,
	"up":           82,
	"lctrl":        ScancodeLCtrl,
	"left ctrl":    ScancodeLCtrl,
	"lshift":       ScancodeLShift,
	"left shift":   ScancodeLShift,
	"lalt":         ScancodeLAlt,
	"left alt":     ScancodeLAlt,
	"rctrl":        ScancodeRCtrl,
	"right ctrl":   ScancodeRCtrl,
	"rshift":       ScancodeRShift,
	"right shift":  ScancodeRShift,
	"ralt":         ScancodeRAlt,
	"right alt":    ScancodeRAlt,
}

// names returned by KeyName() for keys with more than one name
var preferredNames = map[int]string{
	40:             "return",
	ScancodeLCtrl:  "lctrl",
	ScancodeLShift: "lshift",
	ScancodeLAlt:   "lalt",
	ScancodeRCtrl:  "rctrl",
	ScancodeRShift: "rshift",
	ScancodeRAlt:   "ralt",
}

func init() {
	// letters a to z are 4 to 29
	for i := 0; i < 26; i++ {
		scancodes[string(rune('a'+i))] = 4 + i
	}

	// digits 1 to 9 are 30 to 38 and 0 is 39
	for i := 1; i <= 9; i++ {
		scancodes[string(rune('0'+i))] = 29 + i
	}
	scancodes["0"] = 39

	// function keys f1 to f12 are 58 to 69
	for i := 1; i <= 12; i++ {
		scancodes[fmt.Sprintf("f%d", i)] = 57 + i
	}
}

// Scancode returns the scancode for the key name. Key names are not case
// sensitive.
func Scancode(name string) (int, bool) {
	sc, ok := scancodes[strings.ToLower(strings.TrimSpace(name))]
	return sc, ok
}

// KeyName returns the name for the scancode. Returns the empty string if the
// scancode has no name.
func KeyName(sc int) string {
	if n, ok := preferredNames[sc]; ok {
		return n
	}
	for n, s := range scancodes {
		if s == sc {
			return n
		}
	}
	return ""
}
