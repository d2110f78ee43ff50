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

package inspector_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/inspector"
	"github.com/jetsetilly/gamevm/test"
)

const chickens = `
root = "State"

[[type]]
name = "Vec2"
fields = [
	{ name = "x", type = "float" },
	{ name = "y", type = "float" },
]

[[type]]
name = "Chicken"
fields = [
	{ name = "pos", type = "Vec2" },
	{ name = "speed", type = "float" },
	{ name = "anger", type = "float" },
	{ name = "is_friendly", type = "bool" },
	{ name = "alive", type = "bool" },
	{ name = "sprite", type = "u32" },
]

[[type]]
name = "State"
fields = [
	{ name = "player", type = "Vec2" },
	{ name = "chickens", type = "Chicken", array = 2 },
	{ name = "num_chickens", type = "u32" },
]
`

func TestLayoutSize(t *testing.T) {
	l, err := inspector.ParseLayout(chickens)
	test.DemandSuccess(t, err)

	// Chicken: pos 0, speed 8, anger 12, is_friendly 16, alive 17, sprite 20
	test.ExpectEquality(t, l.Root(), "State")
	test.ExpectEquality(t, l.Size(), 8+24*2+4)

	o, err := l.Offset("Chicken", "sprite")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, 20)

	o, err = l.Offset("State", "chickens", "pos", "y")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, 12)

	_, err = l.Offset("State", "missing")
	test.ExpectFailure(t, err)
}

func TestLayoutErrors(t *testing.T) {
	_, err := inspector.ParseLayout(`root = "State"`)
	test.ExpectEquality(t, curated.Is(err, inspector.UnknownType), true)

	_, err = inspector.ParseLayout(`
[[type]]
name = "State"
fields = [ { name = "a", type = "u32" } ]
`)
	test.ExpectEquality(t, curated.Is(err, inspector.NoRootSpecified), true)

	_, err = inspector.ParseLayout(`
root = "State"
[[type]]
name = "State"
fields = [ { name = "a", type = "State" } ]
`)
	test.ExpectEquality(t, curated.Is(err, inspector.RecursiveType), true)

	_, err = inspector.ParseLayout(`
root = "State"
[[type]]
name = "State"
`)
	test.ExpectEquality(t, curated.Is(err, inspector.EmptyType), true)

	_, err = inspector.ParseLayout(`
root = "u32"
[[type]]
name = "u32"
fields = [ { name = "a", type = "u8" } ]
`)
	test.ExpectEquality(t, curated.Is(err, inspector.DuplicateType), true)

	_, err = inspector.ParseLayout(`root = `)
	test.ExpectEquality(t, curated.Is(err, inspector.LayoutError), true)
}

func TestInspect(t *testing.T) {
	l, err := inspector.ParseLayout(chickens)
	test.DemandSuccess(t, err)

	state := make([]byte, l.Size())
	binary.LittleEndian.PutUint32(state[0:], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(state[4:], math.Float32bits(-2))
	state[8+24+17] = 1
	binary.LittleEndian.PutUint32(state[8+24+20:], 7)
	binary.LittleEndian.PutUint32(state[8+48:], 2)

	n, err := l.Inspect("state", state)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(n.Children), 4)
	test.ExpectEquality(t, n.Children[0].Children[0].Value, "1.500000")
	test.ExpectEquality(t, n.Children[0].Children[1].Value, "-2.000000")
	test.ExpectEquality(t, n.Children[2].Name, "chickens[1]")
	test.ExpectEquality(t, n.Children[2].Children[4].String(), "(bool) alive: true")
	test.ExpectEquality(t, n.Children[2].Children[5].String(), "(u32) sprite: 7")
	test.ExpectEquality(t, n.Children[1].Children[4].String(), "(bool) alive: false")
	test.ExpectEquality(t, n.Children[3].String(), "(u32) num_chickens: 2")

	w := &test.CompareWriter{}
	test.ExpectSuccess(t, n.Children[0].Write(w))
	test.ExpectSuccess(t, w.Compare("(Vec2) player\n  (float) x: 1.500000\n  (float) y: -2.000000\n"))

	_, err = l.Inspect("state", state[:10])
	test.ExpectEquality(t, curated.Is(err, inspector.ShortState), true)
}

func TestLoadLayoutAndDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	test.DemandSuccess(t, os.WriteFile(path, []byte(chickens), 0644))

	l, err := inspector.LoadLayout(path)
	test.DemandSuccess(t, err)

	n, err := l.Inspect("state", make([]byte, l.Size()))
	test.DemandSuccess(t, err)

	var sb strings.Builder
	inspector.Dump(&sb, n)
	test.ExpectSuccess(t, strings.Contains(sb.String(), "digraph"))
	test.ExpectSuccess(t, strings.Contains(sb.String(), "num_chickens"))

	_, err = inspector.LoadLayout(filepath.Join(t.TempDir(), "missing.toml"))
	test.ExpectFailure(t, err)
}
