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

package prefs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gamevm/prefs"
	"github.com/jetsetilly/gamevm/test"
)

func TestBool(t *testing.T) {
	var v prefs.Bool
	test.ExpectEquality(t, v.Get().(bool), false)
	test.ExpectSuccess(t, v.Set(true))
	test.ExpectEquality(t, v.String(), "true")
	test.ExpectSuccess(t, v.Set("foo"))
	test.ExpectEquality(t, v.Get().(bool), false)
	test.ExpectSuccess(t, v.Set("TRUE"))
	test.ExpectEquality(t, v.Get().(bool), true)
	test.ExpectFailure(t, v.Set(10))
}

func TestInt(t *testing.T) {
	var v prefs.Int
	test.ExpectSuccess(t, v.Set(10))
	test.ExpectEquality(t, v.Get().(int), 10)
	test.ExpectSuccess(t, v.Set("99"))
	test.ExpectEquality(t, v.Get().(int), 99)
	test.ExpectSuccess(t, v.Set(int64(-5)))
	test.ExpectEquality(t, v.String(), "-5")
	test.ExpectFailure(t, v.Set("foo"))
	test.ExpectSuccess(t, v.Reset())
	test.ExpectEquality(t, v.Get().(int), 0)
}

func TestString(t *testing.T) {
	var v prefs.String
	test.ExpectSuccess(t, v.Set("hello world"))
	v.SetMaxLen(5)
	test.ExpectEquality(t, v.String(), "hello")
	test.ExpectSuccess(t, v.Set("abcdefgh"))
	test.ExpectEquality(t, v.String(), "abcde")
}

func TestHooks(t *testing.T) {
	var v prefs.Float
	var post float64
	v.SetHookPost(func(nv prefs.Value) error {
		post = nv.(float64)
		return nil
	})
	test.ExpectSuccess(t, v.Set(float32(0.5)))
	test.ExpectEquality(t, post, 0.5)
	test.ExpectSuccess(t, v.Set("1.25"))
	test.ExpectEquality(t, post, 1.25)
}

func TestDisk(t *testing.T) {
	fn := filepath.Join(t.TempDir(), prefs.DefaultPrefsFile)

	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var b prefs.Bool
	var i prefs.Int
	var s prefs.String
	test.ExpectSuccess(t, dsk.Add("overlay.visible", &b))
	test.ExpectSuccess(t, dsk.Add("vm.steps", &i))
	test.ExpectSuccess(t, dsk.Add("vm.name", &s))
	test.ExpectFailure(t, dsk.Add("bad key", &s))

	// loading a file that doesn't exist is not an error
	test.ExpectSuccess(t, dsk.Load())

	b.Set(true)
	i.Set(1000)
	s.Set("test")
	test.DemandSuccess(t, dsk.Save())

	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(string(data), prefs.WarningBoilerPlate))

	// a second disk using the same file with a different set of entries
	other, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var j prefs.Int
	test.ExpectSuccess(t, other.Add("vm.steps", &j))
	test.ExpectSuccess(t, other.Load())
	test.ExpectEquality(t, j.Get().(int), 1000)

	// saving the second disk must not lose the entries of the first
	j.Set(2000)
	test.DemandSuccess(t, other.Save())

	b.Set(false)
	test.DemandSuccess(t, dsk.Load())
	test.ExpectEquality(t, b.Get().(bool), true)
	test.ExpectEquality(t, i.Get().(int), 2000)
	test.ExpectEquality(t, s.String(), "test")
}
