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

package logger_test

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/test"
)

func TestTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "vm", "paused")
	log.Log(logger.Allow, "guest", "reloaded")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "vm: paused\nguest: reloaded\n")

	// asking for more entries than exist is fine
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "vm: paused\nguest: reloaded\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "guest: reloaded\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeated(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	for range 3 {
		log.Log(logger.Allow, "guest", "fault at line 10")
	}
	log.Log(logger.Allow, "vm", "paused")
	log.Log(logger.Allow, "guest", "fault at line 10")

	log.Write(w)
	test.ExpectEquality(t, w.String(), "guest: fault at line 10 (repeat x3)\nvm: paused\nguest: fault at line 10\n")
}

func TestMaxEntries(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Logf(logger.Allow, "frame", "%d", 1)
	log.Logf(logger.Allow, "frame", "%d", 2)
	log.Logf(logger.Allow, "frame", "%d", 3)

	log.Write(w)
	test.ExpectEquality(t, w.String(), "frame: 2\nframe: 3\n")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	echo := &test.CompareWriter{}
	log.SetEcho(echo)

	log.Log(logger.Allow, "tag", "detail\nwith newline")
	test.ExpectSuccess(t, echo.Compare("tag: detailwith newline\n"))

	log.SetEcho(nil)
	log.Log(logger.Allow, "tag", "not echoed")
	test.ExpectSuccess(t, echo.Compare("tag: detailwith newline\n"))
}

type prohibitLogging struct {
	allow int
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow > 50
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	var p prohibitLogging

	for range 100 {
		p.allow = rand.IntN(100)
		log.Clear()
		w.Reset()
		log.Log(p, "tag", "detail")
		log.Write(w)
		if p.AllowLogging() {
			test.ExpectEquality(t, w.String(), "tag: detail\n")
		} else {
			test.ExpectEquality(t, w.String(), "")
		}
	}
}

type stringerTest struct{}

func (_ stringerTest) String() string {
	return "stringer test"
}

// error and Stringer types are normalised. anything else uses the %v verb
func TestDetailTypes(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	err := errors.New("test error")
	log.Log(logger.Allow, "tag", err)
	log.Logf(logger.Allow, "tag", "wrapped: %v", err)
	log.Log(logger.Allow, "tag", stringerTest{})
	log.Log(logger.Allow, "tag", 100)

	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: test error\ntag: wrapped: test error\ntag: stringer test\ntag: 100\n")
}
