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

package assert

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identify for a goroutine. it returns a result that
// is (a) different between goroutines and (b) consistent for a given
// goroutine. It is undoubtedly useful for but it should only ever be used for
// debugging or testing purposes.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// SingleGoroutine panics if Check() is called from more than one goroutine.
// The zero value is ready to use. The goroutine that first calls Check() is
// the only goroutine allowed to call it.
//
// The check is disabled unless the Enabled flag is set. Setting the flag is
// expensive and should only be done in tests.
type SingleGoroutine struct {
	Enabled bool
	id      uint64
}

// Check that the calling goroutine is the same as on the first call.
func (s *SingleGoroutine) Check() {
	if !s.Enabled {
		return
	}
	id := GetGoRoutineID()
	if s.id == 0 {
		s.id = id
		return
	}
	if s.id != id {
		panic(fmt.Sprintf("assert: called from goroutine %d but owned by goroutine %d", id, s.id))
	}
}
