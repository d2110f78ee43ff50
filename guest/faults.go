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

package guest

import (
	"fmt"
	"io"
)

// FaultEntry is a single entry in the fault log.
type FaultEntry struct {
	Reason  Reason
	File    string
	Line    int
	Message string

	// number of times this specific fault has been seen
	Count int
}

func (e FaultEntry) String() string {
	return fmt.Sprintf("%s: %s:%d: %s", e.Reason, e.File, e.Line, e.Message)
}

// Faults records runtime errors in guest code. The same fault raised from
// the same line of guest code is recorded once and counted.
type Faults struct {
	// entries are keyed by the string representation of the entry
	entries map[string]*FaultEntry

	// all the faults in order of the first time they appear
	Log []*FaultEntry
}

// NewFaults is the preferred method of initialisation for the Faults type.
func NewFaults() Faults {
	return Faults{
		entries: make(map[string]*FaultEntry),
	}
}

// Clear all entries from the fault log.
func (flt *Faults) Clear() {
	clear(flt.entries)
	flt.Log = flt.Log[:0]
}

// WriteLog writes the list of faults in the order they were added.
func (flt Faults) WriteLog(w io.Writer) {
	for _, e := range flt.Log {
		io.WriteString(w, fmt.Sprintf("%s (x%d)\n", e, e.Count))
	}
}

// NewEntry adds a trap to the list of faults.
func (flt *Faults) NewEntry(tr *Trap) {
	e := &FaultEntry{
		Reason:  tr.Reason,
		File:    tr.File,
		Line:    tr.Line,
		Message: tr.Message,
	}
	key := e.String()

	if f, ok := flt.entries[key]; ok {
		e = f
	} else {
		flt.entries[key] = e
		flt.Log = append(flt.Log, e)
	}

	e.Count++
}
