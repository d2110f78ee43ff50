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
)

// Reason classifies the cause of a trap.
type Reason string

// List of valid Reason values.
const (
	// the guest called trap() or trap_if() with a true condition
	ReasonTrap Reason = "trap"

	// the guest called timestamp() and the timestamp matched the stop
	// timestamp set by the host
	ReasonStop Reason = "stop"

	// the guest caused a runtime error
	ReasonFault Reason = "fault"

	// the guest executed too many steps in a single call
	ReasonSteps Reason = "steps"
)

// Trap records where and why a guest call was stopped.
type Trap struct {
	Reason  Reason
	File    string
	Line    int
	Message string

	// the timestamp of the most recent call to timestamp() before the trap
	Timestamp uint64
}

// Error implements the error interface. A Trap is returned as an error by the
// trap builtins so that it unwinds the interpreter.
func (tr *Trap) Error() string {
	if tr.Message == "" {
		return fmt.Sprintf("%s at %s:%d", tr.Reason, tr.File, tr.Line)
	}
	return fmt.Sprintf("%s at %s:%d: %s", tr.Reason, tr.File, tr.Line, tr.Message)
}

// Result of a guest call.
type Result struct {
	Trapped bool
	Trap    *Trap
}

// marker is a recovery point. one marker is pushed for the duration of each
// update or render call.
type marker struct {
	entry string
}
