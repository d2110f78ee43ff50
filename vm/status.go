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

package vm

import (
	"fmt"

	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/rewind"
)

// Status is a summary of the VM for user interfaces.
type Status struct {
	Mode    Mode
	Current uint32
	Last    uint32

	Mark    uint32
	MarkSet bool

	// the most recent trap. nil if there is no trap
	Error *guest.Trap

	Time float32

	Regions rewind.Stats

	// number of distinct faults in the guest program
	Faults int
}

func (st Status) String() string {
	mark := "none"
	if st.MarkSet {
		mark = fmt.Sprintf("%d", st.Mark)
	}
	s := fmt.Sprintf("%s: frame %d/%d: mark %s", st.Mode, st.Current, st.Last, mark)
	if st.Error != nil {
		s = fmt.Sprintf("%s: %v", s, st.Error)
	}
	return s
}

// Status returns the current status of the VM.
func (v *VM) Status() Status {
	return Status{
		Mode:    v.mode,
		Current: v.current,
		Last:    v.last,
		Mark:    v.mark,
		MarkSet: v.markSet,
		Error:   v.err,
		Time:    v.engine.Time,
		Regions: v.tracker.Stats(),
		Faults:  len(v.host.Faults.Log),
	}
}

// Help returns the key bindings that are available in the current mode.
func (st Status) Help() []string {
	var h []string
	switch st.Mode {
	case Pause:
		if st.Current == st.Last {
			h = append(h, "n: advance one frame")
		} else {
			h = append(h, "n: skip 1 frame forwards")
		}
		h = append(h,
			"shift+n: skip 20 frames forwards",
			"p: skip 1 frame backwards",
			"shift+p: skip 20 frames backwards",
			"e: skip to last frame",
			"c: continue from current frame",
			"r: replay from mark",
			"ctrl+r: replay from current frame",
		)
		if st.MarkSet {
			h = append(h, "ctrl+m: jump to replay mark")
		}
		if st.MarkSet && st.Mark == st.Current {
			h = append(h, "m: unset replay mark")
		} else {
			h = append(h, "m: set replay mark")
		}
		h = append(h, "return: playback from here")
		if st.Error != nil && st.Error.Timestamp != 0 {
			h = append(h, "t: seek to trap")
		}
	case Playback:
		h = append(h, "space: pause")
	case Replay:
		h = append(h, "space: pause")
		if st.MarkSet {
			h = append(h, "r: replay from mark")
		}
	case Advance:
		h = append(h, "space: pause")
	}
	if st.MarkSet {
		h = append(h, "reload file: replay from mark")
	}
	return h
}
