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


package rewind

import (
	"testing"

	"github.com/jetsetilly/gamevm/test"
)

// walk the history and count the bytes from scratch
func (t *Tracker) walkStats() Stats {
	s := Stats{
		Regions:   len(t.regions),
		Snapshots: len(t.history),
	}
	for i := range t.history {
		s.RawBytes += t.history[i].raw()
		s.StoredBytes += t.history[i].stored()
	}
	return s
}

func TestStatsRunningTotals(t *testing.T) {
	tr := NewTracker(MaxRegions)
	a := make([]byte, 1024)
	b := make([]byte, 100)
	tr.Track(a)
	tr.Track(b)

	for i := range 5 {
		a[i] = byte(i)
		tr.Snapshot()
		test.ExpectEquality(t, tr.Stats(), tr.walkStats())
	}
	test.ExpectEquality(t, tr.Stats().RawBytes, 1124*5)
	test.ExpectEquality(t, tr.Stats().StoredBytes, 1124*5)

	// compression changes the stored size of the previous entry only
	test.DemandSuccess(t, tr.SetCompression(true))
	for i := range 5 {
		a[i+100] = byte(i)
		tr.Snapshot()
		test.ExpectEquality(t, tr.Stats(), tr.walkStats())
	}
	test.ExpectEquality(t, tr.Stats().RawBytes, 1124*10)
	test.ExpectSuccess(t, tr.Stats().StoredBytes < tr.Stats().RawBytes)

	// overwriting both an uncompressed and a compressed entry
	a[500] = 0xff
	tr.Overwrite(9)
	test.ExpectEquality(t, tr.Stats(), tr.walkStats())
	tr.Overwrite(7)
	test.ExpectEquality(t, tr.Stats(), tr.walkStats())
	tr.Overwrite(2)
	test.ExpectEquality(t, tr.Stats(), tr.walkStats())
	test.ExpectEquality(t, tr.Stats().RawBytes, 1124*10)
}
