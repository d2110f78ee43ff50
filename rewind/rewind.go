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
	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

// RegionID identifies a tracked region. Assigned in registration order
// starting at zero.
type RegionID int

// SnapshotID identifies a snapshot in the history. Assigned in creation order
// starting at zero.
type SnapshotID int

// MaxRegions is the default capacity of the region table.
const MaxRegions = 8

// sentinel patterns for contract violations. these are raised with panic()
const (
	TableFull         = "rewind: region table is full (%d regions)"
	EmptyRegion       = "rewind: cannot track a region of zero length"
	UnknownRegion     = "rewind: unknown region (%d)"
	UnknownSnapshot   = "rewind: unknown snapshot (%d)"
	SizeMismatch      = "rewind: size mismatch for region %d (snapshot %d bytes, live %d bytes)"
	LayoutMismatch    = "rewind: snapshot %d has %d regions but %d regions are tracked"
	PartialOutOfRange = "rewind: partial restore of %d bytes at offset %d is outside region %d (%d bytes)"
	PartialDestSize   = "rewind: partial restore destination is %d bytes but %d bytes are required"
)

// entry is one snapshot in the history. data holds a copy of each region. if
// the entry is compressed then data holds zstd frames and sizes records the
// uncompressed length of each region.
type entry struct {
	data       [][]byte
	sizes      []int
	compressed bool
}

// uncompressed size of the entry
func (e *entry) raw() int {
	var n int
	for _, sz := range e.sizes {
		n += sz
	}
	return n
}

// number of bytes used by the entry's data
func (e *entry) stored() int {
	var n int
	for _, d := range e.data {
		n += len(d)
	}
	return n
}

// Tracker keeps a table of regions and a history of snapshots of those
// regions.
type Tracker struct {
	capacity int
	regions  [][]byte
	history  []entry

	// compression of historical entries
	compress bool
	codec    *codec

	// running totals for Stats(). kept up to date by every function that
	// adds to or changes the history
	rawBytes    int
	storedBytes int
}

// NewTracker is the preferred method of initialisation for the Tracker type.
// The capacity argument is the size of the region table.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		capacity: capacity,
		regions:  make([][]byte, 0, capacity),
		history:  make([]entry, 0, 1024),
	}
}

// Track registers a region of memory. The memory must not be reallocated or
// resized for the lifetime of the Tracker.
func (t *Tracker) Track(mem []byte) RegionID {
	if len(t.regions) >= t.capacity {
		panic(curated.Errorf(TableFull, t.capacity))
	}
	if len(mem) == 0 {
		panic(curated.Errorf(EmptyRegion))
	}
	t.regions = append(t.regions, mem)
	return RegionID(len(t.regions) - 1)
}

// NumRegions returns the number of tracked regions.
func (t *Tracker) NumRegions() int {
	return len(t.regions)
}

// NumSnapshots returns the number of snapshots in the history.
func (t *Tracker) NumSnapshots() int {
	return len(t.history)
}

// Region returns the live memory of the region.
func (t *Tracker) Region(id RegionID) []byte {
	t.checkRegion(id)
	return t.regions[id]
}

func (t *Tracker) checkRegion(id RegionID) {
	if id < 0 || int(id) >= len(t.regions) {
		panic(curated.Errorf(UnknownRegion, id))
	}
}

func (t *Tracker) checkSnapshot(id SnapshotID) {
	if id < 0 || int(id) >= len(t.history) {
		panic(curated.Errorf(UnknownSnapshot, id))
	}
}

// Snapshot copies every tracked region into a new history entry.
func (t *Tracker) Snapshot() SnapshotID {
	e := entry{
		data:  make([][]byte, len(t.regions)),
		sizes: make([]int, len(t.regions)),
	}
	for i, r := range t.regions {
		e.data[i] = make([]byte, len(r))
		copy(e.data[i], r)
		e.sizes[i] = len(r)
	}

	// the previous entry is no longer the most recent entry and can be
	// compressed
	if t.compress && len(t.history) > 0 {
		prev := &t.history[len(t.history)-1]
		t.storedBytes -= prev.stored()
		t.codec.compress(prev)
		t.storedBytes += prev.stored()
	}

	t.history = append(t.history, e)
	t.rawBytes += e.raw()
	t.storedBytes += e.stored()
	return SnapshotID(len(t.history) - 1)
}

// Restore copies the snapshot back into the live regions. The snapshot can
// have fewer regions than are currently tracked, in which case the additional
// regions are left untouched.
func (t *Tracker) Restore(id SnapshotID) {
	t.checkSnapshot(id)
	e := &t.history[id]

	if len(e.sizes) > len(t.regions) {
		panic(curated.Errorf(LayoutMismatch, id, len(e.sizes), len(t.regions)))
	}

	for i := range e.sizes {
		if e.sizes[i] != len(t.regions[i]) {
			panic(curated.Errorf(SizeMismatch, i, e.sizes[i], len(t.regions[i])))
		}
	}

	for i := range e.sizes {
		t.codec.read(e, i, t.regions[i])
	}
}

// RestorePartial copies length bytes, starting at offset, of the region as it
// was in the snapshot to dest. Live memory is not touched unless dest is part
// of a live region.
func (t *Tracker) RestorePartial(region RegionID, id SnapshotID, offset int, length int, dest []byte) {
	t.checkRegion(region)
	t.checkSnapshot(id)
	e := &t.history[id]

	if int(region) >= len(e.sizes) {
		panic(curated.Errorf(UnknownRegion, region))
	}

	sz := e.sizes[region]
	if offset < 0 || length < 0 || offset+length > sz {
		panic(curated.Errorf(PartialOutOfRange, length, offset, region, sz))
	}
	if len(dest) < length {
		panic(curated.Errorf(PartialDestSize, len(dest), length))
	}

	if !e.compressed {
		copy(dest[:length], e.data[region][offset:offset+length])
		return
	}

	buf := make([]byte, sz)
	t.codec.read(e, int(region), buf)
	copy(dest[:length], buf[offset:offset+length])
}

// Overwrite copies the live regions into an existing snapshot. The region
// layout must match the layout of the snapshot exactly.
func (t *Tracker) Overwrite(id SnapshotID) {
	t.checkSnapshot(id)
	e := &t.history[id]

	if len(e.sizes) != len(t.regions) {
		panic(curated.Errorf(LayoutMismatch, id, len(e.sizes), len(t.regions)))
	}
	for i := range e.sizes {
		if e.sizes[i] != len(t.regions[i]) {
			panic(curated.Errorf(SizeMismatch, i, e.sizes[i], len(t.regions[i])))
		}
	}

	t.storedBytes -= e.stored()
	defer func() {
		t.storedBytes += e.stored()
	}()

	recompress := e.compressed
	if recompress {
		e.data = make([][]byte, len(t.regions))
		e.compressed = false
	}

	for i, r := range t.regions {
		if e.data[i] == nil {
			e.data[i] = make([]byte, len(r))
		}
		copy(e.data[i], r)
	}

	if recompress {
		t.codec.compress(e)
	}
}

// SnapshotBytes returns a copy of the region as it was in the snapshot.
func (t *Tracker) SnapshotBytes(id SnapshotID, region RegionID) []byte {
	t.checkSnapshot(id)
	e := &t.history[id]
	if region < 0 || int(region) >= len(e.sizes) {
		panic(curated.Errorf(UnknownRegion, region))
	}
	b := make([]byte, e.sizes[region])
	t.codec.read(e, int(region), b)
	return b
}

// SetCompression turns compression of historical entries on or off. Turning
// compression off does not decompress entries that are already compressed.
func (t *Tracker) SetCompression(compress bool) error {
	if compress && t.codec == nil {
		c, err := newCodec()
		if err != nil {
			return curated.Errorf("rewind: %v", err)
		}
		t.codec = c
	}
	t.compress = compress
	logger.Logf(logger.Allow, "rewind", "compression: %v", compress)
	return nil
}

// Stats summarises the size of the history.
type Stats struct {
	Regions   int
	Snapshots int

	// number of bytes in the history if it were not compressed and the number
	// of bytes actually used
	RawBytes    int
	StoredBytes int
}

// Stats returns a summary of the history. The byte counts are running totals
// so the function is cheap enough to call every frame.
func (t *Tracker) Stats() Stats {
	return Stats{
		Regions:     len(t.regions),
		Snapshots:   len(t.history),
		RawBytes:    t.rawBytes,
		StoredBytes: t.storedBytes,
	}
}
