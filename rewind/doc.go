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

// Package rewind tracks regions of memory and keeps a history of snapshots of
// those regions.
//
// A region is a byte slice registered with Track(). The order of
// registration defines the RegionID and every snapshot holds one copy of each
// region that was registered at the time the snapshot was taken. Snapshots
// are identified by their position in the history, starting at zero.
//
// History is append-only. Restore() never removes entries and Overwrite()
// changes the bytes of an existing entry without changing its position.
//
// Misuse of the tracker (unknown ids, size mismatches, a full region table)
// is a bug in the host and causes a panic. There is no partial failure.
//
// For Go values to be tracked they must be flat: no pointers, slices, maps,
// strings, interfaces, functions or channels. The CheckFlat() function
// verifies this with reflection and Bytes() gives the byte view of a flat
// value.
package rewind
