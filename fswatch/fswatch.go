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

// Package fswatch polls files for changes. A change is any difference in the
// modification time of the file since the previous poll. There is no tracking
// of renames or inodes, so a file that is replaced with a file with the same
// modification time will not be seen as changed.
//
// Watcher is not safe for concurrent use. It is intended to be polled once per
// frame from the same goroutine that registers the watches.
package fswatch

import (
	"os"
	"time"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

// MaxWatches is the default capacity of a Watcher.
const MaxWatches = 128

// TooManyWatches is raised with panic() when the watch table is full.
const TooManyWatches = "fswatch: too many watches (%d)"

// Callback is called with the path of the changed file. Any context required
// by the callback should be captured by the function.
type Callback func(path string)

type watch struct {
	path    string
	modTime time.Time
	cb      Callback
}

// Watcher is a fixed size list of watched files.
type Watcher struct {
	capacity int
	watches  []watch
}

// NewWatcher is the preferred method of initialisation for the Watcher type.
func NewWatcher(capacity int) *Watcher {
	return &Watcher{
		capacity: capacity,
		watches:  make([]watch, 0, capacity),
	}
}

// Watch adds a file to the list of watched files. There is no check for
// duplicates and the same file can be watched more than once with different
// callbacks.
func (w *Watcher) Watch(path string, cb Callback) {
	if len(w.watches) >= w.capacity {
		panic(curated.Errorf(TooManyWatches, w.capacity))
	}

	wt := watch{
		path: path,
		cb:   cb,
	}
	if info, err := os.Stat(path); err == nil {
		wt.modTime = info.ModTime()
	} else {
		logger.Logf(logger.Allow, "fswatch", "%v", err)
	}

	w.watches = append(w.watches, wt)
}

// Len returns the number of watches.
func (w *Watcher) Len() int {
	return len(w.watches)
}

// Poll checks every watched file and calls the callback for each file that
// has changed. Returns true if any file has changed.
func (w *Watcher) Poll() bool {
	var changed bool

	// the callback might add a new watch so we range over the length of the
	// list at the start of the poll
	n := len(w.watches)
	for i := 0; i < n; i++ {
		info, err := os.Stat(w.watches[i].path)
		if err != nil {
			// file is missing or unreadable. this happens briefly with
			// editors that save by replacing the file
			continue
		}

		mt := info.ModTime()
		if mt.Equal(w.watches[i].modTime) {
			continue
		}

		w.watches[i].modTime = mt
		changed = true

		logger.Logf(logger.Allow, "fswatch", "modified: %s", w.watches[i].path)
		w.watches[i].cb(w.watches[i].path)
	}

	return changed
}
