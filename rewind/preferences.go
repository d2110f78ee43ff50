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
	"github.com/jetsetilly/gamevm/paths"
	"github.com/jetsetilly/gamevm/prefs"
)

// Preferences for the rewind system.
type Preferences struct {
	t   *Tracker
	dsk *prefs.Disk

	// compress historical snapshots with zstd
	Compress prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Changes to the Compress value are applied to the Tracker
// immediately.
func NewPreferences(t *Tracker) (*Preferences, error) {
	p := &Preferences{t: t}

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("rewind.compress", &p.Compress)
	if err != nil {
		return nil, err
	}

	p.Compress.SetHookPost(func(v prefs.Value) error {
		return p.t.SetCompression(v.(bool))
	})

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Load rewind preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current rewind preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
