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

package sdlplatform

import (
	"fmt"

	"github.com/jetsetilly/gamevm/paths"
	"github.com/jetsetilly/gamevm/prefs"
)

// Preferences for the SDL platform.
type Preferences struct {
	dsk *prefs.Disk

	// guest coordinates are multiplied by the scale value
	Scale prefs.Float

	// whether the debug overlay is visible
	Overlay prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

func newPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("sdl.scale", &p.Scale)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sdl.overlay", &p.Overlay)
	if err != nil {
		return nil, err
	}

	p.Scale.SetHookPre(func(v prefs.Value) error {
		if f, ok := v.(float64); ok && f <= 0 {
			return fmt.Errorf("sdl: scale must be greater than zero (%f)", f)
		}
		return nil
	})

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.Scale.Set(2.0)
	p.Overlay.Set(true)
}

// Load SDL preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current SDL preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
