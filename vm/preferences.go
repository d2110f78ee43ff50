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
	"github.com/jetsetilly/gamevm/paths"
	"github.com/jetsetilly/gamevm/prefs"
	"github.com/jetsetilly/gamevm/rewind"
)

// Preferences for the VM.
type Preferences struct {
	vm  *VM
	dsk *prefs.Disk

	// maximum number of interpreter steps for a single call to the guest
	// program. zero means no limit
	StepLimit prefs.Int

	// preferences for the frame history
	Rewind *rewind.Preferences
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values from the preferences file are applied to the VM.
func NewPreferences(v *VM) (*Preferences, error) {
	p := &Preferences{vm: v}

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	// default value is the value in the VM options
	err = p.StepLimit.Set(int(v.opts.StepLimit))
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("vm.steplimit", &p.StepLimit)
	if err != nil {
		return nil, err
	}

	p.StepLimit.SetHookPost(func(val prefs.Value) error {
		n := val.(int)
		if n < 0 {
			n = 0
		}
		p.vm.host.SetStepLimit(uint64(n))
		return nil
	})

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	p.Rewind, err = rewind.NewPreferences(v.tracker)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Load VM preferences from disk.
func (p *Preferences) Load() error {
	if err := p.Rewind.Load(); err != nil {
		return err
	}
	return p.dsk.Load()
}

// Save current VM preferences to disk.
func (p *Preferences) Save() error {
	if err := p.Rewind.Save(); err != nil {
		return err
	}
	return p.dsk.Save()
}
