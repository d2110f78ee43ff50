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
	"reflect"
	"unsafe"

	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/random"
	"github.com/jetsetilly/gamevm/rewind"
)

// the number of entries in the image and sound handle tables
const (
	MaxTextures = 16
	MaxSounds   = 16
)

// HotReloadState is the part of the engine state that is expected to keep
// the same shape across reloads of the guest program. It contains handles
// only.
type HotReloadState struct {
	// the texture for each image handle. image handles are the index plus one
	Textures [MaxTextures]uint32

	// the sound for each sound handle. sound handles are the index plus one
	Sounds [MaxSounds]uint32

	GameCode guest.ModuleID
}

// EngineState is recorded verbatim as a single tracked region. It must never
// contain pointers or any other type that refers to memory outside of the
// structure.
type EngineState struct {
	HotReloadState

	Input  platform.InputState
	Random random.State
	Time   float32
	DT     float32
}

// byte ranges in the EngineState that are copied from history independently
// of the rest of the state
var (
	hotOffset   = int(unsafe.Offsetof(EngineState{}.HotReloadState))
	hotLength   = int(unsafe.Sizeof(HotReloadState{}))
	inputOffset = int(unsafe.Offsetof(EngineState{}.Input))
	inputLength = int(unsafe.Sizeof(platform.InputState{}))
	timeOffset  = int(unsafe.Offsetof(EngineState{}.Time))
	timeLength  = int(unsafe.Offsetof(EngineState{}.DT)-unsafe.Offsetof(EngineState{}.Time)) + int(unsafe.Sizeof(float32(0)))
)

func init() {
	if err := rewind.CheckFlat(reflect.TypeOf(EngineState{})); err != nil {
		panic(err)
	}
}
