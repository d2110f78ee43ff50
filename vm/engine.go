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

	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/notifications"
)

// engine implements the guest.Bindings interface for the VM.
type engine struct {
	vm *VM
}

// Allocate implements the guest.Bindings interface. The memory is tracked
// and so is recorded with every frame.
func (e *engine) Allocate(size int) ([]byte, error) {
	mem := make([]byte, size)
	e.vm.tracker.Track(mem)
	return mem, nil
}

// LoadImage implements the guest.Bindings interface. The image file is
// watched and reloaded when it changes.
func (e *engine) LoadImage(path string) (uint32, error) {
	v := e.vm

	idx := -1
	for i, tex := range v.engine.Textures {
		if tex == 0 {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, fmt.Errorf("no free image handles (%d)", MaxTextures)
	}

	tex, err := v.rend.LoadImage(path)
	if err != nil {
		return 0, err
	}
	v.engine.Textures[idx] = tex
	v.hotMostRecent.Textures[idx] = tex

	v.watch(path, func(path string) {
		v.reloadImage(idx, path)
	})

	return uint32(idx + 1), nil
}

// DrawSprite implements the guest.Bindings interface.
func (e *engine) DrawSprite(handle uint32, x, y, scale, r, g, b, a float32) error {
	v := e.vm
	if handle == 0 || handle > MaxTextures || v.engine.Textures[handle-1] == 0 {
		return fmt.Errorf("invalid image handle (%d)", handle)
	}
	v.rend.DrawSprite(v.engine.Textures[handle-1], x, y, scale, r, g, b, a)
	return nil
}

func (e *engine) scancode(name string) (int, error) {
	sc, ok := e.vm.plat.Scancode(name)
	if !ok {
		return 0, fmt.Errorf("unknown key name (%s)", name)
	}
	return sc, nil
}

// IsKeyDown implements the guest.Bindings interface.
func (e *engine) IsKeyDown(name string) (bool, error) {
	sc, err := e.scancode(name)
	if err != nil {
		return false, err
	}
	return e.vm.engine.Input.Down[sc] > 0, nil
}

// KeyPressed implements the guest.Bindings interface.
func (e *engine) KeyPressed(name string) (int, error) {
	sc, err := e.scancode(name)
	if err != nil {
		return 0, err
	}
	return int(e.vm.engine.Input.Pressed[sc]), nil
}

// KeyReleased implements the guest.Bindings interface.
func (e *engine) KeyReleased(name string) (int, error) {
	sc, err := e.scancode(name)
	if err != nil {
		return 0, err
	}
	return int(e.vm.engine.Input.Released[sc]), nil
}

// RandomFloat implements the guest.Bindings interface.
func (e *engine) RandomFloat() float32 {
	return e.vm.engine.Random.Float32()
}

// Timestamp implements the guest.Bindings interface. The timestamp is the
// frame number in the upper 32 bits and a counter in the lower 32 bits. The
// counter is reset at the start of every update.
func (e *engine) Timestamp() (uint64, bool) {
	v := e.vm
	ts := uint64(v.tsFrame)<<32 | uint64(v.tsSub)
	v.tsSub++
	return ts, v.stopSet && ts == v.stop
}

// LoadSound implements the guest.Bindings interface. The sound file is
// watched and reloaded when it changes.
func (e *engine) LoadSound(path string) (uint32, error) {
	v := e.vm
	if v.aud == nil {
		return 0, fmt.Errorf("no audio device")
	}

	idx := -1
	for i, snd := range v.engine.Sounds {
		if snd == 0 {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, fmt.Errorf("no free sound handles (%d)", MaxSounds)
	}

	snd, err := v.aud.LoadSound(path)
	if err != nil {
		return 0, err
	}
	v.engine.Sounds[idx] = snd
	v.hotMostRecent.Sounds[idx] = snd

	v.watch(path, func(path string) {
		v.reloadSound(idx, path)
	})

	return uint32(idx + 1), nil
}

// PlaySound implements the guest.Bindings interface.
func (e *engine) PlaySound(handle uint32) error {
	v := e.vm
	if handle == 0 || handle > MaxSounds || v.engine.Sounds[handle-1] == 0 {
		return fmt.Errorf("invalid sound handle (%d)", handle)
	}
	if v.quiet || v.aud == nil {
		return nil
	}
	v.aud.PlaySound(v.engine.Sounds[handle-1])
	return nil
}

// Reload compiles the guest program. On success the new code is used from
// the next frame. If the replay mark is set then a replay from the mark is
// started. On failure the previous code continues to be used.
func (v *VM) Reload(path string) error {
	id, err := v.host.Compile(path)
	if err != nil {
		logger.Logf(logger.Allow, logTag, "could not reload game code: %v", err)
		v.notify(notifications.NotifyReloadFailed)
		return err
	}

	logger.Logf(logger.Allow, logTag, "new game code: module %d", id)
	v.engine.GameCode = id
	v.hotMostRecent.GameCode = id
	v.notify(notifications.NotifyReload)

	v.replayFromMark()
	return nil
}

func (v *VM) reloadImage(idx int, path string) {
	tex, err := v.rend.LoadImage(path)
	if err != nil {
		logger.Logf(logger.Allow, logTag, "could not reload %s: %v", path, err)
		v.notify(notifications.NotifyAssetReloadFailed)
		return
	}

	v.engine.Textures[idx] = tex
	v.hotMostRecent.Textures[idx] = tex
	v.notify(notifications.NotifyAssetReload)

	v.replayFromMark()
}

func (v *VM) reloadSound(idx int, path string) {
	snd, err := v.aud.LoadSound(path)
	if err != nil {
		logger.Logf(logger.Allow, logTag, "could not reload %s: %v", path, err)
		v.notify(notifications.NotifyAssetReloadFailed)
		return
	}

	v.engine.Sounds[idx] = snd
	v.hotMostRecent.Sounds[idx] = snd
	v.notify(notifications.NotifyAssetReload)

	v.replayFromMark()
}

func (v *VM) replayFromMark() {
	if v.markSet {
		v.StartReplay(v.mark)
	}
}
