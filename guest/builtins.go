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

package guest

import (
	"fmt"

	"go.starlark.net/lib/math"
	"go.starlark.net/starlark"
)

type builtinFn func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

// builtins returns the predeclared values for guest programs. every builtin
// closes over the Host and through that the Bindings.
func (h *Host) builtins() starlark.StringDict {
	fns := map[string]builtinFn{
		"allocate":     h.allocate,
		"load_image":   h.loadImage,
		"draw_sprite":  h.drawSprite,
		"is_key_down":  h.isKeyDown,
		"key_pressed":  h.keyPressed,
		"key_released": h.keyReleased,
		"random_float": h.randomFloat,
		"trap":         h.trap,
		"trap_if":      h.trapIf,
		"timestamp":    h.timestamp,
		"load_sound":   h.loadSound,
		"play_sound":   h.playSound,
	}

	d := starlark.StringDict{
		"math": math.Module,
	}
	for name, fn := range fns {
		d[name] = starlark.NewBuiltin(name, fn)
	}
	return d
}

func (h *Host) allocate(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var size int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &size); err != nil {
		return nil, err
	}
	if !h.settingUp {
		return nil, fmt.Errorf("%s: can only be called from %s()", fn.Name(), EntrySetup)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%s: invalid size (%d)", fn.Name(), size)
	}
	mem, err := h.bindings.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return NewBlob(mem, h), nil
}

func (h *Host) loadImage(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &path); err != nil {
		return nil, err
	}
	handle, err := h.bindings.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.MakeUint64(uint64(handle)), nil
}

func (h *Host) drawSprite(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var handle uint32
	var x, y number
	scale, r, g, b, a := number(1), number(1), number(1), number(1), number(1)
	err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"handle", &handle, "x", &x, "y", &y,
		"scale?", &scale, "r?", &r, "g?", &g, "b?", &b, "a?", &a)
	if err != nil {
		return nil, err
	}
	err = h.bindings.DrawSprite(handle, float32(x), float32(y), float32(scale),
		float32(r), float32(g), float32(b), float32(a))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.None, nil
}

func (h *Host) isKeyDown(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	down, err := h.bindings.IsKeyDown(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.Bool(down), nil
}

func (h *Host) keyPressed(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	n, err := h.bindings.KeyPressed(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.MakeInt(n), nil
}

func (h *Host) keyReleased(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &name); err != nil {
		return nil, err
	}
	n, err := h.bindings.KeyReleased(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.MakeInt(n), nil
}

func (h *Host) randomFloat(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.Float(h.bindings.RandomFloat()), nil
}

func (h *Host) trap(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "message?", &msg); err != nil {
		return nil, err
	}
	ts, _ := h.bindings.Timestamp()
	h.lastTimestamp = ts
	return nil, h.raise(thread, ReasonTrap, msg, ts)
}

func (h *Host) trapIf(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cond starlark.Value
	var msg string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "cond", &cond, "message?", &msg); err != nil {
		return nil, err
	}
	if !cond.Truth() {
		return starlark.None, nil
	}
	ts, _ := h.bindings.Timestamp()
	h.lastTimestamp = ts
	return nil, h.raise(thread, ReasonTrap, msg, ts)
}

func (h *Host) timestamp(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	ts, stop := h.bindings.Timestamp()
	h.lastTimestamp = ts
	if stop {
		return nil, h.raise(thread, ReasonStop, "stop timestamp reached", ts)
	}
	return starlark.MakeUint64(ts), nil
}

func (h *Host) loadSound(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &path); err != nil {
		return nil, err
	}
	handle, err := h.bindings.LoadSound(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.MakeUint64(uint64(handle)), nil
}

func (h *Host) playSound(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var handle uint32
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &handle); err != nil {
		return nil, err
	}
	if err := h.bindings.PlaySound(handle); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.None, nil
}
