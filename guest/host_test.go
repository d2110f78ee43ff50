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

package guest_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.starlark.net/starlark"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/test"
)

type sprite struct {
	handle uint32
	x, y   float32
	scale  float32
}

// bindings is a minimal implementation of guest.Bindings
type bindings struct {
	allocs  [][]byte
	sprites []sprite
	images  []string
	down    map[string]bool
	pressed map[string]int

	ts      uint64
	stop    uint64
	hasStop bool
}

func newBindings() *bindings {
	return &bindings{
		down:    make(map[string]bool),
		pressed: make(map[string]int),
	}
}

func (b *bindings) Allocate(size int) ([]byte, error) {
	m := make([]byte, size)
	b.allocs = append(b.allocs, m)
	return m, nil
}

func (b *bindings) LoadImage(path string) (uint32, error) {
	b.images = append(b.images, path)
	return uint32(len(b.images)), nil
}

func (b *bindings) DrawSprite(handle uint32, x, y, scale, _, _, _, _ float32) error {
	if handle == 0 || int(handle) > len(b.images) {
		return fmt.Errorf("invalid handle (%d)", handle)
	}
	b.sprites = append(b.sprites, sprite{handle: handle, x: x, y: y, scale: scale})
	return nil
}

func (b *bindings) IsKeyDown(name string) (bool, error) {
	if name == "nosuchkey" {
		return false, fmt.Errorf("unknown key %q", name)
	}
	return b.down[name], nil
}

func (b *bindings) KeyPressed(name string) (int, error) {
	return b.pressed[name], nil
}

func (b *bindings) KeyReleased(name string) (int, error) {
	return 0, nil
}

func (b *bindings) RandomFloat() float32 {
	return 0.5
}

func (b *bindings) Timestamp() (uint64, bool) {
	ts := b.ts
	b.ts++
	return ts, b.hasStop && ts == b.stop
}

func (b *bindings) LoadSound(path string) (uint32, error) {
	return 1, nil
}

func (b *bindings) PlaySound(handle uint32) error {
	return nil
}

// write guest source to a temporary file and return the path
func source(t *testing.T, src string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "game.star")
	err := os.WriteFile(fn, []byte(strings.TrimLeft(src, "\n")), 0600)
	test.DemandSuccess(t, err)
	return fn
}

const counterGame = `
def setup():
    s = allocate(8)
    s.set_u32(0, 0)
    return s

def update(state, t, dt):
    state.set_u32(0, state.u32(0) + 1)
    trap_if(state.u32(0) == 3, "three")
    state.set_u32(4, state.u32(4) + 1)

def render(state):
    draw_sprite(1, state.u32(0), 2.5, scale=2)
`

func TestSetupUpdateRender(t *testing.T) {
	b := newBindings()
	b.LoadImage("test.png")
	h := guest.NewHost(b)

	id, err := h.Compile(source(t, counterGame))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, guest.ModuleID(1))

	state, err := h.InvokeSetup(id)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(b.allocs), 1)
	test.ExpectEquality(t, len(b.allocs[0]), 8)

	res := h.InvokeUpdate(id, state, 0, 1.0/60)
	test.ExpectFailure(t, res.Trapped)
	res = h.InvokeRender(id, state)
	test.ExpectFailure(t, res.Trapped)

	test.DemandEquality(t, len(b.sprites), 1)
	test.ExpectEquality(t, b.sprites[0], sprite{handle: 1, x: 1, y: 2.5, scale: 2})
}

// the example program in the package documentation is extracted from the
// indented block of doc.go and must run as written
func TestDocumentationExample(t *testing.T) {
	doc, err := os.ReadFile("doc.go")
	test.DemandSuccess(t, err)

	var lines []string
	for _, l := range strings.Split(string(doc), "\n") {
		if strings.HasPrefix(l, "//\t") {
			lines = append(lines, strings.TrimPrefix(l, "//\t"))
		} else if l == "//" && len(lines) > 0 {
			lines = append(lines, "")
		} else if len(lines) > 0 {
			break
		}
	}
	example := strings.TrimSpace(strings.Join(lines, "\n"))
	test.DemandSuccess(t, strings.HasPrefix(example, "def setup():"))

	b := newBindings()
	b.down["right"] = true
	h := guest.NewHost(b)

	id, err := h.Compile(source(t, example+"\n"))
	test.DemandSuccess(t, err)

	state, err := h.InvokeSetup(id)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, len(b.images), 1)
	test.ExpectEquality(t, b.images[0], "ship.png")

	res := h.InvokeUpdate(id, state, 0, 0.5)
	test.ExpectFailure(t, res.Trapped)
	res = h.InvokeRender(id, state)
	test.ExpectFailure(t, res.Trapped)

	test.DemandEquality(t, len(b.sprites), 1)
	test.ExpectEquality(t, b.sprites[0], sprite{handle: 1, x: 130, y: 200, scale: 1})
}

func TestTrap(t *testing.T) {
	b := newBindings()
	h := guest.NewHost(b)

	path := source(t, counterGame)
	id, err := h.Compile(path)
	test.DemandSuccess(t, err)
	state, err := h.InvokeSetup(id)
	test.DemandSuccess(t, err)

	mem := b.allocs[0]

	for i := 0; i < 2; i++ {
		res := h.InvokeUpdate(id, state, 0, 0)
		test.ExpectFailure(t, res.Trapped)
	}
	test.ExpectEquality(t, mem[0], uint8(2))
	test.ExpectEquality(t, mem[4], uint8(2))

	// the third update traps. the increment before the trap is seen but the
	// increment after the trap is not
	res := h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, mem[0], uint8(3))
	test.ExpectEquality(t, mem[4], uint8(2))

	test.ExpectEquality(t, res.Trap.Reason, guest.ReasonTrap)
	test.ExpectEquality(t, res.Trap.File, path)
	test.ExpectEquality(t, res.Trap.Line, 8)
	test.ExpectEquality(t, res.Trap.Message, "three")

	// the trap took a timestamp
	test.ExpectEquality(t, res.Trap.Timestamp, uint64(0))

	// the guest can continue after a trap
	res = h.InvokeUpdate(id, state, 0, 0)
	test.ExpectFailure(t, res.Trapped)
	test.ExpectEquality(t, mem[0], uint8(4))
	test.ExpectEquality(t, mem[4], uint8(3))

	// traps are not faults
	test.ExpectEquality(t, len(h.Faults.Log), 0)
}

func TestTrapOutsideCall(t *testing.T) {
	h := guest.NewHost(newBindings())

	r := test.ExpectPanic(t, func() {
		h.Compile(source(t, `
trap()
def setup(): return None
def update(s, t, dt): pass
def render(s): pass
`))
	})
	test.ExpectSuccess(t, curated.Is(r.(error), guest.TrapOutsideCall))

	id, err := h.Compile(source(t, `
def setup():
    trap("in setup")
def update(s, t, dt): pass
def render(s): pass
`))
	test.DemandSuccess(t, err)
	test.ExpectPanic(t, func() { h.InvokeSetup(id) })
}

func TestCompileError(t *testing.T) {
	h := guest.NewHost(newBindings())

	_, err := h.Compile(source(t, "def setup(:\n"))
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, guest.CompileError))
	test.ExpectEquality(t, h.NumModules(), 0)

	_, err = h.Compile(filepath.Join(t.TempDir(), "missing.star"))
	test.ExpectFailure(t, err)

	// runtime error during initialisation of the module is a compile error
	_, err = h.Compile(source(t, "x = 1 // 0\n"))
	test.ExpectSuccess(t, curated.Is(err, guest.CompileError))
	test.ExpectEquality(t, h.NumModules(), 0)
}

func TestMissingEntryPoint(t *testing.T) {
	h := guest.NewHost(newBindings())

	r := test.ExpectPanic(t, func() {
		h.Compile(source(t, `
def setup(): return None
def update(s, t, dt): pass
`))
	})
	test.ExpectSuccess(t, curated.Is(r.(error), guest.MissingEntryPoint))

	r = test.ExpectPanic(t, func() {
		h.Compile(source(t, `
def setup(): return None
update = 10
def render(s): pass
`))
	})
	test.ExpectSuccess(t, curated.Is(r.(error), guest.MissingEntryPoint))
}

func TestFaults(t *testing.T) {
	b := newBindings()
	h := guest.NewHost(b)

	path := source(t, `
def setup():
    return allocate(4)

def update(s, t, dt):
    if is_key_down("x"):
        s.set_u32(2, 1)
    is_key_down("nosuchkey")

def render(s):
    s.set_u8(0, 1)
`)
	id, err := h.Compile(path)
	test.DemandSuccess(t, err)
	state, err := h.InvokeSetup(id)
	test.DemandSuccess(t, err)

	// an error returned by the bindings is a fault
	res := h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, res.Trap.Reason, guest.ReasonFault)
	test.ExpectEquality(t, res.Trap.File, path)
	test.ExpectEquality(t, res.Trap.Line, 7)
	test.ExpectSuccess(t, strings.Contains(res.Trap.Message, "nosuchkey"))

	// out of range blob access
	b.down["x"] = true
	res = h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, res.Trap.Line, 6)

	// blobs are read-only during render
	res = h.InvokeRender(id, state)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectSuccess(t, strings.Contains(res.Trap.Message, "read-only"))
	test.ExpectEquality(t, b.allocs[0][0], uint8(0))

	test.ExpectEquality(t, len(h.Faults.Log), 3)

	// same fault again is counted rather than added
	b.down["x"] = false
	h.InvokeUpdate(id, state, 0, 0)
	test.ExpectEquality(t, len(h.Faults.Log), 3)
	test.ExpectEquality(t, h.Faults.Log[0].Count, 2)
}

func TestAllocateOutsideLoad(t *testing.T) {
	h := guest.NewHost(newBindings())
	id, err := h.Compile(source(t, `
def setup(): return None
def update(s, t, dt):
    allocate(10)
def render(s): pass
`))
	test.DemandSuccess(t, err)
	state, err := h.InvokeSetup(id)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, state, starlark.Value(starlark.None))

	res := h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, res.Trap.Reason, guest.ReasonFault)
}

func TestStepLimit(t *testing.T) {
	h := guest.NewHost(newBindings())
	h.SetStepLimit(10000)

	id, err := h.Compile(source(t, `
def setup(): return None
def update(s, t, dt):
    while True:
        pass
def render(s): pass
`))
	test.DemandSuccess(t, err)
	state, _ := h.InvokeSetup(id)

	res := h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, res.Trap.Reason, guest.ReasonSteps)

	// the limit applies to each call separately. the render call is short
	res = h.InvokeRender(id, state)
	test.ExpectFailure(t, res.Trapped)
}

func TestTimestamp(t *testing.T) {
	b := newBindings()
	h := guest.NewHost(b)

	id, err := h.Compile(source(t, `
def setup():
    return allocate(1)
def update(s, t, dt):
    for i in range(5):
        timestamp()
        s[0] = s[0] + 1
def render(s): pass
`))
	test.DemandSuccess(t, err)
	state, _ := h.InvokeSetup(id)

	b.stop = 3
	b.hasStop = true
	res := h.InvokeUpdate(id, state, 0, 0)
	test.DemandSuccess(t, res.Trapped)
	test.ExpectEquality(t, res.Trap.Reason, guest.ReasonStop)
	test.ExpectEquality(t, res.Trap.Timestamp, uint64(3))
	test.ExpectEquality(t, res.Trap.Line, 5)

	// the loop was stopped at the fourth timestamp
	test.ExpectEquality(t, b.allocs[0][0], uint8(3))
}

func TestReloadKeepsHandles(t *testing.T) {
	b := newBindings()
	h := guest.NewHost(b)

	a, err := h.Compile(source(t, `
def setup():
    s = allocate(4)
    s.set_u32(0, load_image("a.png"))
    load_image("b.png")
    return s
def update(s, t, dt): pass
def render(s):
    if is_key_down("space"):
        draw_sprite(s.u32(0), 1, 1)
`))
	test.DemandSuccess(t, err)
	state, err := h.InvokeSetup(a)
	test.DemandSuccess(t, err)

	// new module replaces the old one without calling setup again
	c, err := h.Compile(source(t, `
def setup(): return None
def update(s, t, dt): pass
def render(s):
    if is_key_down("space"):
        draw_sprite(s.u32(0), 2, 2)
        draw_sprite(2, 3, 3)
`))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, c, guest.ModuleID(2))

	b.down["space"] = true
	test.ExpectFailure(t, h.InvokeRender(a, state).Trapped)
	test.ExpectFailure(t, h.InvokeRender(c, state).Trapped)

	test.DemandEquality(t, len(b.sprites), 3)
	test.ExpectEquality(t, b.sprites[0].handle, uint32(1))
	test.ExpectEquality(t, b.sprites[1].handle, uint32(1))
	test.ExpectEquality(t, b.sprites[2].handle, uint32(2))
	test.ExpectEquality(t, len(b.images), 2)
}

func TestModuleTable(t *testing.T) {
	h := guest.NewHost(newBindings())
	path := source(t, `
def setup(): return None
def update(s, t, dt): pass
def render(s): pass
`)
	for i := 0; i < guest.MaxModules; i++ {
		_, err := h.Compile(path)
		test.DemandSuccess(t, err)
	}

	r := test.ExpectPanic(t, func() { h.Compile(path) })
	test.ExpectSuccess(t, curated.Is(r.(error), guest.ModuleTableFull))

	r = test.ExpectPanic(t, func() { h.Module(0) })
	test.ExpectSuccess(t, curated.Is(r.(error), guest.UnknownModule))
}
