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
	"errors"
	"math"
	"os"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

// MaxModules is the number of guest modules that can be compiled during the
// lifetime of the Host. Modules are never unloaded because a snapshot may
// refer to any of them.
const MaxModules = 256

// ModuleID identifies a compiled module. The zero value is invalid.
type ModuleID uint32

// sentinel patterns. CompileError is returned by Compile(), the others are
// raised with panic()
const (
	CompileError      = "guest: compile: %s: %v"
	SetupError        = "guest: setup: %v"
	ModuleTableFull   = "guest: module table is full (%d modules)"
	UnknownModule     = "guest: unknown module (%d)"
	MissingEntryPoint = "guest: %s: missing entry point %q"
	TrapOutsideCall   = "guest: trap outside of an update or render call"
)

// names of the entry points a guest program must define.
const (
	EntrySetup  = "setup"
	EntryUpdate = "update"
	EntryRender = "render"
)

// Module is a compiled guest program.
type Module struct {
	Path string

	globals starlark.StringDict
	setup   starlark.Callable
	update  starlark.Callable
	render  starlark.Callable
}

// Host compiles guest programs and calls their entry points.
type Host struct {
	bindings    Bindings
	predeclared starlark.StringDict
	modules     []*Module

	// the thread used for all calls to the entry points
	thread *starlark.Thread

	// maximum number of steps for a single guest call. zero means no limit
	stepLimit uint64

	// recovery points for the trap builtins. a marker is pushed for every
	// update and render call
	markers []marker

	// allocate() is only allowed during the setup call and blobs are
	// read-only during the render call
	settingUp bool
	rendering bool

	// the most recent value returned by the timestamp builtin in the current
	// call
	lastTimestamp uint64

	// guest faults seen since the Host was created
	Faults Faults
}

// NewHost is the preferred method of initialisation for the Host type.
func NewHost(bindings Bindings) *Host {
	h := &Host{
		bindings: bindings,
		modules:  make([]*Module, 0, MaxModules),
		Faults:   NewFaults(),
	}
	h.thread = &starlark.Thread{
		Name:  "guest",
		Print: h.print,
	}
	h.predeclared = h.builtins()
	return h
}

func (h *Host) print(_ *starlark.Thread, msg string) {
	logger.Log(logger.Allow, "guest", msg)
}

// SetStepLimit sets the maximum number of execution steps for a single call
// to a guest entry point. A value of zero means there is no limit.
func (h *Host) SetStepLimit(limit uint64) {
	h.stepLimit = limit
}

var fileOptions = &syntax.FileOptions{
	Set:       true,
	While:     true,
	Recursion: true,
}

// Compile the guest source file. A compile error is returned as an error and
// no module is created. A program that does not define all three entry points
// is a contract violation and will cause a panic.
func (h *Host) Compile(path string) (ModuleID, error) {
	if len(h.modules) >= MaxModules {
		panic(curated.Errorf(ModuleTableFull, MaxModules))
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return 0, curated.Errorf(CompileError, path, err)
	}

	thread := &starlark.Thread{
		Name:  "compile",
		Print: h.print,
	}
	if h.stepLimit > 0 {
		thread.SetMaxExecutionSteps(h.stepLimit)
	}

	globals, err := starlark.ExecFileOptions(fileOptions, thread, path, src, h.predeclared)
	if err != nil {
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			return 0, curated.Errorf(CompileError, path, eerr.Backtrace())
		}
		return 0, curated.Errorf(CompileError, path, err)
	}

	m := &Module{
		Path:    path,
		globals: globals,
	}
	m.setup = entryPoint(path, globals, EntrySetup)
	m.update = entryPoint(path, globals, EntryUpdate)
	m.render = entryPoint(path, globals, EntryRender)

	h.modules = append(h.modules, m)
	id := ModuleID(len(h.modules))

	logger.Logf(logger.Allow, "guest", "compiled %s (module %d)", path, id)

	return id, nil
}

func entryPoint(path string, globals starlark.StringDict, name string) starlark.Callable {
	v, ok := globals[name]
	if !ok {
		panic(curated.Errorf(MissingEntryPoint, path, name))
	}
	c, ok := v.(starlark.Callable)
	if !ok {
		panic(curated.Errorf(MissingEntryPoint, path, name))
	}
	return c
}

// Module returns the compiled module. Panics if the id is invalid.
func (h *Host) Module(id ModuleID) *Module {
	if id == 0 || int(id) > len(h.modules) {
		panic(curated.Errorf(UnknownModule, id))
	}
	return h.modules[id-1]
}

// NumModules returns the number of modules compiled so far.
func (h *Host) NumModules() int {
	return len(h.modules)
}

// Globals returns the names of the global values defined by the module.
func (m *Module) Globals() []string {
	return m.globals.Keys()
}

// prepare thread for a new call to a guest entry point
func (h *Host) prepare() {
	h.thread.Uncancel()
	if h.stepLimit > 0 {
		h.thread.SetMaxExecutionSteps(h.thread.ExecutionSteps() + h.stepLimit)
	} else {
		h.thread.SetMaxExecutionSteps(math.MaxUint64)
	}
	h.lastTimestamp = 0
}

// InvokeSetup calls the setup entry point of the module. The returned value
// is the guest state and is passed to every update and render call. A guest
// error in the setup function is returned as an error. Calling trap() from
// setup is a contract violation and will cause a panic.
func (h *Host) InvokeSetup(id ModuleID) (starlark.Value, error) {
	m := h.Module(id)

	h.prepare()
	h.settingUp = true
	defer func() {
		h.settingUp = false
	}()

	state, err := starlark.Call(h.thread, m.setup, nil, nil)
	if err != nil {
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			return nil, curated.Errorf(SetupError, eerr.Backtrace())
		}
		return nil, curated.Errorf(SetupError, err)
	}

	// freezing the state means the guest can't hide state in lists or dicts
	// that are outside of tracked memory
	state.Freeze()

	return state, nil
}

// InvokeUpdate calls the update entry point of the module.
func (h *Host) InvokeUpdate(id ModuleID, state starlark.Value, t float32, dt float32) Result {
	m := h.Module(id)
	return h.invoke(EntryUpdate, m.update, starlark.Tuple{state, starlark.Float(t), starlark.Float(dt)})
}

// InvokeRender calls the render entry point of the module. Blobs can't be
// written to for the duration of the call.
func (h *Host) InvokeRender(id ModuleID, state starlark.Value) Result {
	m := h.Module(id)

	h.rendering = true
	defer func() {
		h.rendering = false
	}()

	return h.invoke(EntryRender, m.render, starlark.Tuple{state})
}

func (h *Host) invoke(entry string, fn starlark.Callable, args starlark.Tuple) Result {
	h.markers = append(h.markers, marker{entry: entry})
	defer func() {
		h.markers = h.markers[:len(h.markers)-1]
	}()

	h.prepare()

	_, err := starlark.Call(h.thread, fn, args, nil)
	if err == nil {
		return Result{}
	}

	tr := h.trapFromError(err)
	if tr.Reason == ReasonFault || tr.Reason == ReasonSteps {
		h.Faults.NewEntry(tr)
	}

	logger.Logf(logger.Allow, "guest", "%s: %v", entry, tr)

	return Result{Trapped: true, Trap: tr}
}

// trapFromError converts the error returned by the interpreter to a Trap.
// errors that did not originate with a trap builtin are faults.
func (h *Host) trapFromError(err error) *Trap {
	var tr *Trap
	if errors.As(err, &tr) {
		return tr
	}

	tr = &Trap{
		Reason:    ReasonFault,
		Message:   err.Error(),
		Timestamp: h.lastTimestamp,
	}

	var eerr *starlark.EvalError
	if errors.As(err, &eerr) {
		tr.Message = eerr.Msg
		if strings.Contains(eerr.Msg, "too many steps") {
			tr.Reason = ReasonSteps
		}

		// the innermost frame that is not a builtin is where the fault
		// happened
		for i := len(eerr.CallStack) - 1; i >= 0; i-- {
			pos := eerr.CallStack[i].Pos
			if pos.Filename() != "<builtin>" {
				tr.File = pos.Filename()
				tr.Line = int(pos.Line)
				break
			}
		}
	}

	return tr
}

// raise creates a Trap for the trap builtins. the position is the position of
// the guest code that called the builtin.
func (h *Host) raise(thread *starlark.Thread, reason Reason, msg string, ts uint64) error {
	if len(h.markers) == 0 {
		panic(curated.Errorf(TrapOutsideCall))
	}
	pos := thread.CallFrame(1).Pos
	return &Trap{
		Reason:    reason,
		File:      pos.Filename(),
		Line:      int(pos.Line),
		Message:   msg,
		Timestamp: ts,
	}
}
