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
	"go.starlark.net/starlark"

	"github.com/jetsetilly/gamevm/assert"
	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/fswatch"
	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/notifications"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/random"
	"github.com/jetsetilly/gamevm/rewind"
)

const logTag = "vm"

// sentinel patterns
const (
	InitError    = "vm: init: %v"
	UnknownFrame = "vm: unknown frame (%d). last frame is %d"
)

// DebugUI is implemented by user interfaces that draw over the game. Draw() is
// called once per frame, between the guest render and the end of the frame.
// It can return a frame number to seek to. The seek request is honoured only
// while the VM is paused.
type DebugUI interface {
	Draw(st Status) (seek uint32, ok bool)
}

// Options for NewVM().
type Options struct {
	// seed for the random number generator. a value of zero means that a seed
	// is chosen based on the current time
	Seed uint64

	// maximum number of interpreter steps in a single call to a guest entry
	// point. a value of zero means no limit
	StepLimit uint64

	// compress older frames in the history
	Compress bool

	// optional
	Notify  notifications.Notify
	DebugUI DebugUI

	// panic if the VM is used from more than one goroutine
	Debug bool
}

// VM runs the guest program and records its frames.
type VM struct {
	plat platform.Platform
	rend platform.Renderer
	aud  platform.Audio

	opts Options

	tracker *rewind.Tracker
	host    *guest.Host
	watcher *fswatch.Watcher

	// the engine state and a byte view of it. the byte view is the memory of
	// the tracked region
	engine      EngineState
	engineBytes []byte
	region      rewind.RegionID

	// the value returned by the setup function of the guest program. it is
	// frozen and refers only to tracked memory
	state starlark.Value

	// the most recent hot reload state. it is applied to the engine state
	// at the start of every Advance tick and at the start of a Replay
	hotMostRecent HotReloadState

	current uint32
	last    uint32

	mark    uint32
	markSet bool

	// timestamp the guest program should trap at
	stop    uint64
	stopSet bool

	// the frame and sub-frame counter used to make the next timestamp
	tsFrame uint32
	tsSub   uint32

	mode Mode

	// the most recent trap. nil if the VM has been continued since
	err *guest.Trap

	// live input and delta time for the current tick
	live   platform.InputState
	liveDT float32

	// whether the current tick has rendered a frame
	rendered bool

	// requested by the DebugUI during the render of the current tick
	uiSeek    uint32
	uiSeekSet bool

	// side effects of the guest are suppressed while seeking to a timestamp
	quiet bool

	// the live memory of every region at the start of the most recent replay.
	// the first replay tick overwrites the frame it started from so this is
	// the only record of the state that update was given
	replayBase      [][]byte
	replayBaseFrame uint32
	replayBaseSet   bool

	// paths that have an existing watch
	watched map[string]bool

	goroutine assert.SingleGoroutine
}

// NewVM is the preferred method of initialisation for the VM type.
func NewVM(plat platform.Platform, rend platform.Renderer, aud platform.Audio, opts Options) *VM {
	v := &VM{
		plat:    plat,
		rend:    rend,
		aud:     aud,
		opts:    opts,
		tracker: rewind.NewTracker(rewind.MaxRegions),
		watcher: fswatch.NewWatcher(fswatch.MaxWatches),
		watched: make(map[string]bool),
	}
	v.goroutine.Enabled = opts.Debug
	v.host = guest.NewHost(&engine{vm: v})
	v.host.SetStepLimit(opts.StepLimit)
	if opts.Compress {
		if err := v.tracker.SetCompression(true); err != nil {
			logger.Logf(logger.Allow, logTag, "compression: %v", err)
		}
	}
	return v
}

// Init compiles and loads the guest program and records the first frame.
func (v *VM) Init(source string) error {
	v.goroutine.Check()

	v.engineBytes = rewind.Bytes(&v.engine)
	v.region = v.tracker.Track(v.engineBytes)

	seed := v.opts.Seed
	if seed == 0 {
		seed = random.NewSeed()
	}
	v.engine.Random.Seed(seed)
	logger.Logf(logger.Allow, logTag, "random seed: %#016x", seed)

	id, err := v.host.Compile(source)
	if err != nil {
		return curated.Errorf(InitError, err)
	}
	v.engine.GameCode = id
	v.watch(source, func(path string) {
		_ = v.Reload(path)
	})

	v.state, err = v.host.InvokeSetup(id)
	if err != nil {
		return curated.Errorf(InitError, err)
	}

	v.hotMostRecent = v.engine.HotReloadState
	v.saveNextFrame()

	return nil
}

// watch path for changes. a path is only ever watched once
func (v *VM) watch(path string, cb fswatch.Callback) {
	if v.watched[path] {
		return
	}
	v.watched[path] = true
	v.watcher.Watch(path, cb)
}

func (v *VM) notify(notice notifications.Notice) {
	if v.opts.Notify == nil {
		return
	}
	if err := v.opts.Notify.Notify(notice); err != nil {
		logger.Logf(logger.Allow, logTag, "notify: %v", err)
	}
}

// Mode returns the current mode.
func (v *VM) Mode() Mode {
	return v.mode
}

// Host returns the guest code host.
func (v *VM) Host() *guest.Host {
	return v.host
}

// Tracker returns the region tracker that records the frames.
func (v *VM) Tracker() *rewind.Tracker {
	return v.tracker
}

// State returns the value returned by the setup function of the guest
// program.
func (v *VM) State() starlark.Value {
	return v.state
}

// StateBytes returns the memory of the guest state. Returns nil if the setup
// function of the guest program did not return a blob.
func (v *VM) StateBytes() []byte {
	if b, ok := v.state.(*guest.Blob); ok {
		return b.Bytes()
	}
	return nil
}

// Engine returns a copy of the current engine state.
func (v *VM) Engine() EngineState {
	return v.engine
}

// Poll the watched files for changes. Changed files are reloaded. Should be
// called between calls to Tick().
func (v *VM) Poll() bool {
	v.goroutine.Check()
	return v.watcher.Poll()
}

// Run polls the platform for events and ticks the VM until the platform
// requests that the program quit.
func (v *VM) Run() {
	var input platform.InputState
	prev := v.plat.Time()
	for v.plat.PollEvents(&input) {
		now := v.plat.Time()
		dt := float32(now - prev)
		prev = now

		v.Poll()
		v.Tick(&input, dt)
	}
}

// Tick runs one iteration of the current mode.
func (v *VM) Tick(input *platform.InputState, dt float32) {
	v.goroutine.Check()

	v.live = *input
	v.liveDT = dt
	v.rendered = false

	switch v.mode {
	case Advance:
		if v.pressed("space") {
			v.StartPause()
			break
		}
		v.advance()
	case Pause:
		v.pauseKeys()
	case Playback:
		if v.pressed("space") {
			v.StartPause()
			break
		}
		v.tickPlayback()
	case Replay:
		if v.pressed("space") {
			v.StartPause()
			break
		}
		if v.pressed("r") && v.markSet {
			v.StartReplay(v.mark)
			break
		}
		v.tickReplay()
	}

	if !v.rendered {
		res := v.render()
		if res.Trapped && v.err == nil {
			v.err = res.Trap
		}
	}

	if v.uiSeekSet {
		v.uiSeekSet = false
		if v.mode == Pause && v.uiSeek <= v.last {
			v.Seek(v.uiSeek)
		}
	}
}

// saveNextFrame records the engine state as a new frame.
func (v *VM) saveNextFrame() {
	v.current = uint32(v.tracker.Snapshot())
	v.last = v.current
}

func (v *VM) updateTime(dt float32) {
	v.engine.Time += dt
	v.engine.DT = dt
}

func (v *VM) update() guest.Result {
	v.tsSub = 0
	return v.host.InvokeUpdate(v.engine.GameCode, v.state, v.engine.Time, v.engine.DT)
}

func (v *VM) render() guest.Result {
	v.rendered = true

	v.rend.Begin()
	res := v.host.InvokeRender(v.engine.GameCode, v.state)
	if v.opts.DebugUI != nil {
		v.uiSeek, v.uiSeekSet = v.opts.DebugUI.Draw(v.Status())
	}
	v.rend.End()

	return res
}

// trapOf returns the first trap of the results.
func trapOf(results ...guest.Result) *guest.Trap {
	for _, r := range results {
		if r.Trapped {
			return r.Trap
		}
	}
	return nil
}

// trapped pauses the VM and sets the mark at the current frame.
func (v *VM) trapped(tr *guest.Trap) {
	logger.Logf(logger.Allow, logTag, "trapped at frame %d: %v", v.current, tr)
	v.err = tr
	v.mark = v.current
	v.markSet = true
	v.StartPause()
	v.notify(notifications.NotifyTrap)
}

// advance runs one frame with live input and records it.
func (v *VM) advance() {
	v.engine.Input = v.live
	v.engine.HotReloadState = v.hotMostRecent
	v.updateTime(v.liveDT)

	v.tsFrame = v.last + 1
	upd := v.update()
	rnd := v.render()
	v.saveNextFrame()

	if tr := trapOf(upd, rnd); tr != nil {
		v.trapped(tr)
	}
}

// tickPlayback runs the update that produced the frame at the current
// position, for its side effects, and then restores the frame for rendering.
func (v *VM) tickPlayback() {
	frame := v.current

	var upd guest.Result
	if v.restoreUpdate(frame) {
		v.tsFrame = frame
		upd = v.update()
	}
	v.Seek(frame)
	rnd := v.render()

	if tr := trapOf(upd, rnd); tr != nil {
		v.err = tr
		v.StartPause()
		return
	}

	if v.current == v.last {
		v.StartPause()
	} else {
		v.current++
	}
}

// tickReplay runs the frame at the current position with the input recorded
// for that frame and replaces the frame in history with the result.
func (v *VM) tickReplay() {
	id := rewind.SnapshotID(v.current)
	v.tracker.RestorePartial(v.region, id, inputOffset, inputLength, v.engineBytes[inputOffset:inputOffset+inputLength])
	v.updateTime(v.liveDT)

	v.tsFrame = v.current
	upd := v.update()
	rnd := v.render()
	v.tracker.Overwrite(id)

	if tr := trapOf(upd, rnd); tr != nil {
		v.trapped(tr)
		return
	}

	if v.current == v.last {
		v.StartPause()
	} else {
		v.current++
	}
}

// StartAdvance continues from the current frame with live input. Any trap
// error is cleared.
func (v *VM) StartAdvance() {
	v.err = nil
	v.mode = Advance
	v.notify(notifications.NotifyAdvance)
}

// StartPause stops the VM at the current frame. The live state is restored
// from the recording of the current frame.
func (v *VM) StartPause() {
	v.Seek(v.current)
	v.mode = Pause
	v.notify(notifications.NotifyPause)
}

// StartPlayback plays recorded frames from the current frame.
func (v *VM) StartPlayback() {
	v.mode = Playback
	v.notify(notifications.NotifyPlayback)
}

// StartReplay replays recorded frames from the frame with the most recent
// guest code and assets. Any trap error is cleared.
func (v *VM) StartReplay(frame uint32) {
	v.err = nil
	v.Seek(frame)
	v.engine.HotReloadState = v.hotMostRecent

	n := v.tracker.NumRegions()
	if cap(v.replayBase) < n {
		v.replayBase = make([][]byte, n)
	}
	v.replayBase = v.replayBase[:n]
	for i := range n {
		v.replayBase[i] = append(v.replayBase[i][:0], v.tracker.Region(rewind.RegionID(i))...)
	}
	v.replayBaseFrame = frame
	v.replayBaseSet = true

	v.mode = Replay
	logger.Logf(logger.Allow, logTag, "replay from frame %d", frame)
	v.notify(notifications.NotifyReplay)
}
