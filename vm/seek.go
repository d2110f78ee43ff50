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
	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/guest"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/rewind"
)

// the number of frames skipped by the fast step keys
const fastStep = 20

// Seek restores the recorded frame. Seeking to a frame that hasn't been
// recorded is a contract violation and will panic.
func (v *VM) Seek(frame uint32) {
	if frame > v.last {
		panic(curated.Errorf(UnknownFrame, frame, v.last))
	}
	v.tracker.Restore(rewind.SnapshotID(frame))
	v.current = frame
}

// StepForward moves the current position forward by n frames, stopping at
// the last frame. If the current position is already the last frame then a
// new frame is run with live input and recorded.
func (v *VM) StepForward(n uint32) {
	if v.current == v.last {
		v.advance()
		return
	}
	v.Seek(min(v.current+n, v.last))
}

// StepBack moves the current position back by n frames, stopping at the
// first frame.
func (v *VM) StepBack(n uint32) {
	if n > v.current {
		v.Seek(0)
		return
	}
	v.Seek(v.current - n)
}

// ToggleMark sets the replay mark at the current frame. If the mark is
// already at the current frame then it is removed.
func (v *VM) ToggleMark() {
	if v.markSet && v.mark == v.current {
		v.markSet = false
		return
	}
	v.mark = v.current
	v.markSet = true
}

// SeekMark seeks to the replay mark, if it is set.
func (v *VM) SeekMark() {
	if v.markSet {
		v.Seek(v.mark)
	}
}

// restoreUpdate puts the live state back to how it was at the start of the
// update that produced the frame. This is the previous frame with the hot
// reload state, input and time values of the frame. If the frame was the
// first frame of the most recent replay then the state at the start of the
// replay is used instead of the previous frame.
//
// Returns false if no update produced the frame, in which case the live state
// is unchanged.
func (v *VM) restoreUpdate(frame uint32) bool {
	switch {
	case v.replayBaseSet && frame == v.replayBaseFrame:
		for i, b := range v.replayBase {
			copy(v.tracker.Region(rewind.RegionID(i)), b)
		}
		v.current = frame
	case frame == 0:
		return false
	default:
		v.Seek(frame - 1)
	}

	id := rewind.SnapshotID(frame)
	v.tracker.RestorePartial(v.region, id, hotOffset, hotLength, v.engineBytes[hotOffset:hotOffset+hotLength])
	v.tracker.RestorePartial(v.region, id, inputOffset, inputLength, v.engineBytes[inputOffset:inputOffset+inputLength])
	v.tracker.RestorePartial(v.region, id, timeOffset, timeLength, v.engineBytes[timeOffset:timeOffset+timeLength])

	return true
}

// SeekTimestamp restores the state from the start of the update that
// produced the timestamp and runs that update again until the guest program
// reaches the timestamp. The frame number of a timestamp is the frame the
// update produced, whether by Advance, Playback or Replay.
//
// The update is run once only. If the timestamp is not reached, because
// the guest program is not deterministic or has been changed, the current
// frame is restored. Returns true if the timestamp was reached.
//
// On success the VM is paused with the live state as it was at the moment of
// the timestamp. The trap for the timestamp becomes the error.
func (v *VM) SeekTimestamp(ts uint64) bool {
	frame := uint32(ts >> 32)
	if frame > v.last {
		logger.Logf(logger.Allow, logTag, "timestamp %#016x: frame %d has not been recorded", ts, frame)
		return false
	}

	prev := v.current

	if !v.restoreUpdate(frame) {
		logger.Logf(logger.Allow, logTag, "timestamp %#016x: no update produced frame %d", ts, frame)
		return false
	}

	v.stop = ts
	v.stopSet = true
	v.quiet = true
	v.tsFrame = frame
	res := v.update()
	v.stopSet = false
	v.quiet = false

	if res.Trapped && res.Trap.Timestamp == ts {
		if res.Trap.Reason == guest.ReasonStop && v.err != nil && v.err.Timestamp == ts {
			// keep the message of the original trap but with the stopped position
			res.Trap.Message = v.err.Message
		}
		v.err = res.Trap
		v.mode = Pause
		logger.Logf(logger.Allow, logTag, "reached timestamp %#016x at %s:%d", ts, res.Trap.File, res.Trap.Line)
		return true
	}

	logger.Logf(logger.Allow, logTag, "timestamp %#016x was not reached", ts)
	v.Seek(prev)
	return false
}

// pressed returns true if the key was pressed during the current tick.
func (v *VM) pressed(name string) bool {
	sc, ok := v.plat.Scancode(name)
	if !ok {
		return false
	}
	return v.live.Pressed[sc] > 0
}

// pauseKeys applies the key bindings for the Pause mode. Only one action is
// taken per tick.
func (v *VM) pauseKeys() {
	mod := v.live.Mod()
	shift := mod&platform.KeyModShift == platform.KeyModShift
	ctrl := mod&platform.KeyModCtrl == platform.KeyModCtrl

	step := uint32(1)
	if shift {
		step = fastStep
	}

	switch {
	case v.pressed("n"):
		v.StepForward(step)
	case v.pressed("p"):
		v.StepBack(step)
	case v.pressed("e"):
		v.Seek(v.last)
	case v.pressed("c"):
		v.StartAdvance()
	case v.pressed("r"):
		if v.markSet && !ctrl {
			v.StartReplay(v.mark)
		} else {
			v.StartReplay(v.current)
		}
	case v.pressed("m"):
		if ctrl {
			v.SeekMark()
		} else {
			v.ToggleMark()
		}
	case v.pressed("return"):
		v.StartPlayback()
	case v.pressed("t"):
		if v.err != nil && v.err.Timestamp != 0 {
			v.SeekTimestamp(v.err.Timestamp)
		}
	}
}
