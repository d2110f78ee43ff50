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

// Package vm is the frame state machine at the centre of the program. It runs
// a guest program one frame at a time, records every frame with the rewind
// package and allows recorded frames to be played back, replayed with new
// guest code, or stepped through.
//
// The VM is in one of four modes:
//
//	Advance: run the guest with live input and record a new frame every tick
//	Pause: nothing runs. the frame at the current position is displayed
//	Playback: restore and re-run recorded frames without changing history
//	Replay: re-run recorded frames with recorded input and newest guest code,
//	        overwriting history
//
// Playback and Replay pause automatically when the last recorded frame is
// reached. The guest program pauses the VM by trapping.
//
// The guest program and every image it loads are watched for changes. A
// changed guest program is recompiled and takes effect at the next frame
// boundary. If a replay mark is set, a reload starts a Replay from the mark.
//
// The VM is not safe for concurrent use.
package vm
