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

// Mode of the VM.
type Mode int

// List of valid Mode values.
const (
	Advance Mode = iota
	Pause
	Playback
	Replay
)

func (m Mode) String() string {
	switch m {
	case Advance:
		return "advance"
	case Pause:
		return "pause"
	case Playback:
		return "playback"
	case Replay:
		return "replay"
	}
	return "unknown mode"
}
