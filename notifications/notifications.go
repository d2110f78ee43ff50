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

package notifications

// Notice describes events that somehow change the presentation of the VM.
// These notifications can be used to present additional information to the
// user
type Notice string

// List of defined notifications.
const (
	// the guest program has been recompiled
	NotifyReload       Notice = "NotifyReload"
	NotifyReloadFailed Notice = "NotifyReloadFailed"

	// an asset loaded by the guest program has been reloaded
	NotifyAssetReload       Notice = "NotifyAssetReload"
	NotifyAssetReloadFailed Notice = "NotifyAssetReloadFailed"

	// the guest program has trapped and the VM is paused
	NotifyTrap Notice = "NotifyTrap"

	// changes of VM mode
	NotifyPause    Notice = "NotifyPause"
	NotifyAdvance  Notice = "NotifyAdvance"
	NotifyPlayback Notice = "NotifyPlayback"
	NotifyReplay   Notice = "NotifyReplay"
)

// Notify is implemented by any type that wants to be told about events in
// the VM.
type Notify interface {
	Notify(notice Notice) error
}
