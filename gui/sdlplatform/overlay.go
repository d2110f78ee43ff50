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

package sdlplatform

import (
	"fmt"
	"strings"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/jetsetilly/gamevm/inspector"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/version"
	"github.com/jetsetilly/gamevm/vm"
)

const (
	overlayTitle   = version.ApplicationName
	inspectorTitle = "State Inspector"
)

// number of log entries shown in the overlay
const logTail = 10

var errorColor = imgui.Vec4{X: 1.0, Y: 0.4, Z: 0.4, W: 1.0}

// Overlay is the debug overlay. It implements the vm.DebugUI interface.
type Overlay struct {
	prefs *Preferences

	// the state inspector is only shown if the layout is not nil
	layout *inspector.Layout
	state  func() []byte
}

// NewOverlay is the preferred method of initialisation for the Overlay type.
// The layout can be nil. The state function returns the current memory of
// the guest state.
func NewOverlay(plt *Platform, layout *inspector.Layout, state func() []byte) *Overlay {
	return &Overlay{
		prefs:  plt.Prefs,
		layout: layout,
		state:  state,
	}
}

// Draw implements the vm.DebugUI interface. The frame slider is only shown
// while the VM is paused.
func (ov *Overlay) Draw(st vm.Status) (uint32, bool) {
	if !ov.prefs.Overlay.Get().(bool) {
		return 0, false
	}

	var seek uint32
	var ok bool

	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{X: 0, Y: 0})
	if imgui.BeginV(overlayTitle, nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.Text(fmt.Sprintf("mode: %s", st.Mode))
		imgui.Text(fmt.Sprintf("frame: %d of %d", st.Current, st.Last))
		if st.MarkSet {
			imgui.Text(fmt.Sprintf("mark: %d", st.Mark))
		} else {
			imgui.Text("mark: none")
		}
		imgui.Text(fmt.Sprintf("time: %.2fs", st.Time))

		if st.Error != nil {
			imgui.PushStyleColor(imgui.StyleColorText, errorColor)
			imgui.Text(st.Error.Error())
			imgui.PopStyleColor()
		}

		if st.Mode == vm.Pause && st.Last > 0 {
			pos := int32(st.Current)
			if imgui.SliderInt("Frame", &pos, 0, int32(st.Last)) {
				seek = uint32(pos)
				ok = true
			}
		}

		imgui.Separator()
		for _, h := range st.Help() {
			imgui.Text(h)
		}

		imgui.Separator()
		imgui.Text(fmt.Sprintf("history: %d frames in %s", st.Regions.Snapshots, byteCount(st.Regions.StoredBytes)))
		if st.Regions.StoredBytes != st.Regions.RawBytes {
			imgui.Text(fmt.Sprintf("uncompressed: %s", byteCount(st.Regions.RawBytes)))
		}
		if st.Faults > 0 {
			imgui.Text(fmt.Sprintf("guest faults: %d", st.Faults))
		}

		if imgui.CollapsingHeader("Log") {
			var sb strings.Builder
			logger.Tail(&sb, logTail)
			imgui.Text(sb.String())
		}
		imgui.Text("F1: hide overlay")
	}
	imgui.End()

	if ov.layout != nil {
		ov.drawInspector()
	}

	return seek, ok
}

func (ov *Overlay) drawInspector() {
	imgui.SetNextWindowPosV(imgui.Vec2{X: 10, Y: 400}, imgui.ConditionFirstUseEver, imgui.Vec2{X: 0, Y: 0})
	if imgui.BeginV(inspectorTitle, nil, imgui.WindowFlagsNone) {
		n, err := ov.layout.Inspect("state", ov.state())
		if err != nil {
			imgui.Text(err.Error())
		} else {
			drawNode(n)
		}
	}
	imgui.End()
}

func drawNode(n *inspector.Node) {
	if n.Leaf() {
		imgui.BulletText(n.String())
		return
	}
	if imgui.TreeNodeV(n.String(), imgui.TreeNodeFlagsDefaultOpen) {
		for _, c := range n.Children {
			drawNode(c)
		}
		imgui.TreePop()
	}
}

// byteCount formats a number of bytes using the largest suitable unit.
func byteCount(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(n)/float64(div), "KMGTPE"[exp])
}
