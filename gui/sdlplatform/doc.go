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

// Package sdlplatform implements the platform.Platform, platform.Renderer and
// platform.Audio interfaces with SDL and OpenGL. It is the platform used by
// the RUN mode of gamevm.
//
// Sprites are drawn with a simple textured quad shader. The debug overlay is
// drawn with Dear Imgui ("github.com/inkyblackness/imgui-go/v4") and
// implements the vm.DebugUI interface. The overlay is toggled with the F1 key.
//
// Sound effects are decoded by the sound package, resampled to the rate of
// the audio device and mixed into a queue that is sent to SDL at the end of
// every frame.
//
// All functions must be called from the main thread.
package sdlplatform
