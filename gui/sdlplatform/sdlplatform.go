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
	"runtime"
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/jetsetilly/gamevm/logger"
	"github.com/jetsetilly/gamevm/platform"
	"github.com/jetsetilly/gamevm/version"
	"github.com/veandco/go-sdl2/sdl"
)

const logTag = "sdl"

// initial size of the window
const (
	defaultWidth  = 1280
	defaultHeight = 720
)

// Platform is an SDL window with an OpenGL context.
type Platform struct {
	window    *sdl.Window
	glContext sdl.GLContext

	context *imgui.Context
	io      imgui.IO

	gui     *guiRenderer
	sprites *spriteRenderer
	aud     *audio

	Prefs *Preferences

	// performance counter frequency and the value of the counter when the
	// platform was created
	freq  uint64
	start uint64

	// performance counter value at the most recent call to Begin()
	frameTime uint64

	buttonsDown [3]bool

	quit bool
}

// NewPlatform is the preferred method of initialisation for the Platform
// type. The window is open on return.
func NewPlatform() (*Platform, error) {
	// the SDL package calls LockOSThread() but we call it here too. it can't
	// hurt and we never unlock it in any case
	runtime.LockOSThread()

	err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS)
	if err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 2},
		{sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return nil, fmt.Errorf("sdl: %w", err)
		}
	}

	var sdlVersion sdl.Version
	sdl.VERSION(&sdlVersion)
	logger.Logf(logger.Allow, logTag, "version %d.%d.%d", sdlVersion.Major, sdlVersion.Minor, sdlVersion.Patch)

	plt := &Platform{}

	plt.Prefs, err = newPreferences()
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	plt.window, err = sdl.CreateWindow(version.Title(),
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		defaultWidth, defaultHeight,
		sdl.WINDOW_OPENGL|sdl.WINDOW_ALLOW_HIGHDPI|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	plt.glContext, err = plt.window.GLCreateContext()
	if err != nil {
		plt.Destroy()
		return nil, fmt.Errorf("sdl: %w", err)
	}
	err = plt.window.GLMakeCurrent(plt.glContext)
	if err != nil {
		plt.Destroy()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	if err := sdl.GLSetSwapInterval(1); err != nil {
		logger.Logf(logger.Allow, logTag, "GLSetSwapInterval(1): %v", err)
	}

	err = gl.Init()
	if err != nil {
		plt.Destroy()
		return nil, fmt.Errorf("sdl: gl: %w", err)
	}
	logger.Logf(logger.Allow, logTag, "using GL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	plt.context = imgui.CreateContext(nil)
	plt.io = imgui.CurrentIO()
	plt.setKeyMapping()

	plt.gui, err = newGuiRenderer()
	if err != nil {
		plt.Destroy()
		return nil, err
	}

	plt.sprites = newSpriteRenderer()

	// a missing audio device is not fatal. sounds are decoded but not played
	plt.aud = newAudio()

	plt.freq = sdl.GetPerformanceFrequency()
	plt.start = sdl.GetPerformanceCounter()

	return plt, nil
}

// Destroy cleans up the resources of the platform.
func (plt *Platform) Destroy() {
	if plt.aud != nil {
		plt.aud.destroy()
		plt.aud = nil
	}
	if plt.sprites != nil {
		plt.sprites.destroy()
		plt.sprites = nil
	}
	if plt.gui != nil {
		plt.gui.destroy()
		plt.gui = nil
	}
	if plt.context != nil {
		plt.context.Destroy()
		plt.context = nil
	}
	if plt.glContext != nil {
		sdl.GLDeleteContext(plt.glContext)
		plt.glContext = nil
	}
	if plt.window != nil {
		if err := plt.window.Destroy(); err != nil {
			logger.Logf(logger.Allow, logTag, "%v", err)
		}
		plt.window = nil
	}
	sdl.Quit()
}

// PollEvents implements the platform.Platform interface.
func (plt *Platform) PollEvents(input *platform.InputState) bool {
	input.BeginFrame()

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			plt.quit = true

		case *sdl.TextInputEvent:
			plt.io.AddInputCharacters(strings.TrimRight(string(ev.Text[:]), "\x00"))

		case *sdl.MouseWheelEvent:
			var deltaX, deltaY float32
			if ev.X > 0 {
				deltaX++
			} else if ev.X < 0 {
				deltaX--
			}
			if ev.Y > 0 {
				deltaY++
			} else if ev.Y < 0 {
				deltaY--
			}
			plt.io.AddMouseWheelDelta(-deltaX/4, deltaY/4)

		case *sdl.MouseButtonEvent:
			if ev.Type == sdl.MOUSEBUTTONDOWN {
				switch ev.Button {
				case sdl.BUTTON_LEFT:
					plt.buttonsDown[0] = true
				case sdl.BUTTON_RIGHT:
					plt.buttonsDown[1] = true
				case sdl.BUTTON_MIDDLE:
					plt.buttonsDown[2] = true
				}
			}

		case *sdl.KeyboardEvent:
			plt.serviceKeyboard(ev, input)
		}
	}

	return !plt.quit
}

func (plt *Platform) serviceKeyboard(ev *sdl.KeyboardEvent, input *platform.InputState) {
	sc := int(ev.Keysym.Scancode)

	switch ev.Type {
	case sdl.KEYDOWN:
		plt.io.KeyPress(sc)
		plt.updateKeyModifier()

		if ev.Repeat != 0 {
			return
		}

		if ev.Keysym.Scancode == sdl.SCANCODE_F1 {
			if err := plt.Prefs.Overlay.Set(!plt.Prefs.Overlay.Get().(bool)); err != nil {
				logger.Logf(logger.Allow, logTag, "%v", err)
			}
			return
		}

		// the overlay has keyboard focus
		if plt.io.WantCaptureKeyboard() {
			return
		}

		input.KeyDown(sc)

	case sdl.KEYUP:
		plt.io.KeyRelease(sc)
		plt.updateKeyModifier()

		// key up events are always forwarded so that keys are never stuck
		input.KeyUp(sc)
	}
}

func (plt *Platform) setKeyMapping() {
	keys := map[int]int{
		imgui.KeyTab:        sdl.SCANCODE_TAB,
		imgui.KeyLeftArrow:  sdl.SCANCODE_LEFT,
		imgui.KeyRightArrow: sdl.SCANCODE_RIGHT,
		imgui.KeyUpArrow:    sdl.SCANCODE_UP,
		imgui.KeyDownArrow:  sdl.SCANCODE_DOWN,
		imgui.KeyPageUp:     sdl.SCANCODE_PAGEUP,
		imgui.KeyPageDown:   sdl.SCANCODE_PAGEDOWN,
		imgui.KeyHome:       sdl.SCANCODE_HOME,
		imgui.KeyEnd:        sdl.SCANCODE_END,
		imgui.KeyInsert:     sdl.SCANCODE_INSERT,
		imgui.KeyDelete:     sdl.SCANCODE_DELETE,
		imgui.KeyBackspace:  sdl.SCANCODE_BACKSPACE,
		imgui.KeySpace:      sdl.SCANCODE_SPACE,
		imgui.KeyEnter:      sdl.SCANCODE_RETURN,
		imgui.KeyEscape:     sdl.SCANCODE_ESCAPE,
		imgui.KeyA:          sdl.SCANCODE_A,
		imgui.KeyC:          sdl.SCANCODE_C,
		imgui.KeyV:          sdl.SCANCODE_V,
		imgui.KeyX:          sdl.SCANCODE_X,
		imgui.KeyY:          sdl.SCANCODE_Y,
		imgui.KeyZ:          sdl.SCANCODE_Z,
	}

	for imguiKey, nativeKey := range keys {
		plt.io.KeyMap(imguiKey, nativeKey)
	}
}

func (plt *Platform) updateKeyModifier() {
	modState := sdl.GetModState()
	mapModifier := func(lMask sdl.Keymod, lKey int, rMask sdl.Keymod, rKey int) (lResult int, rResult int) {
		if (modState & lMask) != 0 {
			lResult = lKey
		}
		if (modState & rMask) != 0 {
			rResult = rKey
		}
		return
	}
	plt.io.KeyShift(mapModifier(sdl.KMOD_LSHIFT, sdl.SCANCODE_LSHIFT, sdl.KMOD_RSHIFT, sdl.SCANCODE_RSHIFT))
	plt.io.KeyCtrl(mapModifier(sdl.KMOD_LCTRL, sdl.SCANCODE_LCTRL, sdl.KMOD_RCTRL, sdl.SCANCODE_RCTRL))
	plt.io.KeyAlt(mapModifier(sdl.KMOD_LALT, sdl.SCANCODE_LALT, sdl.KMOD_RALT, sdl.SCANCODE_RALT))
}

// Scancode implements the platform.Platform interface. SDL scancodes are the
// same as the scancodes used by the platform package so any name that SDL
// understands is also accepted.
func (plt *Platform) Scancode(name string) (int, bool) {
	if sc, ok := platform.Scancode(name); ok {
		return sc, true
	}
	sc := sdl.GetScancodeFromName(name)
	if sc == sdl.SCANCODE_UNKNOWN {
		return 0, false
	}
	return int(sc), true
}

// Time implements the platform.Platform interface.
func (plt *Platform) Time() float64 {
	return float64(sdl.GetPerformanceCounter()-plt.start) / float64(plt.freq)
}

// displaySize returns the dimension of the display.
func (plt *Platform) displaySize() [2]float32 {
	w, h := plt.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

// framebufferSize returns the dimension of the framebuffer.
func (plt *Platform) framebufferSize() [2]float32 {
	w, h := plt.window.GLGetDrawableSize()
	return [2]float32{float32(w), float32(h)}
}

// newFrame forwards the window state to imgui.
func (plt *Platform) newFrame() {
	displaySize := plt.displaySize()
	plt.io.SetDisplaySize(imgui.Vec2{X: displaySize[0], Y: displaySize[1]})

	// setup time step. we don't use SDL_GetTicks() because it is using
	// millisecond resolution
	now := sdl.GetPerformanceCounter()
	if plt.frameTime > 0 {
		plt.io.SetDeltaTime(float32(now-plt.frameTime) / float32(plt.freq))
	} else {
		plt.io.SetDeltaTime(1.0 / 60.0)
	}
	plt.frameTime = now

	// if a mouse press event came, always pass it as "mouse held this frame",
	// so we don't miss click-release events that are shorter than 1 frame
	x, y, state := sdl.GetMouseState()
	plt.io.SetMousePosition(imgui.Vec2{X: float32(x), Y: float32(y)})
	for i, button := range []uint32{sdl.BUTTON_LEFT, sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE} {
		plt.io.SetMouseButtonDown(i, plt.buttonsDown[i] || (state&sdl.Button(button)) != 0)
		plt.buttonsDown[i] = false
	}
}

// Begin implements the platform.Renderer interface.
func (plt *Platform) Begin() {
	plt.newFrame()
	imgui.NewFrame()

	fb := plt.framebufferSize()
	gl.Viewport(0, 0, int32(fb[0]), int32(fb[1]))
	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	scale := float32(plt.Prefs.Scale.Get().(float64))
	plt.sprites.begin(plt.displaySize(), scale)
}

// End implements the platform.Renderer interface.
func (plt *Platform) End() {
	// this call only creates the draw data list. actual rendering to the
	// framebuffer is done by the gui renderer
	imgui.Render()
	plt.gui.render(plt.displaySize(), plt.framebufferSize())
	plt.aud.flush()
	plt.window.GLSwap()
}

// LoadImage implements the platform.Renderer interface.
func (plt *Platform) LoadImage(path string) (uint32, error) {
	return plt.sprites.load(path)
}

// DrawSprite implements the platform.Renderer interface.
func (plt *Platform) DrawSprite(tex uint32, x, y, scale, r, g, b, a float32) {
	plt.sprites.draw(tex, x, y, scale, [4]float32{r, g, b, a})
}

// LoadSound implements the platform.Audio interface.
func (plt *Platform) LoadSound(path string) (uint32, error) {
	return plt.aud.load(path)
}

// PlaySound implements the platform.Audio interface.
func (plt *Platform) PlaySound(snd uint32) {
	plt.aud.play(snd)
}
