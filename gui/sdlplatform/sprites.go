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
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

// sentinal error patterns for image loading
const (
	ImageError = "sdl: image: %s: %v"
)

type texture struct {
	id     uint32
	width  int32
	height int32
}

// spriteRenderer draws textured quads in window coordinates.
type spriteRenderer struct {
	shader shader
	vao    uint32
	vbo    uint32

	// textures are indexed by handle-1
	textures []texture

	proj [4][4]float32
}

func newSpriteRenderer() *spriteRenderer {
	spr := &spriteRenderer{}
	spr.shader.createProgram(spriteVertexShader, spriteFragmentShader)
	gl.GenVertexArrays(1, &spr.vao)
	gl.GenBuffers(1, &spr.vbo)
	return spr
}

func (spr *spriteRenderer) destroy() {
	for _, t := range spr.textures {
		gl.DeleteTextures(1, &t.id)
	}
	spr.textures = spr.textures[:0]
	gl.DeleteBuffers(1, &spr.vbo)
	gl.DeleteVertexArrays(1, &spr.vao)
	spr.shader.destroy()
}

// decodeImage loads an image file and converts it to non-premultiplied RGBA.
func decodeImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(ImageError, path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, curated.Errorf(ImageError, path, err)
	}

	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	return img, nil
}

// load an image into a new texture. every call returns a new handle, even if
// the path has been loaded before.
func (spr *spriteRenderer) load(path string) (uint32, error) {
	img, err := decodeImage(path)
	if err != nil {
		return 0, err
	}

	t := texture{
		width:  int32(img.Rect.Dx()),
		height: int32(img.Rect.Dy()),
	}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	spr.textures = append(spr.textures, t)
	logger.Logf(logger.Allow, logTag, "%s: %dx%d texture", path, t.width, t.height)

	return uint32(len(spr.textures)), nil
}

// begin a new frame. guest coordinates are window coordinates divided by the
// scale.
func (spr *spriteRenderer) begin(displaySize [2]float32, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	spr.proj = ortho(displaySize[0]/scale, displaySize[1]/scale)
}

// quad returns the vertices of a sprite as a triangle strip. each vertex is
// position followed by texture coordinate.
func quad(x, y, width, height float32) [16]float32 {
	return [16]float32{
		x, y, 0, 0,
		x + width, y, 1, 0,
		x, y + height, 0, 1,
		x + width, y + height, 1, 1,
	}
}

func (spr *spriteRenderer) draw(tex uint32, x, y, scale float32, tint [4]float32) {
	if tex == 0 || int(tex) > len(spr.textures) {
		return
	}
	t := spr.textures[tex-1]

	verts := quad(x, y, float32(t.width)*scale, float32(t.height)*scale)

	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(spr.shader.handle)
	gl.UniformMatrix4fv(spr.shader.projMtx, 1, false, &spr.proj[0][0])
	gl.Uniform4f(spr.shader.tint, tint[0], tint[1], tint[2], tint[3])
	gl.Uniform1i(spr.shader.texture, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.BindVertexArray(spr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, spr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(&verts[0]), gl.STREAM_DRAW)

	gl.EnableVertexAttribArray(uint32(spr.shader.position))
	gl.EnableVertexAttribArray(uint32(spr.shader.uv))
	gl.VertexAttribPointerWithOffset(uint32(spr.shader.position), 2, gl.FLOAT, false, 16, 0)
	gl.VertexAttribPointerWithOffset(uint32(spr.shader.uv), 2, gl.FLOAT, false, 16, 8)

	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}
