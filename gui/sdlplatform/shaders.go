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

// GLSL version 1.50 is the version that accompanies OpenGL 3.2

const guiVertexShader = `#version 150
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
in vec4 Color;
out vec2 Frag_UV;
out vec4 Frag_Color;
void main()
{
	Frag_UV = UV;
	Frag_Color = Color;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

// the font texture is an alpha8 texture uploaded to the red channel
const guiFragmentShader = `#version 150
uniform sampler2D Texture;
in vec2 Frag_UV;
in vec4 Frag_Color;
out vec4 Out_Color;
void main()
{
	Out_Color = vec4(Frag_Color.rgb, Frag_Color.a * texture(Texture, Frag_UV.st).r);
}
`

const spriteVertexShader = `#version 150
uniform mat4 ProjMtx;
in vec2 Position;
in vec2 UV;
out vec2 Frag_UV;
void main()
{
	Frag_UV = UV;
	gl_Position = ProjMtx * vec4(Position.xy, 0, 1);
}
`

const spriteFragmentShader = `#version 150
uniform sampler2D Texture;
uniform vec4 Tint;
in vec2 Frag_UV;
out vec4 Out_Color;
void main()
{
	Out_Color = Tint * texture(Texture, Frag_UV.st);
}
`
