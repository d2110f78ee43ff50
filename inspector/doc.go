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

// Package inspector interprets the bytes of a guest state blob using a layout
// described in a TOML file. The guest has no way of describing the structure
// of its memory so the layout must be maintained alongside the guest source.
//
// An example layout file:
//
//	root = "State"
//
//	[[type]]
//	name = "Vec2"
//	fields = [
//		{ name = "x", type = "f32" },
//		{ name = "y", type = "f32" },
//	]
//
//	[[type]]
//	name = "State"
//	fields = [
//		{ name = "pos", type = "Vec2" },
//		{ name = "enemies", type = "Vec2", array = 16 },
//		{ name = "alive", type = "bool" },
//	]
//
// The builtin types are bool, u8, i32, u32 and f32 (float is an alias of
// f32). Fields are aligned to the natural alignment of their type and the
// size of a type is padded to its alignment.
//
// The result of Inspect() is a tree of Node values that can be written as
// indented text with Node.Write() or as a graphviz graph with Dump().
package inspector
