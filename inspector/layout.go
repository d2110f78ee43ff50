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

package inspector

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/jetsetilly/gamevm/curated"
	"github.com/jetsetilly/gamevm/logger"
)

const logTag = "inspector"

// Sentinal error patterns for layout files.
const (
	LayoutError     = "inspector: layout: %v"
	UnknownType     = "inspector: unknown type (%s)"
	RecursiveType   = "inspector: recursive type (%s)"
	EmptyType       = "inspector: type has no fields (%s)"
	DuplicateType   = "inspector: duplicate type (%s)"
	ShortState      = "inspector: state is %d bytes but %s requires %d"
	NoRootSpecified = "inspector: no root type specified"
)

type fieldDesc struct {
	Name  string `toml:"name"`
	Type  string `toml:"type"`
	Array int    `toml:"array"`

	offset int
}

type typeDesc struct {
	Name   string      `toml:"name"`
	Fields []fieldDesc `toml:"fields"`

	size      int
	alignment int

	// the type is having its meta information computed
	visiting bool
}

type layoutFile struct {
	Root  string     `toml:"root"`
	Types []typeDesc `toml:"type"`
}

// Layout describes the structure of a guest state blob.
type Layout struct {
	root  string
	types map[string]*typeDesc
}

type meta struct {
	size      int
	alignment int
}

var builtins = map[string]meta{
	"bool":  {1, 1},
	"u8":    {1, 1},
	"i32":   {4, 4},
	"u32":   {4, 4},
	"f32":   {4, 4},
	"float": {4, 4},
}

// LoadLayout reads a layout from a TOML file.
func LoadLayout(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(LayoutError, err)
	}
	l, err := ParseLayout(string(b))
	if err != nil {
		return nil, err
	}
	logger.Logf(logger.Allow, logTag, "%s: %s is %d bytes", path, l.root, l.Size())
	return l, nil
}

// ParseLayout parses a layout from TOML data.
func ParseLayout(data string) (*Layout, error) {
	var lf layoutFile
	if _, err := toml.Decode(data, &lf); err != nil {
		return nil, curated.Errorf(LayoutError, err)
	}
	if lf.Root == "" {
		return nil, curated.Errorf(NoRootSpecified)
	}

	l := &Layout{
		root:  lf.Root,
		types: make(map[string]*typeDesc),
	}
	for i := range lf.Types {
		t := &lf.Types[i]
		if _, ok := builtins[t.Name]; ok {
			return nil, curated.Errorf(DuplicateType, t.Name)
		}
		if _, ok := l.types[t.Name]; ok {
			return nil, curated.Errorf(DuplicateType, t.Name)
		}
		l.types[t.Name] = t
	}

	if _, err := l.meta(l.root); err != nil {
		return nil, err
	}

	return l, nil
}

// Root returns the name of the root type.
func (l *Layout) Root() string {
	return l.root
}

// Size returns the size in bytes of the root type.
func (l *Layout) Size() int {
	m, _ := l.meta(l.root)
	return m.size
}

func align(offset int, alignment int) int {
	r := offset % alignment
	if r > 0 {
		return offset + alignment - r
	}
	return offset
}

// meta computes the size and alignment of the named type and the offsets of
// its fields. the results of composite types are cached.
func (l *Layout) meta(name string) (meta, error) {
	if m, ok := builtins[name]; ok {
		return m, nil
	}

	t, ok := l.types[name]
	if !ok {
		return meta{}, curated.Errorf(UnknownType, name)
	}
	if t.size > 0 {
		return meta{size: t.size, alignment: t.alignment}, nil
	}
	if t.visiting {
		return meta{}, curated.Errorf(RecursiveType, name)
	}
	if len(t.Fields) == 0 {
		return meta{}, curated.Errorf(EmptyType, name)
	}

	t.visiting = true
	defer func() {
		t.visiting = false
	}()

	var offset int
	var alignment int
	for i := range t.Fields {
		f := &t.Fields[i]
		fm, err := l.meta(f.Type)
		if err != nil {
			return meta{}, err
		}

		offset = align(offset, fm.alignment)
		f.offset = offset

		count := max(f.Array, 1)
		offset += fm.size * count
		alignment = max(alignment, fm.alignment)
	}

	t.alignment = alignment
	t.size = align(offset, alignment)

	return meta{size: t.size, alignment: t.alignment}, nil
}

// Offset returns the byte offset of a field in a type. Fields of nested
// types are named with a dot separated path.
func (l *Layout) Offset(typeName string, path ...string) (int, error) {
	var offset int
	for _, p := range path {
		if _, err := l.meta(typeName); err != nil {
			return 0, err
		}
		t, ok := l.types[typeName]
		if !ok {
			return 0, curated.Errorf(UnknownType, fmt.Sprintf("%s.%s", typeName, p))
		}
		found := false
		for _, f := range t.Fields {
			if f.Name == p {
				offset += f.offset
				typeName = f.Type
				found = true
				break
			}
		}
		if !found {
			return 0, curated.Errorf(UnknownType, fmt.Sprintf("%s.%s", t.Name, p))
		}
	}
	return offset, nil
}
