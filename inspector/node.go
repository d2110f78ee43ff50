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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jetsetilly/gamevm/curated"
)

// Node is one variable in the inspected state. Builtin types have a Value and
// no children. Composite types have children and no value.
type Node struct {
	Name     string
	Type     string
	Value    string
	Children []*Node
}

// Leaf returns true if the node is of a builtin type.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// Inspect interprets the state bytes according to the layout. The name is
// used for the root node.
func (l *Layout) Inspect(name string, state []byte) (*Node, error) {
	size := l.Size()
	if len(state) < size {
		return nil, curated.Errorf(ShortState, len(state), l.root, size)
	}
	return l.node(l.root, name, state), nil
}

func (l *Layout) node(typeName string, name string, data []byte) *Node {
	n := &Node{
		Name: name,
		Type: typeName,
	}

	switch typeName {
	case "bool":
		n.Value = fmt.Sprintf("%v", data[0] != 0)
		return n
	case "u8":
		n.Value = fmt.Sprintf("%d", data[0])
		return n
	case "i32":
		n.Value = fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(data)))
		return n
	case "u32":
		n.Value = fmt.Sprintf("%d", binary.LittleEndian.Uint32(data))
		return n
	case "f32", "float":
		n.Value = fmt.Sprintf("%f", math.Float32frombits(binary.LittleEndian.Uint32(data)))
		return n
	}

	// layout has been validated so the type must exist
	t := l.types[typeName]
	for _, f := range t.Fields {
		if f.Array == 0 {
			n.Children = append(n.Children, l.node(f.Type, f.Name, data[f.offset:]))
			continue
		}
		m, _ := l.meta(f.Type)
		for i := range f.Array {
			o := f.offset + i*m.size
			n.Children = append(n.Children, l.node(f.Type, fmt.Sprintf("%s[%d]", f.Name, i), data[o:]))
		}
	}

	return n
}

// String returns the node as a single line.
func (n *Node) String() string {
	if n.Leaf() {
		return fmt.Sprintf("(%s) %s: %s", n.Type, n.Name, n.Value)
	}
	return fmt.Sprintf("(%s) %s", n.Type, n.Name)
}

// Write the node and its children as indented text.
func (n *Node) Write(w io.Writer) error {
	return n.write(w, 0)
}

func (n *Node) write(w io.Writer, depth int) error {
	if _, err := io.WriteString(w, fmt.Sprintf("%s%s\n", strings.Repeat("  ", depth), n)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.write(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
