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

package guest

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"go.starlark.net/starlark"
)

// Blob is a Starlark value that gives the guest access to a region of host
// memory. Blobs are created by the allocate() builtin. Values are stored in
// little-endian byte order at byte offsets chosen by the guest.
//
// The memory is owned by the host and is tracked by the rewind package, so
// the contents of a blob are restored when the host seeks to an earlier
// frame. The address of the memory never changes.
type Blob struct {
	mem  []byte
	host *Host
}

// NewBlob wraps memory in a Blob value. The Host is used to determine whether
// the blob is writable.
func NewBlob(mem []byte, host *Host) *Blob {
	return &Blob{mem: mem, host: host}
}

// Bytes returns the underlying memory.
func (b *Blob) Bytes() []byte {
	return b.mem
}

// String implements the starlark.Value interface.
func (b *Blob) String() string {
	return fmt.Sprintf("blob(%d)", len(b.mem))
}

// Type implements the starlark.Value interface.
func (b *Blob) Type() string {
	return "blob"
}

// Freeze implements the starlark.Value interface. The memory of a blob is
// host state and is not affected by freezing.
func (b *Blob) Freeze() {}

// Truth implements the starlark.Value interface.
func (b *Blob) Truth() starlark.Bool {
	return len(b.mem) > 0
}

// Hash implements the starlark.Value interface.
func (b *Blob) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: blob")
}

// Len implements the starlark.Indexable interface.
func (b *Blob) Len() int {
	return len(b.mem)
}

// Index implements the starlark.Indexable interface.
func (b *Blob) Index(i int) starlark.Value {
	return starlark.MakeInt(int(b.mem[i]))
}

// SetIndex implements the starlark.HasSetIndex interface.
func (b *Blob) SetIndex(i int, v starlark.Value) error {
	if err := b.writable(); err != nil {
		return err
	}
	var n uint8
	if err := starlark.AsInt(v, &n); err != nil {
		return err
	}
	b.mem[i] = n
	return nil
}

func (b *Blob) writable() error {
	if b.host != nil && b.host.rendering {
		return fmt.Errorf("blob is read-only during render")
	}
	return nil
}

func (b *Blob) check(offset int, size int) error {
	if offset < 0 || offset+size > len(b.mem) {
		return fmt.Errorf("offset %d (size %d) is outside blob of %d bytes", offset, size, len(b.mem))
	}
	return nil
}

type blobMethod func(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

var blobMethods = map[string]blobMethod{
	"f32":      blobF32,
	"set_f32":  blobSetF32,
	"i32":      blobI32,
	"set_i32":  blobSetI32,
	"u32":      blobU32,
	"set_u32":  blobSetU32,
	"u8":       blobU8,
	"set_u8":   blobSetU8,
	"bool":     blobBool,
	"set_bool": blobSetBool,
}

// Attr implements the starlark.HasAttrs interface.
func (b *Blob) Attr(name string) (starlark.Value, error) {
	m, ok := blobMethods[name]
	if !ok {
		return nil, nil
	}
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return m(b, fn, args, kwargs)
	}).BindReceiver(b), nil
}

// AttrNames implements the starlark.HasAttrs interface.
func (b *Blob) AttrNames() []string {
	names := make([]string, 0, len(blobMethods))
	for k := range blobMethods {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// the get and set functions below all follow the same pattern. the offset
// argument is always the first argument and for the set functions the value
// is the second argument.

func (b *Blob) get(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, size int) (int, error) {
	var offset int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &offset); err != nil {
		return 0, err
	}
	if err := b.check(offset, size); err != nil {
		return 0, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return offset, nil
}

func (b *Blob) set(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, size int, v any) (int, error) {
	if err := b.writable(); err != nil {
		return 0, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	var offset int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &offset, v); err != nil {
		return 0, err
	}
	if err := b.check(offset, size); err != nil {
		return 0, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return offset, nil
}

func blobF32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	o, err := b.get(fn, args, kwargs, 4)
	if err != nil {
		return nil, err
	}
	return starlark.Float(math.Float32frombits(binary.LittleEndian.Uint32(b.mem[o:]))), nil
}

func blobSetF32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v number
	o, err := b.set(fn, args, kwargs, 4, &v)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(b.mem[o:], math.Float32bits(float32(v)))
	return starlark.None, nil
}

func blobI32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	o, err := b.get(fn, args, kwargs, 4)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt64(int64(int32(binary.LittleEndian.Uint32(b.mem[o:])))), nil
}

func blobSetI32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v int32
	o, err := b.set(fn, args, kwargs, 4, &v)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(b.mem[o:], uint32(v))
	return starlark.None, nil
}

func blobU32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	o, err := b.get(fn, args, kwargs, 4)
	if err != nil {
		return nil, err
	}
	return starlark.MakeUint64(uint64(binary.LittleEndian.Uint32(b.mem[o:]))), nil
}

func blobSetU32(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v uint32
	o, err := b.set(fn, args, kwargs, 4, &v)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(b.mem[o:], v)
	return starlark.None, nil
}

func blobU8(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	o, err := b.get(fn, args, kwargs, 1)
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt(int(b.mem[o])), nil
}

func blobSetU8(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v uint8
	o, err := b.set(fn, args, kwargs, 1, &v)
	if err != nil {
		return nil, err
	}
	b.mem[o] = v
	return starlark.None, nil
}

func blobBool(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	o, err := b.get(fn, args, kwargs, 1)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(b.mem[o] != 0), nil
}

func blobSetBool(b *Blob, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	o, err := b.set(fn, args, kwargs, 1, &v)
	if err != nil {
		return nil, err
	}
	if v.Truth() {
		b.mem[o] = 1
	} else {
		b.mem[o] = 0
	}
	return starlark.None, nil
}

// number is a starlark.Unpacker that accepts both int and float values.
type number float64

func (n *number) Unpack(v starlark.Value) error {
	f, ok := starlark.AsFloat(v)
	if !ok {
		return fmt.Errorf("got %s, want number", v.Type())
	}
	*n = number(f)
	return nil
}
