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

package rewind

import (
	"reflect"
	"unsafe"

	"github.com/jetsetilly/gamevm/curated"
)

// NotFlat is the pattern for errors returned by CheckFlat().
const NotFlat = "rewind: %s is not flat: %s has kind %s"

// CheckFlat returns an error if the type contains anything that would be
// invalid after a byte-for-byte copy. Only booleans, numeric types and
// arrays and structs of those types are flat.
func CheckFlat(typ reflect.Type) error {
	return checkFlat(typ.String(), typ.Name(), typ)
}

func checkFlat(root string, path string, typ reflect.Type) error {
	switch typ.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkFlat(root, path+"[]", typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if err := checkFlat(root, path+"."+f.Name, f.Type); err != nil {
				return err
			}
		}
		return nil
	}
	return curated.Errorf(NotFlat, root, path, typ.Kind())
}

// Bytes returns the memory of a flat value as a byte slice. The slice aliases
// the value, it is not a copy. Bytes panics if the type of the value is not
// flat.
func Bytes[T any](v *T) []byte {
	if err := CheckFlat(reflect.TypeOf(v).Elem()); err != nil {
		panic(err)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
