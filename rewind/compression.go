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
	"github.com/klauspost/compress/zstd"
)

// codec compresses and decompresses history entries. a nil codec is valid
// and can only read uncompressed entries.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &codec{enc: enc, dec: dec}, nil
}

// compress every region in the entry. does nothing if the entry is already
// compressed.
func (c *codec) compress(e *entry) {
	if e.compressed {
		return
	}
	for i := range e.data {
		e.data[i] = c.enc.EncodeAll(e.data[i], make([]byte, 0, len(e.data[i])/4))
	}
	e.compressed = true
}

// read region i of the entry into dest. dest must be exactly the size of the
// uncompressed region.
func (c *codec) read(e *entry, i int, dest []byte) {
	if !e.compressed {
		copy(dest, e.data[i])
		return
	}

	b, err := c.dec.DecodeAll(e.data[i], make([]byte, 0, len(dest)))
	if err != nil {
		// the data was produced by our own encoder so this can only be caused
		// by a bug
		panic(err)
	}
	copy(dest, b)
}
