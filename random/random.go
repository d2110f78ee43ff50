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

package random

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// State is the entire state of the generator.
type State struct {
	S uint64
}

// NewSeed returns a seed value based on the current time.
func NewSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// Seed sets the generator state.
func (s *State) Seed(seed uint64) {
	s.S = seed
}

// Uint64 returns the next value in the sequence.
func (s *State) Uint64() uint64 {
	s.S += 0x9e3779b97f4a7c15
	z := s.S
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Float32 returns a value in the range [0, 1).
func (s *State) Float32() float32 {
	r := s.Uint64()
	bits := uint32(0x7f<<23) | uint32(r>>(32+9))
	return math.Float32frombits(bits) - 1.0
}

// Float32Range returns a value in the range [min, max).
func (s *State) Float32Range(min, max float32) float32 {
	return min + s.Float32()*(max-min)
}

// Float64 returns a value in the range [0, 1).
func (s *State) Float64() float64 {
	r := s.Uint64()
	bits := uint64(0x3ff<<52) | (r >> 12)
	return math.Float64frombits(bits) - 1.0
}

// Float64Range returns a value in the range [min, max).
func (s *State) Float64Range(min, max float64) float64 {
	return min + s.Float64()*(max-min)
}

// Int returns a value in the range [min, max]. Both limits are inclusive.
// Values from the generator that would cause modulo bias are discarded. The
// range max-min must fit in a uint64.
func Int[T constraints.Integer](s *State, min, max T) T {
	if min > max {
		panic("random: min is greater than max")
	}
	if min == max {
		return min
	}

	// converting both limits before subtraction avoids overflow of T
	rng := uint64(max) - uint64(min) + 1

	// full range of uint64
	if rng == 0 {
		return min + T(s.Uint64())
	}

	thresh := math.MaxUint64 / rng * rng
	for {
		r := s.Uint64()
		if r < thresh {
			return min + T(r%rng)
		}
	}
}
