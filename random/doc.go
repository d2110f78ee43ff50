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

// Package random provides the random number generator used by guest code.
//
// The generator is SplitMix64 and the entire generator state is a single
// uint64 stored in the State type. The State type has no pointers and so can
// be placed in memory that is snapshotted by the regions package. Restoring a
// snapshot therefore restores the random sequence, which is what makes replay
// of earlier frames deterministic.
//
// Float conversions fix the exponent of a float and fill the mantissa with
// bits from the generator. This is not perfectly uniform but it is much better
// than dividing by the maximum value. The generator is not suitable for
// cryptographic purposes.
package random
