// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package math

// AbsoluteDifference returns the absolute value of x-y in uint64 format.
func AbsoluteDifference(x, y uint64) uint64 {
	if x > y {
		return x - y
	}
	return y - x
}

// CursorRewindDistance reports how far a cursor-style position moved
// backwards between two calls, and whether it moved backwards at all. A
// PrefixSet's cursor rewinds when a query regresses relative to the
// previous one; callers use the distance to judge how out-of-order an
// incoming query sequence is.
func CursorRewindDistance(prev, cur int) (distance uint64, rewound bool) {
	if cur >= prev {
		return 0, false
	}
	return AbsoluteDifference(uint64(prev), uint64(cur)), true
}
