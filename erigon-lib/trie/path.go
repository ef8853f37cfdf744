// Copyright 2024 The Erigon Authors
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

// Package trie holds the state-trie prefix-set engine: the data structure
// the incremental state-root computation uses to know which parts of the
// account and storage tries changed during block execution, so the trie
// walker only rehashes dirty subtrees.
package trie

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxPathLen is the deepest a Path can go: a 256-bit hashed key expands to
// 64 hex nibbles.
const MaxPathLen = 64

var (
	// ErrNibbleValue is returned by NewPath when a byte outside 0..15 is
	// passed as a nibble.
	ErrNibbleValue = errors.New("trie: nibble value out of range")
	// ErrNibbleTooLong is returned by NewPath when more than MaxPathLen
	// nibbles are supplied.
	ErrNibbleTooLong = errors.New("trie: nibble path exceeds 64 nibbles")
)

// Path is a trie key path: an ordered sequence of nibbles, one nibble per
// byte (each byte holding a value in 0..15), at most MaxPathLen long.
//
// One nibble per byte costs more memory than bit-packing two nibbles per
// byte, but it keeps StartsWith and Compare straight byte-slice operations
// with no shifting, which is what the hot path (PrefixSet.Contains) needs.
// This mirrors the "Hex" nibble convention used throughout geth/erigon's
// trie code and reth's own Nibbles representation.
type Path []byte

// NewPath validates nibbles and returns them as a Path. Use this only when
// nibbles come from an untrusted or hand-built source; internal code that
// already knows its input is a 32-byte hash should call FromKeyBytes
// instead, which cannot fail.
func NewPath(nibbles []byte) (Path, error) {
	if len(nibbles) > MaxPathLen {
		return nil, fmt.Errorf("%w: got %d", ErrNibbleTooLong, len(nibbles))
	}
	for _, n := range nibbles {
		if n > 0xf {
			return nil, fmt.Errorf("%w: got %#x", ErrNibbleValue, n)
		}
	}
	p := make(Path, len(nibbles))
	copy(p, nibbles)
	return p, nil
}

// FromKeyBytes expands a raw key (e.g. a 32-byte hashed address or storage
// slot) into its nibble Path, two nibbles per input byte.
func FromKeyBytes(key []byte) Path {
	p := make(Path, len(key)*2)
	for i, b := range key {
		p[i*2] = b >> 4
		p[i*2+1] = b & 0x0f
	}
	return p
}

// Len returns the number of nibbles in the path.
func (p Path) Len() int { return len(p) }

// StartsWith reports whether p begins with every nibble of prefix, in
// order. The empty prefix is a prefix of everything.
func (p Path) StartsWith(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return bytes.Equal(p[:len(prefix)], prefix)
}

// Compare returns -1, 0 or 1 as p is lexicographically less than, equal
// to, or greater than other, comparing nibble by nibble. A shorter path
// that is a prefix of a longer one sorts first, matching bytes.Compare's
// convention for unequal-length slices.
func (p Path) Compare(other Path) int {
	return bytes.Compare(p, other)
}

// Equal reports whether p and other have identical length and nibbles.
func (p Path) Equal(other Path) bool {
	return bytes.Equal(p, other)
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// String renders the path as hex digits, one per nibble, for logging.
func (p Path) String() string {
	buf := make([]byte, len(p))
	for i, n := range p {
		buf[i] = "0123456789abcdef"[n&0xf]
	}
	return string(buf)
}
