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

package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func p(nibbles ...byte) Path { return Path(nibbles) }

// Duplicate inserts collapse, and prefix queries resolve correctly
// including a non-matching one.
func TestFreezeDedupsDuplicateInserts(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0xa, 0xb, 0xc))
	m.Insert(p(0xa, 0xb, 0xd))
	m.Insert(p(0xe, 0xf, 0x0))
	m.Insert(p(0xa, 0xb, 0xc)) // duplicate

	set := m.Freeze()
	require.Equal(t, 3, set.Len())
	require.True(t, set.Contains(p(0xa, 0xb)))
	require.True(t, set.Contains(p(0xa)))
	require.True(t, set.Contains(p(0xe)))
	require.False(t, set.Contains(p(0xf)))
}

// Capacity preallocated via NewPrefixSetMutWithCapacity doesn't leak into
// the frozen set's length or capacity.
func TestFreezeShrinksToFit(t *testing.T) {
	m := NewPrefixSetMutWithCapacity(101)
	m.Insert(p(0x1))
	m.Insert(p(0x2))
	m.Insert(p(0x3))
	m.Insert(p(0x1)) // duplicate

	set := m.Freeze()
	require.Equal(t, 3, set.Len())
	require.Equal(t, 3, cap(set.keys))
}

// "All changed" mode ignores key contents entirely.
func TestAllChangedModeMatchesEveryPrefix(t *testing.T) {
	m := AllPrefixSetMut()
	require.True(t, m.All())
	require.Equal(t, 0, m.Len())

	set := m.Freeze()
	require.True(t, set.Contains(p(0x9, 0x9, 0x9)))
	require.True(t, set.Contains(p()))
	require.Equal(t, 0, set.Len())
}

// Extend merges two disjoint mutable sets; iteration order is sorted
// after freeze.
func TestExtendMergesDisjointSetsInSortedOrder(t *testing.T) {
	a := NewPrefixSetMut()
	a.Insert(p(0x1, 0x2))
	b := NewPrefixSetMut()
	b.Insert(p(0x3, 0x4))

	a.Extend(b)
	set := a.Freeze()

	require.True(t, set.Contains(p(0x1)))
	require.True(t, set.Contains(p(0x3)))
	require.False(t, set.Contains(p(0x2)))

	var got []Path
	for k := range set.Iter() {
		got = append(got, k)
	}
	require.Equal(t, []Path{p(0x1, 0x2), p(0x3, 0x4)}, got)
}

// Extending with an "all changed" set is absorbing.
func TestExtendWithAllChangedSetAbsorbsAll(t *testing.T) {
	a := AllPrefixSetMut()
	b := NewPrefixSetMut()
	b.Insert(p(0x1))

	fresh := NewPrefixSetMut()
	fresh.Extend(a)
	fresh.Extend(b)
	require.True(t, fresh.All())

	set := fresh.Freeze()
	require.True(t, set.Contains(p(0xff)))
}

func TestExtendKeysSkipsAppendWhenAllChanged(t *testing.T) {
	m := AllPrefixSetMut()
	m.ExtendKeys([]Path{p(0x1), p(0x2)})
	require.Equal(t, 0, m.Len())
}

func TestEmptySetNeverContains(t *testing.T) {
	set := NewPrefixSetMut().Freeze()
	require.False(t, set.Contains(p(0x1)))
	require.False(t, set.Contains(p()))
}

func TestZeroLengthPrefixMatchesAnyNonEmptySet(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1))
	set := m.Freeze()
	require.True(t, set.Contains(p()))
}

func TestPrefixLongerThanEveryKeyNeverMatches(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1, 0x2))
	set := m.Freeze()
	require.False(t, set.Contains(p(0x1, 0x2, 0x3)))
}

func TestRepeatedQuerySameAnswer(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1, 0x2))
	m.Insert(p(0x3, 0x4))
	set := m.Freeze()
	for i := 0; i < 5; i++ {
		require.True(t, set.Contains(p(0x1)))
	}
}

func TestCursorToleratesOutOfOrderQueries(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1, 0x0))
	m.Insert(p(0x2, 0x0))
	m.Insert(p(0x3, 0x0))
	set := m.Freeze()

	require.True(t, set.Contains(p(0x3)))
	require.True(t, set.Contains(p(0x1)))
	require.True(t, set.Contains(p(0x2)))
}

func TestCursorRecoversAfterTrailingMiss(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1, 0x0))
	m.Insert(p(0x2, 0x0))
	set := m.Freeze()

	require.False(t, set.Contains(p(0xf))) // miss at tail, cursor left where it was
	require.True(t, set.Contains(p(0x1)))  // must still find an earlier key
}

func TestCloneSharesKeysAndDuplicatesCursor(t *testing.T) {
	m := NewPrefixSetMut()
	m.Insert(p(0x1))
	m.Insert(p(0x2))
	set := m.Freeze()

	require.True(t, set.Contains(p(0x2)))
	clone := set.Clone()
	require.Equal(t, set.cursor, clone.cursor)
	require.True(t, clone.Contains(p(0x1)))
}
