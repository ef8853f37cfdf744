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
	"iter"
	"slices"
)

// PrefixSetMut is an append-only builder that collects the nibble paths
// touched during block execution, in whatever order they arrive. It is
// cheap to insert into and expensive to query; Freeze flips that tradeoff.
//
// A zero-value PrefixSetMut is ready to use.
type PrefixSetMut struct {
	allChanged bool
	keys       []Path
}

// NewPrefixSetMut returns an empty builder.
func NewPrefixSetMut() *PrefixSetMut {
	return &PrefixSetMut{}
}

// NewPrefixSetMutWithCapacity returns an empty builder whose backing slice
// is preallocated for n entries.
func NewPrefixSetMutWithCapacity(n int) *PrefixSetMut {
	return &PrefixSetMut{keys: make([]Path, 0, n)}
}

// AllPrefixSetMut returns a builder that behaves as if every possible path
// had been inserted. Keys are never retained in this mode.
func AllPrefixSetMut() *PrefixSetMut {
	return &PrefixSetMut{allChanged: true}
}

// Insert appends path to the set. Duplicates and out-of-order inserts are
// fine; they are resolved at Freeze.
func (s *PrefixSetMut) Insert(path Path) {
	if s.allChanged {
		return
	}
	s.keys = append(s.keys, path)
}

// Extend merges other into s: allChanged becomes true if either was true,
// and other's keys are appended (unless the result is now allChanged, in
// which case they're dropped to save memory).
func (s *PrefixSetMut) Extend(other *PrefixSetMut) {
	if other == nil {
		return
	}
	s.allChanged = s.allChanged || other.allChanged
	if s.allChanged {
		s.keys = nil
		return
	}
	s.keys = append(s.keys, other.keys...)
}

// ExtendKeys appends every path yielded by keys. It is a no-op when the
// set is already in "all changed" mode, since appending to a universal
// set can never change its meaning.
func (s *PrefixSetMut) ExtendKeys(keys []Path) {
	if s.allChanged {
		return
	}
	s.keys = append(s.keys, keys...)
}

// Len reports the number of keys currently buffered. It MUST NOT be used
// to infer how many distinct prefixes are in the set: duplicates are only
// removed at Freeze.
func (s *PrefixSetMut) Len() int { return len(s.keys) }

// IsEmpty reports whether no keys have been inserted and the set is not in
// "all changed" mode.
func (s *PrefixSetMut) IsEmpty() bool { return !s.allChanged && len(s.keys) == 0 }

// All reports whether the set is in "all changed" mode.
func (s *PrefixSetMut) All() bool { return s.allChanged }

// Clear resets the builder to empty, non-all-changed state, retaining its
// backing array's capacity.
func (s *PrefixSetMut) Clear() {
	s.allChanged = false
	s.keys = s.keys[:0]
}

// Freeze consumes the builder and returns its immutable, sorted,
// deduplicated form. The builder must not be used after this call.
func (s *PrefixSetMut) Freeze() PrefixSet {
	if s.allChanged {
		return PrefixSet{allChanged: true}
	}
	keys := s.keys
	slices.SortFunc(keys, func(a, b Path) int { return a.Compare(b) })
	keys = slices.CompactFunc(keys, func(a, b Path) bool { return a.Equal(b) })
	// Shrink to exact length: CompactFunc shortens the slice in place but
	// leaves the larger backing array allocated.
	shrunk := make([]Path, len(keys))
	copy(shrunk, keys)
	return PrefixSet{keys: shrunk}
}

// PrefixSet is the immutable, sorted, deduplicated form of a PrefixSetMut.
// It answers "does any key start with this prefix" queries via a resumable
// cursor, so a trie walker issuing prefix queries in roughly sorted order
// pays amortized O(1) per query instead of O(log n).
//
// PrefixSet is single-consumer: Contains mutates the cursor, so two trie
// walkers (e.g. hashing sibling storage tries in parallel) must each hold
// an independent clone, not share one. Cloning a PrefixSet is cheap: the
// keys slice header is copied, not the backing array, so clones share the
// sorted data and only the cursor diverges per clone.
type PrefixSet struct {
	allChanged bool
	keys       []Path
	cursor     int
}

// Clone returns an independent PrefixSet sharing the same sorted keys and
// duplicating the source's cursor position.
func (p PrefixSet) Clone() PrefixSet {
	return PrefixSet{allChanged: p.allChanged, keys: p.keys, cursor: p.cursor}
}

// Len returns the number of distinct keys in the set. It is 0 for an
// "all changed" set even though every prefix matches.
func (p PrefixSet) Len() int { return len(p.keys) }

// IsEmpty reports whether the set has no keys and is not "all changed".
func (p PrefixSet) IsEmpty() bool { return !p.allChanged && len(p.keys) == 0 }

// All reports whether the set behaves as if every possible path were
// present.
func (p PrefixSet) All() bool { return p.allChanged }

// CursorPos returns the cursor's current index into the sorted keys. It
// exists for diagnostics (e.g. measuring how far a query rewound the
// cursor); callers must not rely on it for correctness.
func (p PrefixSet) CursorPos() int { return p.cursor }

// Iter yields every key in sorted order without touching the cursor.
func (p PrefixSet) Iter() iter.Seq[Path] {
	return func(yield func(Path) bool) {
		for _, k := range p.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Contains reports whether any key in the set has prefix as a prefix.
//
// The cursor is repositioned by this call: a rewind step walks it
// backwards while the key it points at sorts after prefix (handling
// queries that move backwards relative to the previous call, which
// happens on branch-node re-entry during a trie walk), then a forward
// scan resolves the query and leaves the cursor at the first candidate
// for the *next* query. Both repeated and non-monotone query sequences
// return the same answer a fresh linear scan would.
func (p *PrefixSet) Contains(prefix Path) bool {
	if p.allChanged {
		return true
	}
	if len(p.keys) == 0 {
		return false
	}

	// Rewind: a query that regressed relative to the last one can only
	// have regressed by as much as the gap between the two queries, so
	// this loop is bounded and amortizes to O(1) across a query sequence
	// that is approximately, but not strictly, sorted.
	for p.cursor > 0 && p.keys[p.cursor].Compare(prefix) > 0 {
		p.cursor--
	}

	for i := p.cursor; i < len(p.keys); i++ {
		if p.keys[i].StartsWith(prefix) {
			p.cursor = i
			return true
		}
		if p.keys[i].Compare(prefix) > 0 {
			// keys is sorted, so nothing further out can match either.
			p.cursor = i
			return false
		}
	}
	return false
}
