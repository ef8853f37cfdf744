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
	"bytes"

	"github.com/google/btree"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/erigontech/erigon-lib/common"
)

// storageEntry pairs a hashed account address with its storage prefix set,
// ordered by address so the frozen aggregate can hand the trie walker its
// per-account storage sets in the same ascending order it descends the
// account trie.
type storageEntry[T any] struct {
	addr common.Hash
	set  T
}

func storageEntryLess[T any](a, b storageEntry[T]) bool {
	return bytes.Compare(a.addr[:], b.addr[:]) < 0
}

// TriePrefixSetsMut is the mutable aggregate built up while a block
// executes: one prefix set for account paths, one prefix set per account
// for its storage paths, and the set of accounts destroyed this block.
type TriePrefixSetsMut struct {
	AccountPrefixSet *PrefixSetMut
	// storagePrefixSets is a plain map while mutable: inserts dominate and
	// ordering only matters once frozen, so a map's O(1) upsert beats a
	// btree's O(log n) here.
	storagePrefixSets map[common.Hash]*PrefixSetMut
	DestroyedAccounts mapset.Set[common.Hash]
}

// NewTriePrefixSetsMut returns an empty aggregate.
func NewTriePrefixSetsMut() *TriePrefixSetsMut {
	return &TriePrefixSetsMut{
		AccountPrefixSet:  NewPrefixSetMut(),
		storagePrefixSets: make(map[common.Hash]*PrefixSetMut),
		DestroyedAccounts: mapset.NewThreadUnsafeSet[common.Hash](),
	}
}

// StorageSet returns the per-address storage builder for addr, creating it
// if absent.
func (s *TriePrefixSetsMut) StorageSet(addr common.Hash) *PrefixSetMut {
	set, ok := s.storagePrefixSets[addr]
	if !ok {
		set = NewPrefixSetMut()
		s.storagePrefixSets[addr] = set
	}
	return set
}

// IsEmpty reports whether the account set, every storage set, and the
// destroyed-accounts set are all empty.
func (s *TriePrefixSetsMut) IsEmpty() bool {
	if !s.AccountPrefixSet.IsEmpty() {
		return false
	}
	if s.DestroyedAccounts.Cardinality() != 0 {
		return false
	}
	for _, set := range s.storagePrefixSets {
		if !set.IsEmpty() {
			return false
		}
	}
	return true
}

// Extend unions other into s: account sets merge, per-address storage sets
// merge entry-by-entry, and destroyed-accounts union. Not atomic; callers
// merging from multiple producers must serialize their own Extend calls.
func (s *TriePrefixSetsMut) Extend(other *TriePrefixSetsMut) {
	if other == nil {
		return
	}
	s.AccountPrefixSet.Extend(other.AccountPrefixSet)
	for addr, set := range other.storagePrefixSets {
		s.StorageSet(addr).Extend(set)
	}
	s.DestroyedAccounts = s.DestroyedAccounts.Union(other.DestroyedAccounts)
}

// Clear empties all three fields in place, ready for reuse on the next
// block.
func (s *TriePrefixSetsMut) Clear() {
	s.AccountPrefixSet.Clear()
	s.storagePrefixSets = make(map[common.Hash]*PrefixSetMut)
	s.DestroyedAccounts.Clear()
}

// Freeze finalizes the aggregate: the account set and every per-address
// storage set are sorted, deduplicated, and shrunk to fit; the
// destroyed-accounts set moves across unchanged.
func (s *TriePrefixSetsMut) Freeze() *TriePrefixSets {
	storage := btree.NewG(32, storageEntryLess[PrefixSet])
	for addr, set := range s.storagePrefixSets {
		storage.ReplaceOrInsert(storageEntry[PrefixSet]{addr: addr, set: set.Freeze()})
	}
	return &TriePrefixSets{
		AccountPrefixSet:  s.AccountPrefixSet.Freeze(),
		storagePrefixSets: storage,
		DestroyedAccounts: s.DestroyedAccounts.Clone(),
	}
}

// TriePrefixSets is the frozen aggregate handed to the trie-hashing
// walker. Its fields beyond the two prefix sets and destroyed-accounts set
// are read-only bookkeeping for ordered traversal.
type TriePrefixSets struct {
	AccountPrefixSet  PrefixSet
	storagePrefixSets *btree.BTreeG[storageEntry[PrefixSet]]
	DestroyedAccounts mapset.Set[common.Hash]
}

// StorageSet returns the storage prefix set for addr and whether one
// exists. A storage set may exist for an address that is not destroyed,
// and may also (harmlessly) exist for one that is.
func (s *TriePrefixSets) StorageSet(addr common.Hash) (PrefixSet, bool) {
	item, ok := s.storagePrefixSets.Get(storageEntry[PrefixSet]{addr: addr})
	if !ok {
		return PrefixSet{}, false
	}
	return item.set, true
}

// AscendStorageSets calls fn for every (address, storage prefix set) pair
// in ascending address order, matching the order the account trie walker
// visits accounts in. Iteration stops early if fn returns false.
func (s *TriePrefixSets) AscendStorageSets(fn func(addr common.Hash, set PrefixSet) bool) {
	s.storagePrefixSets.Ascend(func(item storageEntry[PrefixSet]) bool {
		return fn(item.addr, item.set)
	})
}

// IsDestroyed reports whether addr was destroyed this block. Per the
// open question recorded in DESIGN.md, this is independent of whether
// addr also appears in AccountPrefixSet.
func (s *TriePrefixSets) IsDestroyed(addr common.Hash) bool {
	return s.DestroyedAccounts.Contains(addr)
}
