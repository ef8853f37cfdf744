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

import "github.com/erigontech/erigon-lib/common"

// RetainDecider is the contract a frozen prefix set (via an adapter) must
// satisfy for a trie-hashing walker to drive incremental rehashing. The
// name and shape follow erigon's historical RetainDecider collaborator
// used by its flat-DB sub-trie loader.
//
// Implementations are single-consumer: Retain is expected to be backed by
// PrefixSet.Contains, which mutates an internal cursor. Two walkers
// hashing sibling subtries concurrently must each hold an independently
// cloned RetainDecider.
type RetainDecider interface {
	// Retain reports whether the subtree rooted at prefix changed and
	// must be descended into; false means the walker may reuse a cached
	// hash for that subtree.
	Retain(prefix Path) bool
	// IsDestroyed reports whether hashedAddress was destroyed this block.
	// When true, the walker must remove its whole subtree (account leaf
	// plus storage trie) regardless of what Retain says.
	IsDestroyed(hashedAddress common.Hash) bool
}

// AccountRetainDecider adapts a frozen TriePrefixSets' account prefix set
// and destroyed-accounts set into a RetainDecider for the account trie
// walker.
type AccountRetainDecider struct {
	accounts  PrefixSet
	destroyed mapsetLookup
}

// mapsetLookup is satisfied by mapset.Set[common.Hash]; it's spelled out
// locally so this file doesn't have to import golang-set just to name
// the interface DestroyedAccounts already implements.
type mapsetLookup interface {
	Contains(vals ...common.Hash) bool
}

// NewAccountRetainDecider returns a RetainDecider over sets' account
// prefix set and destroyed-accounts set. Each call clones the account
// prefix set so the returned decider owns an independent cursor.
func NewAccountRetainDecider(sets *TriePrefixSets) *AccountRetainDecider {
	return &AccountRetainDecider{
		accounts:  sets.AccountPrefixSet.Clone(),
		destroyed: sets.DestroyedAccounts,
	}
}

func (d *AccountRetainDecider) Retain(prefix Path) bool { return d.accounts.Contains(prefix) }

// CursorPos exposes the underlying account prefix set's cursor position,
// for callers (e.g. the turbo/trie walker) that want to log rewind
// distance diagnostics. Not part of the RetainDecider contract.
func (d *AccountRetainDecider) CursorPos() int { return d.accounts.CursorPos() }

func (d *AccountRetainDecider) IsDestroyed(hashedAddress common.Hash) bool {
	return d.destroyed.Contains(hashedAddress)
}

// StorageRetainDecider adapts the frozen per-address storage prefix set
// for a single account into a RetainDecider for that account's storage
// trie walker. A storage trie has no destroyed-accounts concept of its
// own, so IsDestroyed always reports false; the caller is expected to
// have already checked AccountRetainDecider.IsDestroyed before
// descending into a storage trie at all.
type StorageRetainDecider struct {
	storage PrefixSet
}

// NewStorageRetainDecider returns a RetainDecider over a clone of set, so
// the returned decider owns an independent cursor from whatever produced
// set.
func NewStorageRetainDecider(set PrefixSet) *StorageRetainDecider {
	return &StorageRetainDecider{storage: set.Clone()}
}

func (d *StorageRetainDecider) Retain(prefix Path) bool { return d.storage.Contains(prefix) }

func (d *StorageRetainDecider) IsDestroyed(common.Hash) bool { return false }
