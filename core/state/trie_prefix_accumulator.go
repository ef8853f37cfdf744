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

package state

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/erigontech/erigon-lib/common"
	"github.com/erigontech/erigon-lib/kv"
	"github.com/erigontech/erigon-lib/trie"
)

// TriePrefixAccumulator is the post-execution change-set producer: it sits
// between IntraBlockState's account/storage writes and the trie prefix-set
// engine, converting touched addresses and storage keys into the nibble
// paths trie.TriePrefixSetsMut expects.
//
// The mutex serializes TouchAccount, TouchStorage, DestructAccount, Reset
// and Done on one accumulator, so several goroutines may record into a
// shared accumulator. It does not guard the set Done returns: merging
// accumulators by calling Extend on that set is not covered by the lock.
type TriePrefixAccumulator struct {
	mu      sync.Mutex
	pending *trie.TriePrefixSetsMut
	trace   bool
}

// NewTriePrefixAccumulator returns an accumulator ready to record touches
// for a single block.
func NewTriePrefixAccumulator() *TriePrefixAccumulator {
	return &TriePrefixAccumulator{pending: trie.NewTriePrefixSetsMut()}
}

func (a *TriePrefixAccumulator) SetTrace(trace bool) { a.trace = trace }

// TouchAccount records that the account at address was read or written.
// address is hashed (Keccak256) before being turned into a trie path,
// matching the HashedAccounts table's key (see kv.HashedAccountsDeprecated).
func (a *TriePrefixAccumulator) TouchAccount(address common.Address) {
	hashed := hashData(address.Bytes())
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.AccountPrefixSet.Insert(trie.FromKeyBytes(hashed[:]))
	if a.trace {
		assertKnownTable(kv.HashedAccountsDeprecated)
		assertKnownTable(kv.TrieOfAccounts)
		fmt.Printf("touch account table=%s invalidates=%s addrHash=%x\n", kv.HashedAccountsDeprecated, kv.TrieOfAccounts, hashed)
	}
}

// TouchStorage records that the storage slot key under address was read or
// written.
func (a *TriePrefixAccumulator) TouchStorage(address common.Address, slotKey common.Hash) {
	addrHash := hashData(address.Bytes())
	slotHash := hashData(slotKey.Bytes())
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.StorageSet(addrHash).Insert(trie.FromKeyBytes(slotHash[:]))
	if a.trace {
		assertKnownTable(kv.HashedStorageDeprecated)
		assertKnownTable(kv.TrieOfStorage)
		cfg := kv.StateTablesCfg[kv.HashedStorageDeprecated]
		fmt.Printf("touch storage table=%s(dupsort=%t dupFrom=%d dupTo=%d) invalidates=%s addrHash=%x slotHash=%x\n",
			kv.HashedStorageDeprecated, cfg.Flags&kv.DupSort != 0, cfg.DupFromLen, cfg.DupToLen, kv.TrieOfStorage, addrHash, slotHash)
	}
}

// DestructAccount records that the account at address was destroyed this
// block (e.g. via SELFDESTRUCT or account-creation collision cleanup).
// This does not also insert address into the account prefix set — see
// DESIGN.md's Open Question 1 for why that's intentionally left to the
// trie walker's IsDestroyed check.
func (a *TriePrefixAccumulator) DestructAccount(address common.Address) {
	hashed := hashData(address.Bytes())
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.DestroyedAccounts.Add(hashed)
	if a.trace {
		assertKnownTable(kv.DestructedAccounts)
		fmt.Printf("destruct account table=%s addrHash=%x\n", kv.DestructedAccounts, hashed)
	}
}

// assertKnownTable panics if table isn't part of this module's schema.
// Trace logging is the only caller, so the cost of the lookup never hits
// the hot path.
func assertKnownTable(table string) {
	if !kv.IsStateTable(table) {
		panic("state: unknown table " + table)
	}
}

// Reset discards all recorded touches, readying the accumulator for the
// next block.
func (a *TriePrefixAccumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending.Clear()
}

// Done returns the accumulated mutable prefix sets for this block. The
// caller is expected to Freeze it (directly, or after Extend-ing it with
// other accumulators' output) before handing it to the trie walker.
func (a *TriePrefixAccumulator) Done() *trie.TriePrefixSetsMut {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func hashData(b []byte) common.Hash {
	var h common.Hash
	d := sha3.NewLegacyKeccak256()
	d.Write(b)
	d.Sum(h[:0])
	return h
}
