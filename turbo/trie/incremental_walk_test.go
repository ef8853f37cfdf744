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

	"github.com/erigontech/erigon-lib/common"
	erigontrie "github.com/erigontech/erigon-lib/trie"
)

// Driven through the RetainDecider/walker layer instead of PrefixSet
// directly: descend only into paths that are retained or belong to a
// destroyed account.
func TestWalkAccountTrieDescendsOnlyDirtyOrDestroyedSubtrees(t *testing.T) {
	mut := erigontrie.NewTriePrefixSetsMut()
	mut.AccountPrefixSet.Insert(erigontrie.Path{0xa, 0xb, 0xc})
	mut.AccountPrefixSet.Insert(erigontrie.Path{0xe, 0xf, 0x0})

	destroyedAddr := common.Hash{0x7}
	mut.DestroyedAccounts.Add(destroyedAddr)

	sets := mut.Freeze()
	decider := erigontrie.NewAccountRetainDecider(sets)

	keys := []erigontrie.Path{
		{0xa, 0xb, 0xc}, // retained: exact match
		{0xc, 0xc, 0xc}, // neither retained nor destroyed
		{0xd, 0xd, 0xd}, // belongs to the destroyed account
	}
	hashedAddrs := []common.Hash{{0x1}, {0x2}, destroyedAddr}

	decisions := WalkAccountTrie(decider, keys, hashedAddrs, nil)

	require.Len(t, decisions, 3)
	require.True(t, decisions[0].Descended)
	require.False(t, decisions[0].Destroyed)
	require.False(t, decisions[1].Descended)
	require.True(t, decisions[2].Descended)
	require.True(t, decisions[2].Destroyed)
}

func TestWalkAccountTrieHandlesOutOfOrderKeys(t *testing.T) {
	mut := erigontrie.NewTriePrefixSetsMut()
	mut.AccountPrefixSet.Insert(erigontrie.Path{0x1, 0x0})
	mut.AccountPrefixSet.Insert(erigontrie.Path{0x2, 0x0})
	mut.AccountPrefixSet.Insert(erigontrie.Path{0x3, 0x0})
	sets := mut.Freeze()
	decider := erigontrie.NewAccountRetainDecider(sets)

	// Branch re-entry can make the walker issue a query smaller than the
	// one before it; the cursor must still answer correctly.
	keys := []erigontrie.Path{{0x3}, {0x1}, {0x2}}
	hashedAddrs := make([]common.Hash, 3)

	decisions := WalkAccountTrie(decider, keys, hashedAddrs, nil)
	for _, d := range decisions {
		require.True(t, d.Descended)
	}
}
