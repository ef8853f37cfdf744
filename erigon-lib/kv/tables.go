// Copyright 2021 The Erigon Authors
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

// Package kv names the flat-DB buckets a prefix-set accumulator reads and
// writes touches against. It carries only the slice of the schema this
// module's producer/consumer actually touch; the rest of a full node's
// table registry isn't reproduced here.
package kv

import "sort"

const (
	// HashedAccountsDeprecated
	// key - address hash
	// value - account encoded for storage
	HashedAccountsDeprecated = "HashedAccount"
	// HashedStorageDeprecated
	// key - address hash + incarnation + storage key hash
	// value - storage value (common.Hash)
	HashedStorageDeprecated = "HashedStorage"
)

// TrieOfAccounts and TrieOfStorage hold the intermediate hash nodes a trie
// walker driven by a RetainDecider can reuse for paths it didn't descend
// into; touching an account or storage slot invalidates whatever node this
// module's accumulator would otherwise have left cached there.
const (
	TrieOfAccounts = "TrieAccount"
	TrieOfStorage  = "TrieStorage"
)

// DestructedAccounts holds the hashed addresses destroyed in the current
// block, mirroring trie.TriePrefixSetsMut.DestroyedAccounts before it is
// frozen and handed to a walker.
const DestructedAccounts = "DestructedAccounts"

type TableFlags uint

const (
	Default TableFlags = 0x00
	DupSort TableFlags = 0x04
)

// TableCfgItem describes the on-disk layout of one bucket.
type TableCfgItem struct {
	Flags TableFlags
	// AutoDupSortKeysConversion enables a key/value reshape so that
	// address+incarnation+slot keys land in the same DupSort bucket as
	// address+incarnation account keys.
	AutoDupSortKeysConversion bool
	DupFromLen                int
	DupToLen                  int
}

type TableCfg map[string]TableCfgItem

// StateTables lists every bucket this module addresses. Sorted by init so
// IsStateTable can binary-search it.
var StateTables = []string{
	HashedAccountsDeprecated,
	HashedStorageDeprecated,
	TrieOfAccounts,
	TrieOfStorage,
	DestructedAccounts,
}

var StateTablesCfg = TableCfg{
	HashedStorageDeprecated: {
		Flags:                     DupSort,
		AutoDupSortKeysConversion: true,
		DupFromLen:                72,
		DupToLen:                  40,
	},
	TrieOfStorage:      {Flags: DupSort},
	DestructedAccounts: {},
}

// IsStateTable reports whether name is one of StateTables.
func IsStateTable(name string) bool {
	i := sort.SearchStrings(StateTables, name)
	return i < len(StateTables) && StateTables[i] == name
}

func init() {
	sort.Strings(StateTables)
}
