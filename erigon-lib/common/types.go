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

// Package common holds the small value types shared across erigon-lib
// packages. Only the pieces needed by the trie prefix-set engine are
// kept here; the full erigon-lib/common carries many more (ChainConfig,
// Decimal types, etc.) that are out of scope for this module.
package common

import (
	"encoding/hex"
)

const (
	// HashLength is the expected length of a hash, in bytes.
	HashLength = 32
	// AddressLength is the expected length of an account address, in bytes.
	AddressLength = 20
)

// Hash represents the 32-byte Keccak256 hash of arbitrary data, used
// throughout the state trie as the hashed-address and hashed-storage-slot
// key.
type Hash [HashLength]byte

// BytesToHash sets the hash to the value of b, left-padding if b is short.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// Address represents the 20-byte account address.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }
