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

// Package trie holds a minimal incremental-hashing walker used to exercise
// the RetainDecider contract end to end. It deliberately stops short of a
// real hash builder: RLP encoding and node hashing are out of scope for
// this module, so nodes here are represented by their sorted trie.Path
// alone.
package trie

import (
	"go.uber.org/zap"

	"github.com/erigontech/erigon-lib/common"
	"github.com/erigontech/erigon-lib/common/math"
	erigontrie "github.com/erigontech/erigon-lib/trie"
)

// Decision records, for a single trie node, whether the walker descended
// into it or reused a cached hash.
type Decision struct {
	Path      erigontrie.Path
	Descended bool
	Destroyed bool
}

// WalkAccountTrie visits every path in sortedKeys (standing in for the
// leaves of a real account trie, which would come from a flat-DB cursor)
// in slice order, consulting decider to decide whether each subtree
// must be descended into. It returns one Decision per path.
//
// The logger, when non-nil, records at debug level each query after which
// the decider's cursor sits at a lower index than after the previous
// query, with that distance; a rewind that the same query's forward scan
// makes up again is not logged. A growing rewind distance signals that the
// caller isn't feeding WalkAccountTrie keys in the roughly-sorted order
// the cursor is optimized for.
func WalkAccountTrie(decider *erigontrie.AccountRetainDecider, sortedKeys []erigontrie.Path, hashedAddresses []common.Hash, log *zap.Logger) []Decision {
	if log == nil {
		log = zap.NewNop()
	}
	decisions := make([]Decision, 0, len(sortedKeys))
	prevCursor := 0
	for i, key := range sortedKeys {
		destroyed := decider.IsDestroyed(hashedAddresses[i])
		retain := decider.Retain(key)

		cursorAfter := decider.CursorPos()
		if distance, rewound := math.CursorRewindDistance(prevCursor, cursorAfter); rewound {
			log.Debug("prefix-set cursor rewound",
				zap.Stringer("path", key),
				zap.Uint64("distance", distance),
			)
		}
		prevCursor = cursorAfter

		d := Decision{Path: key, Descended: retain || destroyed, Destroyed: destroyed}
		decisions = append(decisions, d)
		if d.Descended {
			log.Debug("descending into subtree", zap.Stringer("path", key), zap.Bool("destroyed", destroyed))
		} else {
			log.Debug("reusing cached hash", zap.Stringer("path", key))
		}
	}
	return decisions
}
