// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/atomicwallet/awc-staking/awc"
)

// Stage abstracts changes staged for commit.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed storage slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the digest of the staged change set, independent of map order.
func (s *Stage) Hash() awc.Bytes32 {
	keys := make([][]byte, 0, len(s.changes))
	vals := make(map[string]rlp.RawValue, len(s.changes))
	for k, v := range s.changes {
		kb := k.Bytes()
		keys = append(keys, kb)
		vals[string(kb)] = v
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	data := make([][]byte, 0, len(keys)*2)
	for _, k := range keys {
		data = append(data, k, vals[string(k)])
	}
	return awc.Blake2b(data...)
}

// Commit writes all staged changes into the underlying store atomically.
// The state continues from the committed values with an empty journal.
func (s *Stage) Commit() error {
	bulk := s.state.store.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.Bytes())
		} else {
			err = bulk.Put(k.Bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	for k, v := range s.changes {
		s.state.cache.Add(k, v)
	}
	s.state.reset()
	return nil
}
