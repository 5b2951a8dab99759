// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/cache"
	"github.com/atomicwallet/awc-staking/kv"
	"github.com/atomicwallet/awc-staking/stackedmap"
)

const (
	storageBucket = kv.Bucket("s")

	storageCacheSize = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the storage of built-in contracts.
type State struct {
	store kv.Store
	cache *cache.LRU             // cache of committed storage values
	sm    *stackedmap.StackedMap // keeps revisions of storage
}

// New create state object.
func New(db kv.Store) *State {
	c, _ := cache.NewLRU(storageCacheSize)
	s := &State{
		store: storageBucket.NewStore(db),
		cache: c,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.cacheGetter(key)
	})
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	k, ok := key.(storageKey)
	if !ok {
		panic(fmt.Errorf("unexpected key type %+v", key))
	}
	v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
		raw, err := s.store.Get(k.Bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(raw), nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr awc.Address, key awc.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
// An empty value removes the slot.
func (s *State) SetRawStorage(addr awc.Address, key awc.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr awc.Address, key awc.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr awc.Address, key awc.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all uncommitted changes.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k, v any) bool {
		changes[k.(storageKey)] = v.(rlp.RawValue)
		return true
	})
	return &Stage{state: s, changes: changes}
}

type storageKey struct {
	addr awc.Address
	key  awc.Bytes32
}

func (k storageKey) Bytes() []byte {
	b := make([]byte, 0, awc.AddressLength+32)
	return append(append(b, k.addr[:]...), k.key[:]...)
}
