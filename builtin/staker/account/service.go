// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package account stores staking accounts and the index of every user that ever staked.
package account

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
)

var (
	slotAccounts   = awc.BytesToBytes32([]byte("accounts"))
	slotIndexCount = awc.BytesToBytes32([]byte("accounts-index-count"))
	slotIndex      = awc.BytesToBytes32([]byte("accounts-index"))
)

type indexKey uint64

func (k indexKey) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(k))
	return b[:]
}

// Service manages account storage.
type Service struct {
	accounts   *solidity.Mapping[awc.Address, *Account]
	indexCount *solidity.Raw[uint64]
	index      *solidity.Mapping[indexKey, awc.Address]
}

// NewService binds account storage to the staker contract context.
func NewService(sctx *solidity.Context) *Service {
	return &Service{
		accounts:   solidity.NewMapping[awc.Address, *Account](sctx, slotAccounts),
		indexCount: solidity.NewRaw[uint64](sctx, slotIndexCount),
		index:      solidity.NewMapping[indexKey, awc.Address](sctx, slotIndex),
	}
}

// Get returns the account of user, an empty one if it never staked.
func (s *Service) Get(user awc.Address) (*Account, error) {
	acc, err := s.accounts.Get(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	return acc.normalize(), nil
}

// Set stores the account, indexing the user on first write.
func (s *Service) Set(user awc.Address, acc *Account) error {
	exists, err := s.accounts.Exists(user)
	if err != nil {
		return err
	}
	if !exists {
		count, err := s.indexCount.Get()
		if err != nil {
			return err
		}
		if err := s.index.Set(indexKey(count), user); err != nil {
			return err
		}
		if err := s.indexCount.Upsert(count + 1); err != nil {
			return err
		}
	}
	if err := s.accounts.Set(user, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// Count returns the number of indexed users.
func (s *Service) Count() (uint64, error) {
	return s.indexCount.Get()
}

// Iterate visits indexed users in first-stake order, starting at offset.
// Iteration stops when cb returns false.
func (s *Service) Iterate(offset uint64, cb func(user awc.Address, acc *Account) (bool, error)) error {
	count, err := s.indexCount.Get()
	if err != nil {
		return err
	}
	for i := offset; i < count; i++ {
		user, err := s.index.Get(indexKey(i))
		if err != nil {
			return err
		}
		acc, err := s.Get(user)
		if err != nil {
			return err
		}
		next, err := cb(user, acc)
		if err != nil {
			return err
		}
		if !next {
			return nil
		}
	}
	return nil
}
