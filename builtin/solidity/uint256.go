// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/atomicwallet/awc-staking/awc"
)

// Uint256 is a wrapper for storage and retrieval of a non-negative big integer.
// Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, pos awc.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, pos)}
}

func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.raw.Get()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() == 0 {
		u.raw.context.state.SetRawStorage(u.raw.context.address, u.raw.pos, nil)
		return nil
	}
	return u.raw.Upsert(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

// Sub subtracts value, failing instead of going negative.
func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return ErrUnderflow
	}
	return u.Set(storage.Sub(storage, value))
}
