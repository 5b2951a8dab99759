// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"math/big"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/state"
)

// Params binder of the params contract.
// Each param is a non-negative integer addressed by a 32 bytes key.
type Params struct {
	ctx *solidity.Context
}

func New(addr awc.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key awc.Bytes32) (*big.Int, error) {
	return solidity.NewUint256(p.ctx, key).Get()
}

// Set native way to set param.
func (p *Params) Set(key awc.Bytes32, value *big.Int) error {
	return solidity.NewUint256(p.ctx, key).Set(value)
}

// GetUint64 returns the param truncated to uint64, for params that are durations.
func (p *Params) GetUint64(key awc.Bytes32) (uint64, error) {
	v, err := p.Get(key)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}
