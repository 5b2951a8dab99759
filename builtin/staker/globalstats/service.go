// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
)

var (
	slotTotalStaked = awc.BytesToBytes32([]byte(("total-staked")))
	slotTotalFrozen = awc.BytesToBytes32([]byte(("total-frozen")))
)

// Service manages contract-wide staking totals.
// Staked principal earns reward, frozen principal waits for its cooldown.
type Service struct {
	staked *solidity.Uint256
	frozen *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		staked: solidity.NewUint256(sctx, slotTotalStaked),
		frozen: solidity.NewUint256(sctx, slotTotalFrozen),
	}
}

// Totals returns the total staked and total frozen principal.
func (s *Service) Totals() (*big.Int, *big.Int, error) {
	staked, err := s.staked.Get()
	if err != nil {
		return nil, nil, err
	}
	frozen, err := s.frozen.Get()
	return staked, frozen, err
}

// AddStake records principal entering the staked total.
func (s *Service) AddStake(amount *big.Int) error {
	return s.staked.Add(amount)
}

// Freeze moves principal from the staked total to the frozen total.
func (s *Service) Freeze(amount *big.Int) error {
	if err := s.staked.Sub(amount); err != nil {
		return errors.Wrap(err, "total staked")
	}
	return s.frozen.Add(amount)
}

// Release records frozen principal leaving the engine.
func (s *Service) Release(amount *big.Int) error {
	if err := s.frozen.Sub(amount); err != nil {
		return errors.Wrap(err, "total frozen")
	}
	return nil
}

// Reset overwrites both totals, used when backfilling from accounts.
func (s *Service) Reset(staked, frozen *big.Int) error {
	if err := s.staked.Set(staked); err != nil {
		return err
	}
	return s.frozen.Set(frozen)
}
