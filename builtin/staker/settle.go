// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/accrual"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
)

// settle accrues the reward earned since the last settlement into debt, then
// collects as much debt as the treasury can pay. The collected amount is held
// by the engine, callers decide whether it goes to the user or compounds.
//
// An account left below the min stake amount stops accruing. Only Stake and
// Restake turn accrual back on.
func (s *Staker) settle(acc *account.Account, now uint64) (*big.Int, error) {
	if now < acc.LastSettlement {
		return nil, reverts.ErrClockWentBackwards
	}

	if elapsed := now - acc.LastSettlement; elapsed > 0 && acc.Accruing && acc.Amount.Sign() > 0 {
		rate, err := s.RewardPerSecond()
		if err != nil {
			return nil, err
		}
		reward, err := accrual.PendingReward(acc.Amount, elapsed, rate, awc.AccrualScale)
		if err != nil {
			return nil, errors.Wrap(err, "accrue reward")
		}
		acc.Debt.Add(acc.Debt, reward)
	}
	acc.LastSettlement = now

	paid := new(big.Int)
	if acc.Debt.Sign() > 0 {
		var err error
		if paid, err = s.pool.Payout(s.addr, acc.Debt); err != nil {
			return nil, errors.Wrap(err, "treasury payout")
		}
		if paid.Cmp(acc.Debt) > 0 {
			return nil, errors.Errorf("treasury paid %v above debt %v", paid, acc.Debt)
		}
		acc.Debt.Sub(acc.Debt, paid)
		if acc.Debt.Sign() > 0 {
			logger.Debug("reward debt carried", "debt", acc.Debt, "paid", paid)
		}
	}

	minStake, err := s.MinStakeAmount()
	if err != nil {
		return nil, err
	}
	if acc.Amount.Cmp(minStake) < 0 {
		acc.Accruing = false
	}
	return paid, nil
}

// forward sends collected reward from the engine custody to the user.
func (s *Staker) forward(user awc.Address, paid *big.Int) error {
	if paid.Sign() == 0 {
		return nil
	}
	return s.token.Transfer(s.addr, user, paid)
}
