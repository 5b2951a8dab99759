// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/accrual"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
)

// loadAndSettle prepares an account for a mutating operation.
func (s *Staker) loadAndSettle(user awc.Address, now uint64) (*account.Account, *big.Int, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, nil, err
	}
	acc, err := s.accounts.Get(user)
	if err != nil {
		return nil, nil, err
	}
	paid, err := s.settle(acc, now)
	if err != nil {
		return nil, nil, err
	}
	return acc, paid, nil
}

// Stake locks amount of the user's tokens. The engine must be approved to move them.
func (s *Staker) Stake(user awc.Address, amount *big.Int, now uint64) error {
	return s.atomic("stake", user, func() error {
		minStake, err := s.MinStakeAmount()
		if err != nil {
			return err
		}
		if amount.Cmp(minStake) < 0 {
			return reverts.ErrAmountTooLow
		}

		acc, paid, err := s.loadAndSettle(user, now)
		if err != nil {
			return err
		}
		if err := s.forward(user, paid); err != nil {
			return err
		}
		if err := s.token.TransferFrom(s.addr, user, s.addr, amount); err != nil {
			return err
		}

		acc.Amount.Add(acc.Amount, amount)
		acc.Accruing = true
		if err := s.globalStats.AddStake(amount); err != nil {
			return err
		}
		if err := s.accounts.Set(user, acc); err != nil {
			return err
		}

		s.emit(events.Deposit, user, amount, 0, now)
		logger.Info("staked", "user", user, "amount", amount, "total", acc.Amount)
		return nil
	})
}

// Unstake moves amount from the stake into frozen principal and restarts the cooldown.
// Collected reward is sent to the user.
func (s *Staker) Unstake(user awc.Address, amount *big.Int, now uint64) (paid *big.Int, err error) {
	err = s.atomic("unstake", user, func() error {
		paid, err = s.unstake(user, amount, now)
		return err
	})
	return
}

// UnstakeAll unstakes the whole stake of the user.
func (s *Staker) UnstakeAll(user awc.Address, now uint64) (amount, paid *big.Int, err error) {
	err = s.atomic("unstakeAll", user, func() error {
		acc, err := s.accounts.Get(user)
		if err != nil {
			return err
		}
		amount = new(big.Int).Set(acc.Amount)
		paid, err = s.unstake(user, amount, now)
		return err
	})
	return
}

func (s *Staker) unstake(user awc.Address, amount *big.Int, now uint64) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, reverts.ErrInsufficientStake
	}
	acc, paid, err := s.loadAndSettle(user, now)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(acc.Amount) > 0 {
		return nil, reverts.ErrInsufficientStake
	}
	cooldown, err := s.CooldownPeriod()
	if err != nil {
		return nil, err
	}

	acc.Amount.Sub(acc.Amount, amount)
	acc.FrozenPrincipal.Add(acc.FrozenPrincipal, amount)
	acc.FrozenUntil = now + cooldown

	minStake, err := s.MinStakeAmount()
	if err != nil {
		return nil, err
	}
	if acc.Amount.Cmp(minStake) < 0 {
		acc.Accruing = false
	}

	if err := s.globalStats.Freeze(amount); err != nil {
		return nil, err
	}
	if err := s.accounts.Set(user, acc); err != nil {
		return nil, err
	}
	if err := s.forward(user, paid); err != nil {
		return nil, err
	}

	s.emit(events.Unstake, user, amount, acc.FrozenUntil, now)
	logger.Info("unstaked", "user", user, "amount", amount, "frozenUntil", acc.FrozenUntil, "paid", paid)
	return paid, nil
}

// ClaimReward settles the account and sends the collected reward to the user.
func (s *Staker) ClaimReward(user awc.Address, now uint64) (paid *big.Int, err error) {
	err = s.atomic("claimReward", user, func() error {
		var acc *account.Account
		if acc, paid, err = s.loadAndSettle(user, now); err != nil {
			return err
		}
		if err := s.accounts.Set(user, acc); err != nil {
			return err
		}
		if err := s.forward(user, paid); err != nil {
			return err
		}
		s.emit(events.Claim, user, paid, 0, now)
		logger.Info("reward claimed", "user", user, "paid", paid, "debt", acc.Debt)
		return nil
	})
	return
}

// Restake settles the account and compounds the collected reward into the stake.
func (s *Staker) Restake(user awc.Address, now uint64) (compounded *big.Int, err error) {
	err = s.atomic("restake", user, func() error {
		var acc *account.Account
		if acc, compounded, err = s.loadAndSettle(user, now); err != nil {
			return err
		}
		acc.Amount.Add(acc.Amount, compounded)
		minStake, err := s.MinStakeAmount()
		if err != nil {
			return err
		}
		if acc.Amount.Sign() > 0 && acc.Amount.Cmp(minStake) >= 0 {
			acc.Accruing = true
		}
		if err := s.globalStats.AddStake(compounded); err != nil {
			return err
		}
		if err := s.accounts.Set(user, acc); err != nil {
			return err
		}
		s.emit(events.Restake, user, compounded, 0, now)
		logger.Info("reward restaked", "user", user, "amount", compounded, "total", acc.Amount)
		return nil
	})
	return
}

// GetFreezeAtomic releases frozen principal once its cooldown elapsed, together
// with any collectible reward. With nothing frozen it only settles.
func (s *Staker) GetFreezeAtomic(user awc.Address, now uint64) (released, paid *big.Int, err error) {
	err = s.atomic("getFreezeAtomic", user, func() error {
		if err := s.ensureInitialized(); err != nil {
			return err
		}
		acc, err := s.accounts.Get(user)
		if err != nil {
			return err
		}
		if acc.FrozenPrincipal.Sign() > 0 && now < acc.FrozenUntil {
			return reverts.ErrFreezeNotElapsed
		}

		if paid, err = s.settle(acc, now); err != nil {
			return err
		}
		released = new(big.Int).Set(acc.FrozenPrincipal)
		acc.FrozenPrincipal.SetInt64(0)

		if err := s.globalStats.Release(released); err != nil {
			return err
		}
		if err := s.accounts.Set(user, acc); err != nil {
			return err
		}
		if err := s.forward(user, new(big.Int).Add(released, paid)); err != nil {
			return err
		}
		if released.Sign() > 0 {
			s.emit(events.Release, user, released, 0, now)
		}
		logger.Info("freeze released", "user", user, "released", released, "paid", paid)
		return nil
	})
	return
}

// SetMinStakeAmount replaces the minimum stake amount. Operator only.
func (s *Staker) SetMinStakeAmount(caller awc.Address, newMin *big.Int) error {
	return s.atomic("setMinStakeAmount", caller, func() error {
		if err := s.ensureOperator(caller); err != nil {
			return err
		}
		if newMin.Sign() < 0 {
			return reverts.ErrAmountTooLow
		}
		if err := s.params.Set(awc.KeyMinStakeAmount, newMin); err != nil {
			return err
		}
		s.emit(events.MinStakeChanged, caller, newMin, 0, 0)
		logger.Info("min stake amount changed", "caller", caller, "value", newMin)
		return nil
	})
}

// SetRewardPerSecond derives the per-second rate from an annual percentage in
// basis points. Existing accounts are not resettled, so the new rate also
// covers time they have not settled yet. Operator only.
func (s *Staker) SetRewardPerSecond(caller awc.Address, percentBasisPoints uint64) error {
	return s.atomic("setRewardPerSecond", caller, func() error {
		if err := s.ensureOperator(caller); err != nil {
			return err
		}
		rate, err := accrual.DeriveRatePerSecond(percentBasisPoints, awc.SecondsPerYear, awc.AccrualScale)
		if err != nil {
			return err
		}
		if err := s.params.Set(awc.KeyRewardPerSecond, rate); err != nil {
			return err
		}
		s.emit(events.RateChanged, caller, rate, percentBasisPoints, 0)
		logger.Info("reward rate changed", "caller", caller, "percent", percentBasisPoints, "rewardPerSecond", rate)
		return nil
	})
}
