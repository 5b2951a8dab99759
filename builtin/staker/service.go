// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
	"github.com/atomicwallet/awc-staking/state"
)

// EventSink persists committed events.
type EventSink interface {
	Insert(evs []*events.Event) error
}

// Clock returns the current unix time in seconds.
type Clock func() uint64

// SystemClock reads the wall clock.
func SystemClock() uint64 {
	return uint64(time.Now().Unix())
}

// Service serializes operations on the engine and persists each one atomically.
// Writers are applied one at a time in lock order, readers share the read lock.
type Service struct {
	mu      sync.RWMutex
	state   *state.State
	staker  *Staker
	journal *events.Journal
	sink    EventSink
	clock   Clock
}

func NewService(st *state.State, staker *Staker, journal *events.Journal, sink EventSink, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock
	}
	return &Service{
		state:   st,
		staker:  staker,
		journal: journal,
		sink:    sink,
		clock:   clock,
	}
}

// Staker returns the underlying engine. Calls on it bypass the service lock.
func (s *Service) Staker() *Staker {
	return s.staker
}

// Update runs fn under the write lock and commits its changes.
// The context is only checked before the lock is taken, a started operation always completes.
func (s *Service) Update(ctx context.Context, fn func(now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	checkpoint := s.state.NewCheckpoint()
	journalLen := s.journal.Len()
	if err := fn(now); err != nil {
		s.state.RevertTo(checkpoint)
		s.journal.RevertTo(journalLen)
		return err
	}

	stage := s.state.Stage()
	if err := stage.Commit(); err != nil {
		s.state.RevertTo(checkpoint)
		s.journal.RevertTo(journalLen)
		return errors.Wrap(err, "commit state")
	}
	logger.Debug("state committed", "changes", stage.Len(), "hash", stage.Hash().AbbrevString())

	evs := s.journal.Take()
	for _, ev := range evs {
		if ev.Timestamp == 0 {
			ev.Timestamp = now
		}
	}
	if s.sink != nil && len(evs) > 0 {
		if err := s.sink.Insert(evs); err != nil {
			logger.Warn("failed to persist events", "count", len(evs), "err", err)
		}
	}
	s.staker.reportTotals()
	return nil
}

// View runs fn under the read lock.
func (s *Service) View(ctx context.Context, fn func(now uint64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.clock())
}

func (s *Service) Stake(ctx context.Context, user awc.Address, amount *big.Int) error {
	return s.Update(ctx, func(now uint64) error {
		return s.staker.Stake(user, amount, now)
	})
}

func (s *Service) Unstake(ctx context.Context, user awc.Address, amount *big.Int) (paid *big.Int, err error) {
	err = s.Update(ctx, func(now uint64) error {
		paid, err = s.staker.Unstake(user, amount, now)
		return err
	})
	return
}

func (s *Service) UnstakeAll(ctx context.Context, user awc.Address) (amount, paid *big.Int, err error) {
	err = s.Update(ctx, func(now uint64) error {
		amount, paid, err = s.staker.UnstakeAll(user, now)
		return err
	})
	return
}

func (s *Service) ClaimReward(ctx context.Context, user awc.Address) (paid *big.Int, err error) {
	err = s.Update(ctx, func(now uint64) error {
		paid, err = s.staker.ClaimReward(user, now)
		return err
	})
	return
}

func (s *Service) Restake(ctx context.Context, user awc.Address) (compounded *big.Int, err error) {
	err = s.Update(ctx, func(now uint64) error {
		compounded, err = s.staker.Restake(user, now)
		return err
	})
	return
}

func (s *Service) GetFreezeAtomic(ctx context.Context, user awc.Address) (released, paid *big.Int, err error) {
	err = s.Update(ctx, func(now uint64) error {
		released, paid, err = s.staker.GetFreezeAtomic(user, now)
		return err
	})
	return
}

func (s *Service) SetMinStakeAmount(ctx context.Context, caller awc.Address, newMin *big.Int) error {
	return s.Update(ctx, func(uint64) error {
		return s.staker.SetMinStakeAmount(caller, newMin)
	})
}

func (s *Service) SetRewardPerSecond(ctx context.Context, caller awc.Address, percentBasisPoints uint64) error {
	return s.Update(ctx, func(uint64) error {
		return s.staker.SetRewardPerSecond(caller, percentBasisPoints)
	})
}

func (s *Service) Migrate(ctx context.Context) (from, to uint64, err error) {
	err = s.Update(ctx, func(uint64) error {
		from, to, err = s.staker.Migrate()
		return err
	})
	return
}

// AccountView is an account with its reward pending at the time of reading.
type AccountView struct {
	*account.Account
	PendingReward *big.Int
	Now           uint64
}

func (s *Service) Account(ctx context.Context, user awc.Address) (view *AccountView, err error) {
	err = s.View(ctx, func(now uint64) error {
		acc, err := s.staker.GetAccount(user)
		if err != nil {
			return err
		}
		pending, err := s.staker.PendingReward(user, now)
		if err != nil {
			return err
		}
		view = &AccountView{Account: acc, PendingReward: pending, Now: now}
		return nil
	})
	return
}

// Config is the engine configuration.
type Config struct {
	RewardPerSecond *big.Int
	MinStakeAmount  *big.Int
	CooldownPeriod  uint64
	TotalStaked     *big.Int
	TotalFrozen     *big.Int
	SchemaVersion   uint64
}

func (s *Service) Config(ctx context.Context) (cfg *Config, err error) {
	err = s.View(ctx, func(uint64) error {
		c := &Config{}
		var err error
		if c.RewardPerSecond, err = s.staker.RewardPerSecond(); err != nil {
			return err
		}
		if c.MinStakeAmount, err = s.staker.MinStakeAmount(); err != nil {
			return err
		}
		if c.CooldownPeriod, err = s.staker.CooldownPeriod(); err != nil {
			return err
		}
		if c.TotalStaked, c.TotalFrozen, err = s.staker.Totals(); err != nil {
			return err
		}
		if c.SchemaVersion, err = s.staker.SchemaVersion(); err != nil {
			return err
		}
		cfg = c
		return nil
	})
	return
}

func (s *Service) Stakers(ctx context.Context, offset, limit uint64) (users []awc.Address, err error) {
	err = s.View(ctx, func(uint64) error {
		users, err = s.staker.Stakers(offset, limit)
		return err
	})
	return
}
