// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package treasury holds the reward pool the staking engine pays rewards from.
package treasury

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/metrics"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	logger = log.WithContext("pkg", "treasury")

	metricPayoutAmount   = metrics.LazyLoadCounter("treasury_payout_amount")
	metricShortfallCount = metrics.LazyLoadCounter("treasury_shortfall_count")

	slotRewardToken = awc.BytesToBytes32([]byte("reward-token"))
)

// Authorizer answers role membership questions.
type Authorizer interface {
	HasRole(role awc.Bytes32, member awc.Address) (bool, error)
}

// Ledger is the part of the reward token the treasury moves funds with.
type Ledger interface {
	Address() awc.Address
	BalanceOf(addr awc.Address) (*big.Int, error)
	Transfer(from, to awc.Address, amount *big.Int) error
}

// Treasury binder of the reward pool contract.
type Treasury struct {
	addr        awc.Address
	rewardToken *solidity.Raw[awc.Address]
	ledger      Ledger
	auth        Authorizer
	journal     *events.Journal
}

func New(addr awc.Address, state *state.State, ledger Ledger, auth Authorizer, journal *events.Journal) *Treasury {
	return &Treasury{
		addr:        addr,
		rewardToken: solidity.NewRaw[awc.Address](solidity.NewContext(addr, state), slotRewardToken),
		ledger:      ledger,
		auth:        auth,
		journal:     journal,
	}
}

// Address returns the contract address of the treasury.
func (t *Treasury) Address() awc.Address {
	return t.addr
}

// Initialize binds the treasury to its reward token.
func (t *Treasury) Initialize(rewardToken awc.Address) error {
	current, err := t.rewardToken.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrAlreadyInitialized
	}
	if rewardToken != t.ledger.Address() {
		return errors.Errorf("treasury: reward token %v is not the bound ledger %v", rewardToken, t.ledger.Address())
	}
	return t.rewardToken.Upsert(rewardToken)
}

// RewardToken returns the token rewards are paid in.
func (t *Treasury) RewardToken() (awc.Address, error) {
	return t.rewardToken.Get()
}

func (t *Treasury) checkReady(caller awc.Address) error {
	token, err := t.rewardToken.Get()
	if err != nil {
		return err
	}
	if token.IsZero() {
		return reverts.ErrNotInitialized
	}
	ok, err := t.auth.HasRole(awc.RoleWithdraw, caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

// Balance returns the amount available for payouts.
func (t *Treasury) Balance() (*big.Int, error) {
	return t.ledger.BalanceOf(t.addr)
}

// Payout transfers up to requested to caller and returns what was paid.
// An underfunded pool pays what it has, it does not fail.
func (t *Treasury) Payout(caller awc.Address, requested *big.Int) (*big.Int, error) {
	if err := t.checkReady(caller); err != nil {
		return nil, err
	}
	if requested.Sign() <= 0 {
		return new(big.Int), nil
	}
	balance, err := t.Balance()
	if err != nil {
		return nil, err
	}

	paid := new(big.Int).Set(requested)
	if balance.Cmp(requested) < 0 {
		paid.Set(balance)
		metricShortfallCount().Add(1)
		logger.Debug("payout shortfall", "requested", requested, "balance", balance)
	}
	if paid.Sign() == 0 {
		return paid, nil
	}
	if err := t.ledger.Transfer(t.addr, caller, paid); err != nil {
		return nil, err
	}
	if paid.IsInt64() {
		metricPayoutAmount().Add(paid.Int64())
	}
	t.journal.Emit(&events.Event{Contract: t.addr, Name: events.Payout, Account: caller, Amount: new(big.Int).Set(paid)})
	return paid, nil
}

// Withdraw drains amount to the given address.
// Unlike Payout it fails when the pool cannot cover amount.
func (t *Treasury) Withdraw(caller, to awc.Address, amount *big.Int) error {
	if err := t.checkReady(caller); err != nil {
		return err
	}
	if err := t.ledger.Transfer(t.addr, to, amount); err != nil {
		return err
	}
	logger.Info("treasury withdraw", "caller", caller, "to", to, "amount", amount)
	t.journal.Emit(&events.Event{Contract: t.addr, Name: events.Withdraw, Account: to, Amount: new(big.Int).Set(amount)})
	return nil
}
