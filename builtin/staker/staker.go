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
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/params"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/schema"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
	"github.com/atomicwallet/awc-staking/builtin/staker/globalstats"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/metrics"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	logger = log.WithContext("pkg", "staker")

	metricOpsCount    = metrics.LazyLoadCounterVec("staker_ops_count", []string{"op", "result"})
	metricTotalStaked = metrics.LazyLoadGauge("staker_total_staked")
	metricTotalFrozen = metrics.LazyLoadGauge("staker_total_frozen")

	slotBindings = awc.BytesToBytes32([]byte("bindings"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Token is the stake token the engine keeps principal in.
type Token interface {
	Address() awc.Address
	BalanceOf(addr awc.Address) (*big.Int, error)
	Transfer(from, to awc.Address, amount *big.Int) error
	TransferFrom(spender, from, to awc.Address, amount *big.Int) error
}

// RewardPool pays rewards to the engine.
type RewardPool interface {
	Address() awc.Address
	Balance() (*big.Int, error)
	Payout(caller awc.Address, requested *big.Int) (*big.Int, error)
}

// Authorizer answers role membership questions.
type Authorizer interface {
	HasRole(role awc.Bytes32, member awc.Address) (bool, error)
}

// bindings records the collaborators fixed at initialization.
type bindings struct {
	Token    awc.Address
	Treasury awc.Address
}

// Staker implements the staking engine contract.
type Staker struct {
	addr    awc.Address
	state   *state.State
	params  *params.Params
	token   Token
	pool    RewardPool
	auth    Authorizer
	journal *events.Journal

	bindings    *solidity.Raw[*bindings]
	schema      *schema.Schema
	accounts    *account.Service
	globalStats *globalstats.Service
}

// New create a new instance.
func New(
	addr awc.Address,
	state *state.State,
	params *params.Params,
	token Token,
	pool RewardPool,
	auth Authorizer,
	journal *events.Journal,
) *Staker {
	sctx := solidity.NewContext(addr, state)

	return &Staker{
		addr:    addr,
		state:   state,
		params:  params,
		token:   token,
		pool:    pool,
		auth:    auth,
		journal: journal,

		bindings:    solidity.NewRaw[*bindings](sctx, slotBindings),
		schema:      schema.New(addr, state),
		accounts:    account.NewService(sctx),
		globalStats: globalstats.New(sctx),
	}
}

// Address returns the contract address of the engine, which is also the custody account of principal.
func (s *Staker) Address() awc.Address {
	return s.addr
}

//
// Getters - no state change
//

// IsInitialized returns whether Initialize has run.
func (s *Staker) IsInitialized() (bool, error) {
	b, err := s.bindings.Get()
	if err != nil {
		return false, err
	}
	return !b.Token.IsZero(), nil
}

// GetAccount returns the account of user, zero valued if it never staked.
func (s *Staker) GetAccount(user awc.Address) (*account.Account, error) {
	return s.accounts.Get(user)
}

// PendingReward returns the reward accrued since the last settlement, excluding carried debt.
func (s *Staker) PendingReward(user awc.Address, now uint64) (*big.Int, error) {
	acc, err := s.accounts.Get(user)
	if err != nil {
		return nil, err
	}
	if !acc.Accruing || now <= acc.LastSettlement {
		return new(big.Int), nil
	}
	rate, err := s.RewardPerSecond()
	if err != nil {
		return nil, err
	}
	return accrual.PendingReward(acc.Amount, now-acc.LastSettlement, rate, awc.AccrualScale)
}

// RewardPerSecond returns the per-second accrual rate, scaled by awc.AccrualScale.
func (s *Staker) RewardPerSecond() (*big.Int, error) {
	return s.params.Get(awc.KeyRewardPerSecond)
}

// MinStakeAmount returns the smallest amount accepted by Stake.
func (s *Staker) MinStakeAmount() (*big.Int, error) {
	return s.params.Get(awc.KeyMinStakeAmount)
}

// CooldownPeriod returns the seconds unstaked principal stays frozen.
func (s *Staker) CooldownPeriod() (uint64, error) {
	return s.params.GetUint64(awc.KeyCooldownPeriod)
}

// Totals returns the total staked and total frozen principal.
func (s *Staker) Totals() (*big.Int, *big.Int, error) {
	return s.globalStats.Totals()
}

// SchemaVersion returns the storage layout version.
func (s *Staker) SchemaVersion() (uint64, error) {
	return s.schema.Version()
}

// Stakers lists users in first-stake order.
func (s *Staker) Stakers(offset, limit uint64) ([]awc.Address, error) {
	users := make([]awc.Address, 0)
	if limit == 0 {
		return users, nil
	}
	err := s.accounts.Iterate(offset, func(user awc.Address, _ *account.Account) (bool, error) {
		users = append(users, user)
		return uint64(len(users)) < limit, nil
	})
	return users, err
}

//
// Setters - state change
//

// Initialize binds the engine to its token and treasury and sets the initial reward rate.
// Unset min stake and cooldown params get their defaults.
func (s *Staker) Initialize(token awc.Address, percentBasisPoints uint64, treasury awc.Address) error {
	return s.atomic("initialize", awc.Address{}, func() error {
		ok, err := s.IsInitialized()
		if err != nil {
			return err
		}
		if ok {
			return reverts.ErrAlreadyInitialized
		}
		if token != s.token.Address() || treasury != s.pool.Address() {
			return errors.Errorf("staker: bindings mismatch token %v treasury %v", token, treasury)
		}

		rate, err := accrual.DeriveRatePerSecond(percentBasisPoints, awc.SecondsPerYear, awc.AccrualScale)
		if err != nil {
			return err
		}
		if err := s.params.Set(awc.KeyRewardPerSecond, rate); err != nil {
			return err
		}
		if err := s.setDefault(awc.KeyMinStakeAmount, awc.InitialMinStakeAmount); err != nil {
			return err
		}
		if err := s.setDefault(awc.KeyCooldownPeriod, new(big.Int).SetUint64(awc.InitialCooldownPeriod)); err != nil {
			return err
		}
		if err := s.schema.SetVersion(LatestSchemaVersion); err != nil {
			return err
		}
		logger.Info("staker initialized", "token", token, "treasury", treasury, "rewardPerSecond", rate)
		return s.bindings.Upsert(&bindings{Token: token, Treasury: treasury})
	})
}

func (s *Staker) setDefault(key awc.Bytes32, value *big.Int) error {
	current, err := s.params.Get(key)
	if err != nil {
		return err
	}
	if current.Sign() != 0 {
		return nil
	}
	return s.params.Set(key, value)
}

// atomic runs fn inside a state checkpoint. Any error reverts the state and
// drops the events fn emitted.
func (s *Staker) atomic(op string, user awc.Address, fn func() error) error {
	checkpoint := s.state.NewCheckpoint()
	journalLen := s.journal.Len()

	logger.Debug(op, "user", user)
	if err := fn(); err != nil {
		s.state.RevertTo(checkpoint)
		s.journal.RevertTo(journalLen)

		result := "error"
		if reverts.IsRevertErr(err) {
			result = "revert"
		}
		metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		logger.Info(op+" failed", "user", user, "err", err)
		return err
	}
	metricOpsCount().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	return nil
}

func (s *Staker) ensureInitialized() error {
	ok, err := s.IsInitialized()
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrNotInitialized
	}
	return nil
}

func (s *Staker) ensureOperator(caller awc.Address) error {
	ok, err := s.auth.HasRole(awc.RoleOperator, caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (s *Staker) emit(name string, user awc.Address, amount *big.Int, data, now uint64) {
	s.journal.Emit(&events.Event{
		Contract:  s.addr,
		Name:      name,
		Account:   user,
		Amount:    new(big.Int).Set(amount),
		Data:      data,
		Timestamp: now,
	})
}

// reportTotals publishes the totals gauges.
func (s *Staker) reportTotals() {
	staked, frozen, err := s.globalStats.Totals()
	if err != nil {
		return
	}
	if staked.IsInt64() {
		metricTotalStaked().Set(staked.Int64())
	}
	if frozen.IsInt64() {
		metricTotalFrozen().Set(frozen.Int64())
	}
}
