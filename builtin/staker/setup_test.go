// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
	"github.com/atomicwallet/awc-staking/builtin/token"
	"github.com/atomicwallet/awc-staking/kv"
	"github.com/atomicwallet/awc-staking/lvldb"
	"github.com/atomicwallet/awc-staking/state"
)

const (
	t0  uint64 = 1_700_000_000
	day        = awc.SecondsPerDay
)

var (
	operator = awc.BytesToAddress([]byte("operator"))
	alice    = awc.BytesToAddress([]byte("alice"))
	bob      = awc.BytesToAddress([]byte("bob"))
)

type testEnv struct {
	*builtin.Contracts
}

// newTestEnv deploys token, treasury and staker at 20% annual, funding the treasury.
func newTestEnv(t *testing.T, treasuryFunding *big.Int) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	return newTestEnvOn(t, db, treasuryFunding)
}

func newTestEnvOn(t *testing.T, db kv.Store, treasuryFunding *big.Int) *testEnv {
	c := builtin.New(state.New(db))

	require.NoError(t, c.Token.Initialize(&token.Info{Name: "Atomic Wallet Coin", Symbol: "AWC", Decimals: awc.Decimals}))
	require.NoError(t, c.Token.Mint(builtin.Treasury, treasuryFunding))

	for _, grant := range []struct {
		role   awc.Bytes32
		member awc.Address
	}{
		{awc.RoleWithdraw, builtin.Staker},
		{awc.RoleWithdraw, operator},
		{awc.RoleOperator, operator},
	} {
		_, err := c.Authority.Grant(grant.role, grant.member)
		require.NoError(t, err)
	}

	require.NoError(t, c.Treasury.Initialize(builtin.Token))
	require.NoError(t, c.Staker.Initialize(builtin.Token, awc.InitialRewardPercent, builtin.Treasury))
	return &testEnv{c}
}

// fund mints tokens to user and approves the staker to pull them.
func (e *testEnv) fund(t *testing.T, user awc.Address, amount *big.Int) {
	require.NoError(t, e.Token.Mint(user, amount))
	allowed, err := e.Token.Allowance(user, builtin.Staker)
	require.NoError(t, err)
	require.NoError(t, e.Token.Approve(user, builtin.Staker, allowed.Add(allowed, amount)))
}

func (e *testEnv) balance(t *testing.T, addr awc.Address) *big.Int {
	bal, err := e.Token.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

// drain moves the whole treasury balance to the operator.
func (e *testEnv) drain(t *testing.T) {
	bal, err := e.Treasury.Balance()
	require.NoError(t, err)
	require.NoError(t, e.Treasury.Withdraw(operator, operator, bal))
}

// assertConservation checks that custody, account principal and totals agree.
func (e *testEnv) assertConservation(t *testing.T) {
	sum := new(big.Int)
	users, err := e.Staker.Stakers(0, 1000)
	require.NoError(t, err)
	for _, user := range users {
		acc, err := e.Staker.GetAccount(user)
		require.NoError(t, err)
		sum.Add(sum, acc.Principal())
	}
	staked, frozen, err := e.Staker.Totals()
	require.NoError(t, err)
	custody := e.balance(t, builtin.Staker)

	ok := assert.Equal(t, custody.String(), sum.String(), "custody vs accounts") &&
		assert.Equal(t, sum.String(), new(big.Int).Add(staked, frozen).String(), "accounts vs totals")
	if !ok {
		for _, user := range users {
			acc, _ := e.Staker.GetAccount(user)
			t.Log(spew.Sdump(user, acc))
		}
	}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Stake(user awc.Address, amount *big.Int, now uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.fund(t, user, amount)
		if err := st.env.Staker.Stake(user, amount, now); err != nil {
			t.Fatalf("failed to stake for %s: %v", user, err)
		}
		t.Logf("staked %s for %s", amount, user)
	})
}

func (st *TestSequence) Unstake(user awc.Address, amount *big.Int, now uint64, expectedPaid string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.env.Staker.Unstake(user, amount, now)
		if err != nil {
			t.Fatalf("failed to unstake for %s: %v", user, err)
		}
		assert.Equal(t, expectedPaid, paid.String(), "unstake payout of %s", user)
	})
}

func (st *TestSequence) Claim(user awc.Address, now uint64, expectedPaid string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		paid, err := st.env.Staker.ClaimReward(user, now)
		if err != nil {
			t.Fatalf("failed to claim for %s: %v", user, err)
		}
		assert.Equal(t, expectedPaid, paid.String(), "claim payout of %s", user)
	})
}

func (st *TestSequence) Release(user awc.Address, now uint64, expectedReleased, expectedPaid string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		released, paid, err := st.env.Staker.GetFreezeAtomic(user, now)
		if err != nil {
			t.Fatalf("failed to release for %s: %v", user, err)
		}
		assert.Equal(t, expectedReleased, released.String(), "released principal of %s", user)
		assert.Equal(t, expectedPaid, paid.String(), "release payout of %s", user)
	})
}

func (st *TestSequence) Pending(user awc.Address, now uint64, expected string) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		pending, err := st.env.Staker.PendingReward(user, now)
		require.NoError(t, err)
		assert.Equal(t, expected, pending.String(), "pending reward of %s", user)
	})
}

func (st *TestSequence) Drain() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.env.drain(t)
	})
}

func (st *TestSequence) Refill(amount *big.Int) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		require.NoError(t, st.env.Token.Mint(builtin.Treasury, amount))
	})
}

func (st *TestSequence) Assert(a *AccountAssertions) *TestSequence {
	return st.AddFunc(a.Assert)
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
	st.env.assertConservation(t)
}

type AccountAssertions struct {
	env  *testEnv
	user awc.Address

	amount   *big.Int
	debt     *big.Int
	frozen   *big.Int
	until    *uint64
	accruing *bool
}

func AssertAccount(env *testEnv, user awc.Address) *AccountAssertions {
	return &AccountAssertions{env: env, user: user}
}

func (aa *AccountAssertions) Amount(expected *big.Int) *AccountAssertions {
	aa.amount = expected
	return aa
}

func (aa *AccountAssertions) Debt(expected *big.Int) *AccountAssertions {
	aa.debt = expected
	return aa
}

func (aa *AccountAssertions) Frozen(expected *big.Int) *AccountAssertions {
	aa.frozen = expected
	return aa
}

func (aa *AccountAssertions) FrozenUntil(expected uint64) *AccountAssertions {
	aa.until = &expected
	return aa
}

func (aa *AccountAssertions) Accruing(expected bool) *AccountAssertions {
	aa.accruing = &expected
	return aa
}

func (aa *AccountAssertions) Assert(t *testing.T) {
	acc, err := aa.env.Staker.GetAccount(aa.user)
	require.NoError(t, err, "failed to get account %s", aa.user)
	aa.check(t, acc)
}

func (aa *AccountAssertions) check(t *testing.T, acc *account.Account) {
	if aa.amount != nil {
		assert.Equal(t, aa.amount.String(), acc.Amount.String(), "account %s amount mismatch", aa.user)
	}
	if aa.debt != nil {
		assert.Equal(t, aa.debt.String(), acc.Debt.String(), "account %s debt mismatch", aa.user)
	}
	if aa.frozen != nil {
		assert.Equal(t, aa.frozen.String(), acc.FrozenPrincipal.String(), "account %s frozen mismatch", aa.user)
	}
	if aa.until != nil {
		assert.Equal(t, *aa.until, acc.FrozenUntil, "account %s frozen until mismatch", aa.user)
	}
	if aa.accruing != nil {
		assert.Equal(t, *aa.accruing, acc.Accruing, "account %s accruing mismatch", aa.user)
	}
}

func bi(v int64) *big.Int {
	return big.NewInt(v)
}
