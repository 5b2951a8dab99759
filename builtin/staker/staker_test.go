// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/lvldb"
	"github.com/atomicwallet/awc-staking/state"
)

var stake500 = awc.Units(500) // 50,000,000,000 base units

func TestStaker_Initialize(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	rate, err := env.Staker.RewardPerSecond()
	require.NoError(t, err)
	assert.Equal(t, "6341958396", rate.String())

	minStake, err := env.Staker.MinStakeAmount()
	require.NoError(t, err)
	assert.Equal(t, awc.InitialMinStakeAmount.String(), minStake.String())

	cooldown, err := env.Staker.CooldownPeriod()
	require.NoError(t, err)
	assert.Equal(t, 10*day, cooldown)

	version, err := env.Staker.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), version)

	err = env.Staker.Initialize(builtin.Token, awc.InitialRewardPercent, builtin.Treasury)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
}

func TestStaker_NotInitialized(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	c := builtin.New(state.New(db))

	_, err = c.Staker.ClaimReward(alice, t0)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	_, err = c.Staker.Restake(alice, t0)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	_, _, err = c.Staker.GetFreezeAtomic(alice, t0)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	err = c.Staker.Initialize(awc.BytesToAddress([]byte("other")), awc.InitialRewardPercent, builtin.Treasury)
	assert.Error(t, err)
	ok, err := c.Staker.IsInitialized()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenario_ClaimAfterFortyDays(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Pending(alice, t0+40*day, "1095890410").
		Claim(alice, t0+40*day, "1095890410").
		Assert(AssertAccount(env, alice).Amount(stake500).Debt(bi(0)).Accruing(true)).
		Pending(alice, t0+40*day, "0").
		Run(t)

	assert.Equal(t, "1095890410", env.balance(t, alice).String())
	assert.Equal(t, stake500.String(), env.balance(t, builtin.Staker).String())
}

func TestScenario_PendingAfterOneYear(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Pending(alice, t0+awc.SecondsPerYear, "9999999998").
		Run(t)

	pending, err := env.Staker.PendingReward(alice, t0+awc.SecondsPerYear)
	require.NoError(t, err)
	diff := new(big.Int).Sub(awc.Units(100), pending)
	assert.True(t, diff.Sign() >= 0 && diff.Cmp(bi(10)) <= 0, "20%% of the stake within rounding, got %v", pending)
}

func TestScenario_DrainedTreasuryCarriesDebt(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Drain().
		Unstake(alice, bi(1), t0+30*day, "0").
		Assert(AssertAccount(env, alice).
			Amount(new(big.Int).Sub(stake500, bi(1))).
			Debt(bi(821917808)).
			Frozen(bi(1)).
			FrozenUntil(t0+40*day).
			Accruing(true)).
		Refill(awc.Units(1000)).
		Unstake(alice, bi(1), t0+40*day, "1095890410").
		Assert(AssertAccount(env, alice).
			Amount(new(big.Int).Sub(stake500, bi(2))).
			Debt(bi(0)).
			Frozen(bi(2)).
			FrozenUntil(t0+50*day)).
		Run(t)

	assert.Equal(t, "1095890410", env.balance(t, alice).String())
}

func TestScenario_DrainedTreasuryThenRelease(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Drain().
		AddFunc(func(t *testing.T) {
			amount, paid, err := env.Staker.UnstakeAll(alice, t0+day)
			require.NoError(t, err)
			assert.Equal(t, stake500.String(), amount.String())
			assert.Equal(t, "0", paid.String())
		}).
		Assert(AssertAccount(env, alice).Amount(bi(0)).Debt(bi(27397260)).Frozen(stake500).Accruing(false)).
		Refill(awc.Units(1)).
		Release(alice, t0+11*day, stake500.String(), "27397260").
		Assert(AssertAccount(env, alice).Debt(bi(0)).Frozen(bi(0)).FrozenUntil(t0+11*day)).
		Run(t)

	assert.Equal(t, new(big.Int).Add(stake500, bi(27397260)).String(), env.balance(t, alice).String())
}

func TestScenario_UnstakeAllCooldown(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		AddFunc(func(t *testing.T) {
			amount, paid, err := env.Staker.UnstakeAll(alice, t0+day)
			require.NoError(t, err)
			assert.Equal(t, stake500.String(), amount.String())
			assert.Equal(t, "27397260", paid.String())
		}).
		AddFunc(func(t *testing.T) {
			_, _, err := env.Staker.GetFreezeAtomic(alice, t0+10*day)
			assert.ErrorIs(t, err, reverts.ErrFreezeNotElapsed)
		}).
		Assert(AssertAccount(env, alice).Frozen(stake500).FrozenUntil(t0+11*day)).
		Release(alice, t0+11*day, stake500.String(), "0").
		Assert(AssertAccount(env, alice).Amount(bi(0)).Frozen(bi(0)).Accruing(false)).
		Run(t)

	assert.Equal(t, new(big.Int).Add(stake500, bi(27397260)).String(), env.balance(t, alice).String())
	assert.Equal(t, "0", env.balance(t, builtin.Staker).String())
}

func TestScenario_RateChange(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		AddFunc(func(t *testing.T) {
			assert.ErrorIs(t, env.Staker.SetRewardPerSecond(operator, 10001), reverts.ErrInvalidRate)
		}).
		Claim(alice, t0+day, "27397260").
		AddFunc(func(t *testing.T) {
			require.NoError(t, env.Staker.SetRewardPerSecond(operator, 1000))
			rate, err := env.Staker.RewardPerSecond()
			require.NoError(t, err)
			assert.Equal(t, "3170979198", rate.String())
		}).
		Pending(alice, t0+8*day, "95890410").
		Run(t)

	require.NoError(t, env.Staker.SetRewardPerSecond(operator, awc.MaxRewardBasisPoints))
	rate, err := env.Staker.RewardPerSecond()
	require.NoError(t, err)
	assert.Equal(t, "31709791983", rate.String())
}

// The rate in force when an account settles covers its whole unsettled span,
// including time before the change.
func TestRateChange_AppliesToUnsettledTime(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Pending(alice, t0+day, "27397260").
		AddFunc(func(t *testing.T) {
			require.NoError(t, env.Staker.SetRewardPerSecond(operator, 1000))
		}).
		// two days at 10%, not one at 20% and one at 10%
		Pending(alice, t0+2*day, "27397260").
		Claim(alice, t0+2*day, "27397260").
		Run(t)
}

func TestStake_BelowMinimum(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))
	env.fund(t, alice, awc.InitialMinStakeAmount)

	err := env.Staker.Stake(alice, bi(4_999_999_999), t0)
	assert.ErrorIs(t, err, reverts.ErrAmountTooLow)

	acc, err := env.Staker.GetAccount(alice)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
	assert.Equal(t, awc.InitialMinStakeAmount.String(), env.balance(t, alice).String())
	assert.Equal(t, 0, env.Journal.Len())

	require.NoError(t, env.Staker.Stake(alice, awc.InitialMinStakeAmount, t0))
	assert.Equal(t, 0, env.balance(t, alice).Sign())
}

func TestUnstake_Insufficient(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		AddFunc(func(t *testing.T) {
			_, err := env.Staker.Unstake(alice, new(big.Int).Add(stake500, bi(1)), t0+day)
			assert.ErrorIs(t, err, reverts.ErrInsufficientStake)
			_, err = env.Staker.Unstake(bob, bi(1), t0+day)
			assert.ErrorIs(t, err, reverts.ErrInsufficientStake)
		}).
		// failed unstake must not have settled the account
		Pending(alice, t0+day, "27397260").
		Run(t)
}

func TestUnstake_SubMinimumRemainderStopsAccrual(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Unstake(alice, awc.Units(460), t0+day, "27397260").
		Assert(AssertAccount(env, alice).Amount(awc.Units(40)).Frozen(awc.Units(460)).Accruing(false)).
		Pending(alice, t0+5*day, "0").
		Claim(alice, t0+5*day, "0").
		// a new stake resumes accrual on the whole position
		Stake(alice, awc.Units(60), t0+5*day).
		Assert(AssertAccount(env, alice).Amount(awc.Units(100)).Accruing(true)).
		Pending(alice, t0+6*day, "5479452").
		Run(t)
}

func TestClaim_BelowRaisedMinimumStopsAccrual(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, awc.Units(50), t0).
		AddFunc(func(t *testing.T) {
			assert.ErrorIs(t, env.Staker.SetMinStakeAmount(alice, awc.Units(60)), reverts.ErrUnauthorized)
			require.NoError(t, env.Staker.SetMinStakeAmount(operator, awc.Units(60)))
		}).
		Claim(alice, t0+day, "2739726").
		Assert(AssertAccount(env, alice).Accruing(false)).
		Pending(alice, t0+2*day, "0").
		Claim(alice, t0+2*day, "0").
		Run(t)
}

func TestRestake(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))
	compounded := bi(273972602)

	NewSequence(env).
		Stake(alice, stake500, t0).
		AddFunc(func(t *testing.T) {
			got, err := env.Staker.Restake(alice, t0+10*day)
			require.NoError(t, err)
			assert.Equal(t, compounded.String(), got.String())
		}).
		Assert(AssertAccount(env, alice).Amount(new(big.Int).Add(stake500, compounded)).Debt(bi(0))).
		Pending(alice, t0+20*day, "275473822").
		Run(t)

	assert.Equal(t, "0", env.balance(t, alice).String())
	staked, _, err := env.Staker.Totals()
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Add(stake500, compounded).String(), staked.String())
}

func TestRestake_DrainedTreasury(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Drain().
		AddFunc(func(t *testing.T) {
			got, err := env.Staker.Restake(alice, t0+day)
			require.NoError(t, err)
			assert.Equal(t, "0", got.String())
		}).
		Assert(AssertAccount(env, alice).Amount(stake500).Debt(bi(27397260))).
		Run(t)
}

func TestSettle_NoDoubleCounting(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Claim(alice, t0+3*day, "82191780").
		Claim(alice, t0+3*day, "0").
		Release(alice, t0+3*day, "0", "0").
		Run(t)
}

func TestRelease_NothingFrozenSettles(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Release(alice, t0+5*day, "0", "136986301").
		Assert(AssertAccount(env, alice).Amount(stake500).Frozen(bi(0))).
		Run(t)
}

func TestSettle_ClockWentBackwards(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0+day).
		AddFunc(func(t *testing.T) {
			_, err := env.Staker.ClaimReward(alice, t0)
			assert.ErrorIs(t, err, reverts.ErrClockWentBackwards)
		}).
		Assert(AssertAccount(env, alice).Amount(stake500)).
		Run(t)
}

func TestStake_FailureRevertsSettlement(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		AddFunc(func(t *testing.T) {
			treasuryBefore, err := env.Treasury.Balance()
			require.NoError(t, err)
			journalBefore := env.Journal.Len()

			// minted but never approved
			require.NoError(t, env.Token.Mint(alice, stake500))
			err = env.Staker.Stake(alice, stake500, t0+day)
			assert.ErrorIs(t, err, reverts.ErrInsufficientAllow)

			treasuryAfter, err := env.Treasury.Balance()
			require.NoError(t, err)
			assert.Equal(t, treasuryBefore.String(), treasuryAfter.String())
			assert.Equal(t, journalBefore, env.Journal.Len())
			assert.Equal(t, stake500.String(), env.balance(t, alice).String())
		}).
		Assert(AssertAccount(env, alice).Amount(stake500).Debt(bi(0))).
		Pending(alice, t0+day, "27397260").
		Run(t)
}

func TestStaker_Events(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))
	env.Journal.Take()

	NewSequence(env).
		Stake(alice, stake500, t0).
		Claim(alice, t0+day, "27397260").
		Unstake(alice, awc.Units(100), t0+day, "0").
		Run(t)

	evs := env.Journal.Take()
	names := make([]string, 0, len(evs))
	for _, ev := range evs {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{events.Deposit, events.Payout, events.Claim, events.Unstake}, names)

	unstake := evs[3]
	assert.Equal(t, builtin.Staker, unstake.Contract)
	assert.Equal(t, alice, unstake.Account)
	assert.Equal(t, awc.Units(100).String(), unstake.Amount.String())
	assert.Equal(t, t0+11*day, unstake.Data)
	assert.Equal(t, events.Topic(events.Unstake), unstake.Topic())
}

func TestStaker_Stakers(t *testing.T) {
	env := newTestEnv(t, awc.Units(1000))

	NewSequence(env).
		Stake(alice, stake500, t0).
		Stake(bob, stake500, t0).
		Stake(alice, stake500, t0+day).
		Run(t)

	users, err := env.Staker.Stakers(0, 10)
	require.NoError(t, err)
	assert.Equal(t, []awc.Address{alice, bob}, users)

	users, err = env.Staker.Stakers(1, 10)
	require.NoError(t, err)
	assert.Equal(t, []awc.Address{bob}, users)

	users, err = env.Staker.Stakers(0, 1)
	require.NoError(t, err)
	assert.Equal(t, []awc.Address{alice}, users)

	users, err = env.Staker.Stakers(0, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}

// TestStaker_Conservation drives random operations and checks custody against
// account principal after every step.
func TestStaker_Conservation(t *testing.T) {
	env := newTestEnv(t, awc.Units(50))
	rng := rand.New(rand.NewSource(42)) // #nosec G404
	users := []awc.Address{alice, bob, awc.BytesToAddress([]byte("carol"))}

	now := t0
	for i := 0; i < 300; i++ {
		now += uint64(rng.Intn(int(3 * day)))
		user := users[rng.Intn(len(users))]
		acc, err := env.Staker.GetAccount(user)
		require.NoError(t, err)

		switch rng.Intn(7) {
		case 0, 1:
			amount := awc.Units(int64(40 + rng.Intn(200)))
			env.fund(t, user, amount)
			err = env.Staker.Stake(user, amount, now)
		case 2:
			amount := new(big.Int)
			if acc.Amount.Sign() > 0 {
				amount.Rand(rng, new(big.Int).Add(acc.Amount, bi(1)))
			}
			_, err = env.Staker.Unstake(user, amount, now)
		case 3:
			_, err = env.Staker.ClaimReward(user, now)
		case 4:
			_, err = env.Staker.Restake(user, now)
		case 5:
			_, _, err = env.Staker.GetFreezeAtomic(user, now)
		case 6:
			if rng.Intn(2) == 0 {
				env.drain(t)
			} else {
				require.NoError(t, env.Token.Mint(builtin.Treasury, awc.Units(int64(rng.Intn(20)))))
			}
		}
		if err != nil {
			require.True(t, reverts.IsRevertErr(err), "step %d: %v", i, err)
		}

		after, err := env.Staker.GetAccount(user)
		require.NoError(t, err)
		require.GreaterOrEqual(t, after.LastSettlement, acc.LastSettlement)
		env.assertConservation(t)
	}
}

func TestStaker_DebtChangesOnlyByAccrualAndPayout(t *testing.T) {
	env := newTestEnv(t, awc.Units(5))
	rng := rand.New(rand.NewSource(7)) // #nosec G404
	users := []awc.Address{alice, bob}

	now := t0
	for i := 0; i < 400; i++ {
		now += uint64(rng.Intn(int(5 * day)))
		user := users[rng.Intn(len(users))]

		before, err := env.Staker.GetAccount(user)
		require.NoError(t, err)
		pending, err := env.Staker.PendingReward(user, now)
		require.NoError(t, err)
		poolBefore := env.balance(t, builtin.Treasury)

		op := rng.Intn(7)
		switch op {
		case 0, 1:
			amount := awc.Units(int64(40 + rng.Intn(200)))
			env.fund(t, user, amount)
			err = env.Staker.Stake(user, amount, now)
		case 2:
			amount := new(big.Int)
			if before.Amount.Sign() > 0 {
				amount.Rand(rng, new(big.Int).Add(before.Amount, bi(2)))
			}
			_, err = env.Staker.Unstake(user, amount, now)
		case 3:
			_, err = env.Staker.ClaimReward(user, now)
		case 4:
			_, err = env.Staker.Restake(user, now)
		case 5:
			_, _, err = env.Staker.GetFreezeAtomic(user, now)
		case 6:
			require.NoError(t, env.Token.Mint(builtin.Treasury, awc.Units(int64(rng.Intn(3)))))
		}

		after, err2 := env.Staker.GetAccount(user)
		require.NoError(t, err2)
		paidOut := new(big.Int).Sub(poolBefore, env.balance(t, builtin.Treasury))

		if err != nil || op == 6 {
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "step %d: %v", i, err)
			}
			require.Equal(t, before.Debt.String(), after.Debt.String(), "step %d: debt moved without settlement", i)
			continue
		}

		require.GreaterOrEqual(t, paidOut.Sign(), 0, "step %d", i)
		expected := new(big.Int).Add(before.Debt, pending)
		expected.Sub(expected, paidOut)
		require.Equal(t, expected.String(), after.Debt.String(), "step %d: debt %v pending %v paid %v", i, before.Debt, pending, paidOut)
	}
}
