// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/schema"
	"github.com/atomicwallet/awc-staking/builtin/staker/account"
)

// Storage layout versions.
//
//	v1: accounts, account index and params.
//	v2: adds the staked and frozen totals.
const LatestSchemaVersion uint64 = 2

func (s *Staker) migrations() []schema.Step {
	return []schema.Step{
		{To: 2, Name: "globalstats-totals", Migrate: s.backfillTotals},
	}
}

// Migrate upgrades the storage layout to LatestSchemaVersion.
func (s *Staker) Migrate() (from, to uint64, err error) {
	err = s.atomic("migrate", awc.Address{}, func() error {
		from, to, err = s.schema.Migrate(s.migrations())
		return err
	})
	return
}

// backfillTotals recomputes the totals from every account and checks them
// against the principal the engine holds.
func (s *Staker) backfillTotals() error {
	staked := new(big.Int)
	frozen := new(big.Int)
	if err := s.accounts.Iterate(0, func(_ awc.Address, acc *account.Account) (bool, error) {
		staked.Add(staked, acc.Amount)
		frozen.Add(frozen, acc.FrozenPrincipal)
		return true, nil
	}); err != nil {
		return errors.Wrap(err, "iterate accounts")
	}

	custody, err := s.token.BalanceOf(s.addr)
	if err != nil {
		return err
	}
	if sum := new(big.Int).Add(staked, frozen); sum.Cmp(custody) != 0 {
		logger.Warn("principal does not match custody balance", "principal", sum, "custody", custody)
	}
	logger.Info("totals backfilled", "staked", staked, "frozen", frozen)
	return s.globalStats.Reset(staked, frozen)
}
