// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/staker"
)

// AmountRequest is a user operation moving an amount.
type AmountRequest struct {
	User   awc.Address   `json:"user"`
	Amount *utils.Amount `json:"amount"`
}

// UserRequest is a user operation without arguments.
type UserRequest struct {
	User awc.Address `json:"user"`
}

// MinStakeRequest replaces the min stake amount.
type MinStakeRequest struct {
	Caller awc.Address   `json:"caller"`
	Amount *utils.Amount `json:"amount"`
}

// RewardRateRequest replaces the reward rate with an annual percentage in basis points.
type RewardRateRequest struct {
	Caller             awc.Address `json:"caller"`
	PercentBasisPoints uint64      `json:"percentBasisPoints"`
}

// Receipt reports the amounts moved by an operation.
type Receipt struct {
	Amount     *utils.Amount `json:"amount,omitempty"`
	Paid       *utils.Amount `json:"paid,omitempty"`
	Released   *utils.Amount `json:"released,omitempty"`
	Compounded *utils.Amount `json:"compounded,omitempty"`
}

// MigrateResult reports the storage versions around a migration.
type MigrateResult struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Account struct {
	Address         awc.Address   `json:"address"`
	Amount          *utils.Amount `json:"amount"`
	LastSettlement  uint64        `json:"lastSettlement"`
	Debt            *utils.Amount `json:"debt"`
	FrozenPrincipal *utils.Amount `json:"frozenPrincipal"`
	FrozenUntil     uint64        `json:"frozenUntil"`
	Accruing        bool          `json:"accruing"`
	PendingReward   *utils.Amount `json:"pendingReward"`
	Timestamp       uint64        `json:"timestamp"`
}

func convertAccount(addr awc.Address, view *staker.AccountView) *Account {
	return &Account{
		Address:         addr,
		Amount:          utils.NewAmount(view.Amount),
		LastSettlement:  view.LastSettlement,
		Debt:            utils.NewAmount(view.Debt),
		FrozenPrincipal: utils.NewAmount(view.FrozenPrincipal),
		FrozenUntil:     view.FrozenUntil,
		Accruing:        view.Accruing,
		PendingReward:   utils.NewAmount(view.PendingReward),
		Timestamp:       view.Now,
	}
}

type Config struct {
	RewardPerSecond *utils.Amount `json:"rewardPerSecond"`
	MinStakeAmount  *utils.Amount `json:"minStakeAmount"`
	CooldownPeriod  uint64        `json:"cooldownPeriod"`
	TotalStaked     *utils.Amount `json:"totalStaked"`
	TotalFrozen     *utils.Amount `json:"totalFrozen"`
	SchemaVersion   uint64        `json:"schemaVersion"`
}

func convertConfig(cfg *staker.Config) *Config {
	return &Config{
		RewardPerSecond: utils.NewAmount(cfg.RewardPerSecond),
		MinStakeAmount:  utils.NewAmount(cfg.MinStakeAmount),
		CooldownPeriod:  cfg.CooldownPeriod,
		TotalStaked:     utils.NewAmount(cfg.TotalStaked),
		TotalFrozen:     utils.NewAmount(cfg.TotalFrozen),
		SchemaVersion:   cfg.SchemaVersion,
	}
}
