// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package awc

import (
	"math/big"
)

// Constants of the staking deployment.
const (
	Decimals uint8 = 8 // decimal precision of the AWC token

	SecondsPerDay  uint64 = 24 * 60 * 60
	SecondsPerYear uint64 = 365 * SecondsPerDay

	// MaxRewardBasisPoints caps the annual yield at 100%.
	MaxRewardBasisPoints uint64 = 10000

	InitialCooldownPeriod uint64 = 10 * SecondsPerDay
	InitialRewardPercent  uint64 = 2000 // 20% annual
)

// Keys of operator params.
var (
	KeyRewardPerSecond = BytesToBytes32([]byte("reward-per-second"))
	KeyMinStakeAmount  = BytesToBytes32([]byte("min-stake-amount"))
	KeyCooldownPeriod  = BytesToBytes32([]byte("cooldown-period"))

	// AccrualScale is the fixed-point divisor of the per-second reward rate.
	AccrualScale = big.NewInt(1e18)

	InitialMinStakeAmount = big.NewInt(5_000_000_000) // 50 AWC
)

// Role names understood by the authority contract.
var (
	RoleAdmin    = BytesToBytes32([]byte("DEFAULT_ADMIN_ROLE"))
	RoleOperator = BytesToBytes32([]byte("OPERATOR_ROLE"))
	RoleWithdraw = Keccak256([]byte("WITHDRAW_ROLE"))
)

// Units converts whole tokens to base units.
func Units(tokens int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(tokens), big.NewInt(1e8))
}
