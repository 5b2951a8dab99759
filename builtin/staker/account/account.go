// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"math/big"
)

// Account is the staking position of one user.
// Fields are rlp encoded in declaration order: append new fields, never reorder or retype.
type Account struct {
	Amount          *big.Int // staked principal earning reward
	LastSettlement  uint64   // unix time reward was last computed into Debt
	Debt            *big.Int // reward owed but not yet paid
	FrozenPrincipal *big.Int // unstaked principal waiting for cooldown
	FrozenUntil     uint64   // unix time FrozenPrincipal becomes withdrawable
	Accruing        bool     // whether reward accumulates on Amount
}

// New returns an empty account.
func New() *Account {
	return (&Account{}).normalize()
}

func (a *Account) normalize() *Account {
	if a.Amount == nil {
		a.Amount = new(big.Int)
	}
	if a.Debt == nil {
		a.Debt = new(big.Int)
	}
	if a.FrozenPrincipal == nil {
		a.FrozenPrincipal = new(big.Int)
	}
	return a
}

// IsEmpty returns whether the account holds no principal and owes nothing.
func (a *Account) IsEmpty() bool {
	return a.Amount.Sign() == 0 && a.Debt.Sign() == 0 && a.FrozenPrincipal.Sign() == 0
}

// Principal returns Amount + FrozenPrincipal, the tokens held for the account.
func (a *Account) Principal() *big.Int {
	return new(big.Int).Add(a.Amount, a.FrozenPrincipal)
}

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	return &Account{
		Amount:          new(big.Int).Set(a.Amount),
		LastSettlement:  a.LastSettlement,
		Debt:            new(big.Int).Set(a.Debt),
		FrozenPrincipal: new(big.Int).Set(a.FrozenPrincipal),
		FrozenUntil:     a.FrozenUntil,
		Accruing:        a.Accruing,
	}
}
