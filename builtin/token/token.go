// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible AWC token kept in contract storage.
// Staked principal and rewards are both denominated in it.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/reverts"
	"github.com/atomicwallet/awc-staking/builtin/solidity"
	"github.com/atomicwallet/awc-staking/state"
)

var (
	slotInfo        = nameToSlot("info")
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) awc.Bytes32 {
	return awc.BytesToBytes32([]byte(name))
}

// Info is the token metadata.
type Info struct {
	Name     string
	Symbol   string
	Decimals uint8
}

type allowanceKey struct {
	owner, spender awc.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Token binder of the token contract.
type Token struct {
	addr        awc.Address
	info        *solidity.Raw[*Info]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[awc.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
}

func New(addr awc.Address, state *state.State) *Token {
	ctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		info:        solidity.NewRaw[*Info](ctx, slotInfo),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[awc.Address, *big.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](ctx, slotAllowances),
	}
}

// Address returns the contract address of the token.
func (t *Token) Address() awc.Address {
	return t.addr
}

// Initialize stores the token metadata. It can only be done once.
func (t *Token) Initialize(info *Info) error {
	current, err := t.info.Get()
	if err != nil {
		return err
	}
	if current.Symbol != "" {
		return reverts.ErrAlreadyInitialized
	}
	return t.info.Upsert(info)
}

func (t *Token) Info() (*Info, error) {
	return t.info.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr awc.Address) (*big.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender awc.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey{owner, spender})
}

// Mint creates amount new tokens owned by to.
func (t *Token) Mint(to awc.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("mint: negative amount")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, bal.Add(bal, amount))
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender awc.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("approve: negative amount")
	}
	return t.allowances.Set(allowanceKey{owner, spender}, amount)
}

// Transfer moves amount from the from balance to the to balance.
func (t *Token) Transfer(from, to awc.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("transfer: negative amount")
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientFunds
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	return t.balances.Set(to, toBal.Add(toBal, amount))
}

// TransferFrom moves amount out of from on behalf of spender, consuming allowance.
func (t *Token) TransferFrom(spender, from, to awc.Address, amount *big.Int) error {
	if spender != from {
		allowed, err := t.Allowance(from, spender)
		if err != nil {
			return err
		}
		if allowed.Cmp(amount) < 0 {
			return reverts.ErrInsufficientAllow
		}
		if err := t.Approve(from, spender, allowed.Sub(allowed, amount)); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}
