// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
)

type Account struct {
	Address awc.Address   `json:"address"`
	Balance *utils.Amount `json:"balance"`
	// allowance granted to the staking engine
	StakerAllowance *utils.Amount `json:"stakerAllowance"`
}

type Allowance struct {
	Owner     awc.Address   `json:"owner"`
	Spender   awc.Address   `json:"spender"`
	Allowance *utils.Amount `json:"allowance"`
}

type Token struct {
	Address     awc.Address   `json:"address"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply *utils.Amount `json:"totalSupply"`
}

// ApproveRequest sets the allowance of spender over the account's tokens.
type ApproveRequest struct {
	Spender awc.Address   `json:"spender"`
	Amount  *utils.Amount `json:"amount"`
}

// TransferRequest moves tokens from the account.
type TransferRequest struct {
	To     awc.Address   `json:"to"`
	Amount *utils.Amount `json:"amount"`
}
