// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
)

// Amount is a token amount in base units, hex or decimal in JSON.
type Amount = math.HexOrDecimal256

// NewAmount converts a big.Int into an Amount. A nil value yields zero.
func NewAmount(v *big.Int) *Amount {
	if v == nil {
		return (*Amount)(new(big.Int))
	}
	return (*Amount)(new(big.Int).Set(v))
}

// ParseAmount validates a requested amount, which must be set and not negative.
func ParseAmount(a *Amount, name string) (*big.Int, error) {
	if a == nil {
		return nil, BadRequest(errors.Errorf("%s: missing", name))
	}
	v := (*big.Int)(a)
	if v.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: negative", name))
	}
	return new(big.Int).Set(v), nil
}
