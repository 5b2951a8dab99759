// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes time proportional rewards.
//
// A reward rate is a per-second fixed point number: staking amount for elapsed
// seconds at rate earns amount * elapsed * rate / scale. Intermediate products
// are computed on 256 bits and fail instead of wrapping.
package accrual

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/builtin/reverts"
)

const (
	// MaxBasisPoints is 100% expressed in basis points.
	MaxBasisPoints uint64 = 10000
)

// ErrOverflow is returned when an accrual does not fit 256 bits.
var ErrOverflow = errors.New("accrual: arithmetic overflow")

func toU256(x *big.Int) (*uint256.Int, error) {
	if x.Sign() < 0 {
		return nil, errors.New("accrual: negative operand")
	}
	v, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrOverflow
	}
	return v, nil
}

// PendingReward returns amount * elapsed * rate / scale, rounded down.
func PendingReward(amount *big.Int, elapsed uint64, rate, scale *big.Int) (*big.Int, error) {
	if elapsed == 0 || amount.Sign() == 0 || rate.Sign() == 0 {
		return new(big.Int), nil
	}
	if scale.Sign() <= 0 {
		return nil, errors.New("accrual: scale must be positive")
	}

	a, err := toU256(amount)
	if err != nil {
		return nil, err
	}
	r, err := toU256(rate)
	if err != nil {
		return nil, err
	}
	s, err := toU256(scale)
	if err != nil {
		return nil, err
	}

	// amount * rate first, then * elapsed / scale with a 512 bits intermediate
	ar, overflow := new(uint256.Int).MulOverflow(a, r)
	if overflow {
		return nil, ErrOverflow
	}
	x, overflow := new(uint256.Int).MulDivOverflow(ar, uint256.NewInt(elapsed), s)
	if overflow {
		return nil, ErrOverflow
	}
	return x.ToBig(), nil
}

// DeriveRatePerSecond converts an annual percentage in basis points into the
// per-second rate: bp * scale / (10000 * secondsPerYear), rounded down.
func DeriveRatePerSecond(basisPoints, secondsPerYear uint64, scale *big.Int) (*big.Int, error) {
	if basisPoints > MaxBasisPoints {
		return nil, reverts.ErrInvalidRate
	}
	if secondsPerYear == 0 {
		return nil, errors.New("accrual: zero seconds per year")
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(basisPoints), scale)
	den := new(big.Int).Mul(new(big.Int).SetUint64(MaxBasisPoints), new(big.Int).SetUint64(secondsPerYear))
	return num.Quo(num, den), nil
}
