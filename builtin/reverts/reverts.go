// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the failures a built-in contract reports to its caller.
// A revert aborts the current operation and leaves state untouched.
package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
)

var (
	ErrAmountTooLow       = New("deposit: amount is too low")
	ErrInsufficientStake  = New("unstake: insufficient stake")
	ErrInvalidRate        = New("setRewardPerSecond: percentReward is too high")
	ErrFreezeNotElapsed   = New("getFreezeAtomic: freeze time not end")
	ErrUnauthorized       = New("access: caller is missing role")
	ErrAlreadyInitialized = New("initializable: contract is already initialized")
	ErrNotInitialized     = New("initializable: contract is not initialized")
	ErrClockWentBackwards = New("settle: time is before last settlement")
	ErrInsufficientFunds  = New("transfer: amount exceeds balance")
	ErrInsufficientAllow  = New("transferFrom: amount exceeds allowance")
)

// ErrRevert is a failure with a stable message.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Bytes returns the abi encoded Error(string) payload, the form clients of the
// original contracts decode.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 0, 4+32+32+padded)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], uint64(len(msgBytes)))
	encoded = append(encoded, length...)

	data := make([]byte, padded)
	copy(data, msgBytes)
	return append(encoded, data...)
}

// IsRevertErr reports whether err is, or wraps, a revert.
func IsRevertErr(err error) bool {
	var re *ErrRevert
	return errors.As(err, &re) && re != nil
}
