// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the events built-in contracts emit and the journal
// that buffers them until the producing operation is committed.
package events

import (
	"math/big"

	"github.com/atomicwallet/awc-staking/awc"
)

// Event names.
const (
	Deposit         = "Deposit"
	Unstake         = "Unstake"
	Claim           = "Claim"
	Restake         = "Restake"
	Release         = "Release"
	MinStakeChanged = "MinStakeAmountChanged"
	RateChanged     = "RewardPerSecondChanged"
	Payout          = "Payout"
	Withdraw        = "Withdraw"
)

var signatures = map[string]string{
	Deposit:         "Deposit(address,uint256)",
	Unstake:         "Unstake(address,uint256,uint256)",
	Claim:           "Claim(address,uint256)",
	Restake:         "Restake(address,uint256)",
	Release:         "Release(address,uint256)",
	MinStakeChanged: "MinStakeAmountChanged(address,uint256)",
	RateChanged:     "RewardPerSecondChanged(address,uint256)",
	Payout:          "Payout(address,uint256)",
	Withdraw:        "Withdraw(address,uint256)",
}

// Topic returns the keccak256 hash of the event signature, the same topic an
// EVM log of the event would carry.
func Topic(name string) awc.Bytes32 {
	sig, ok := signatures[name]
	if !ok {
		sig = name
	}
	return awc.Keccak256([]byte(sig))
}

// Event is emitted by a built-in contract.
type Event struct {
	Contract  awc.Address
	Name      string
	Account   awc.Address
	Amount    *big.Int
	Data      uint64 // event specific, e.g. the unfreeze time of Unstake
	Timestamp uint64
}

// Topic returns the topic of the event.
func (e *Event) Topic() awc.Bytes32 {
	return Topic(e.Name)
}

// Journal buffers emitted events.
type Journal struct {
	events []*Event
}

func (j *Journal) Emit(ev *Event) {
	j.events = append(j.events, ev)
}

// Len returns the number of buffered events, usable as a revert point.
func (j *Journal) Len() int {
	return len(j.events)
}

// RevertTo drops events emitted after the journal had n entries.
func (j *Journal) RevertTo(n int) {
	if n < len(j.events) {
		j.events = j.events[:n]
	}
}

// Take returns and clears the buffered events.
func (j *Journal) Take() []*Event {
	evs := j.events
	j.events = nil
	return evs
}
