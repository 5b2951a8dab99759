// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
)

// Event represents events.Event that can be stored in db.
type Event struct {
	Seq       uint64
	Contract  awc.Address
	Name      string
	Topic     awc.Bytes32
	Account   awc.Address
	Amount    *big.Int
	Data      uint64
	Timestamp uint64
}

func newEvent(ev *events.Event) *Event {
	amount := new(big.Int)
	if ev.Amount != nil {
		amount.Set(ev.Amount)
	}
	return &Event{
		Contract:  ev.Contract,
		Name:      ev.Name,
		Topic:     ev.Topic(),
		Account:   ev.Account,
		Amount:    amount,
		Data:      ev.Data,
		Timestamp: ev.Timestamp,
	}
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive timestamp range. To below From leaves the range open ended.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Contract *awc.Address
	Topic    *awc.Bytes32
	Account  *awc.Address
}

// EventFilter matches events satisfying any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
