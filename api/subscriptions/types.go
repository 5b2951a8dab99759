// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
)

// EventFilter selects the events a subscriber receives. Nil fields match anything.
type EventFilter struct {
	Contract *awc.Address
	Topic    *awc.Bytes32
	Account  *awc.Address
}

// Match returns whether ev passes the filter.
func (f *EventFilter) Match(ev *events.Event) bool {
	if f == nil {
		return true
	}
	if f.Contract != nil && *f.Contract != ev.Contract {
		return false
	}
	if f.Topic != nil && *f.Topic != ev.Topic() {
		return false
	}
	if f.Account != nil && *f.Account != ev.Account {
		return false
	}
	return true
}

// parseEventFilter reads the contract, name, topic and account query parameters.
// topic wins over name when both are given.
func parseEventFilter(query url.Values) (*EventFilter, error) {
	filter := &EventFilter{}
	if s := query.Get("contract"); s != "" {
		addr, err := awc.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "contract")
		}
		filter.Contract = &addr
	}
	if s := query.Get("topic"); s != "" {
		topic, err := awc.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, "topic")
		}
		filter.Topic = &topic
	} else if name := query.Get("name"); name != "" {
		topic := events.Topic(name)
		filter.Topic = &topic
	}
	if s := query.Get("account"); s != "" {
		addr, err := awc.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		filter.Account = &addr
	}
	return filter, nil
}

type EventMessage struct {
	Contract  awc.Address   `json:"contract"`
	Name      string        `json:"name"`
	Topic     awc.Bytes32   `json:"topic"`
	Account   awc.Address   `json:"account"`
	Amount    *utils.Amount `json:"amount"`
	Data      uint64        `json:"data"`
	Timestamp uint64        `json:"timestamp"`
}

func convertEvent(ev *events.Event) *EventMessage {
	return &EventMessage{
		Contract:  ev.Contract,
		Name:      ev.Name,
		Topic:     ev.Topic(),
		Account:   ev.Account,
		Amount:    utils.NewAmount(ev.Amount),
		Data:      ev.Data,
		Timestamp: ev.Timestamp,
	}
}
