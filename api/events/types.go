// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/logdb"
)

// EventCriteria matches events by emitter, event name and account.
// Name and Topic are alternatives, Topic wins when both are set.
type EventCriteria struct {
	Contract *awc.Address `json:"contract"`
	Name     *string      `json:"name"`
	Topic    *awc.Bytes32 `json:"topic"`
	Account  *awc.Address `json:"account"`
}

// Range limits events by timestamp, both ends inclusive.
type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type FilteredEvent struct {
	Seq       uint64        `json:"seq"`
	Contract  awc.Address   `json:"contract"`
	Name      string        `json:"name"`
	Topic     *awc.Bytes32  `json:"topic"`
	Account   awc.Address   `json:"account"`
	Amount    *utils.Amount `json:"amount"`
	Data      uint64        `json:"data"`
	Timestamp uint64        `json:"timestamp"`
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	topic := e.Topic
	return &FilteredEvent{
		Seq:       e.Seq,
		Contract:  e.Contract,
		Name:      e.Name,
		Topic:     &topic,
		Account:   e.Account,
		Amount:    utils.NewAmount(e.Amount),
		Data:      e.Data,
		Timestamp: e.Timestamp,
	}
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	out := &logdb.Range{}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	} else if out.From > 0 {
		// open ended
		out.To = out.From - 1
	} else {
		return nil, nil
	}
	return out, nil
}

func convertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(filter.Range)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range: rng,
		Order: filter.Order,
	}
	if filter.Options != nil {
		f.Options = &logdb.Options{Offset: filter.Options.Offset, Limit: filter.Options.Limit}
	}
	for _, c := range filter.CriteriaSet {
		criteria := &logdb.EventCriteria{
			Contract: c.Contract,
			Topic:    c.Topic,
			Account:  c.Account,
		}
		if criteria.Topic == nil && c.Name != nil {
			topic := events.Topic(*c.Name)
			criteria.Topic = &topic
		}
		f.CriteriaSet = append(f.CriteriaSet, criteria)
	}
	return f, nil
}
