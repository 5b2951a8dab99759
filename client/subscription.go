// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/atomicwallet/awc-staking/api/subscriptions"
	"github.com/atomicwallet/awc-staking/awc"
)

// EventQuery narrows an event subscription. Empty fields match anything.
type EventQuery struct {
	Contract *awc.Address
	Name     string
	Account  *awc.Address
}

func (q *EventQuery) values() url.Values {
	v := url.Values{}
	if q == nil {
		return v
	}
	if q.Contract != nil {
		v.Set("contract", q.Contract.String())
	}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Account != nil {
		v.Set("account", q.Account.String())
	}
	return v
}

// EventSubscription receives events committed after it was opened.
type EventSubscription struct {
	conn *websocket.Conn
}

// SubscribeEvents opens a websocket event stream.
func (c *Client) SubscribeEvents(query *EventQuery) (*EventSubscription, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid url - %w", err)
	}
	switch {
	case strings.EqualFold(u.Scheme, "https"):
		u.Scheme = "wss"
	case strings.EqualFold(u.Scheme, "http"):
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/subscriptions/event"
	u.RawQuery = query.values().Encode()

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("unable to subscribe - %w", &StatusError{StatusCode: resp.StatusCode, Message: resp.Status})
		}
		return nil, fmt.Errorf("unable to subscribe - %w", err)
	}
	return &EventSubscription{conn: conn}, nil
}

// Next blocks until the next event arrives or the stream ends.
func (s *EventSubscription) Next() (*subscriptions.EventMessage, error) {
	var msg subscriptions.EventMessage
	if err := s.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *EventSubscription) Close() error {
	return s.conn.Close()
}
