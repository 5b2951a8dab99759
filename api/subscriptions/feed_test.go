// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/events"
)

type recordingSink struct {
	got []*events.Event
	err error
}

func (s *recordingSink) Insert(evs []*events.Event) error {
	s.got = append(s.got, evs...)
	return s.err
}

var (
	alice = awc.BytesToAddress([]byte("alice"))
	bob   = awc.BytesToAddress([]byte("bob"))
)

func newEvent(name string, account awc.Address) *events.Event {
	return &events.Event{Name: name, Account: account, Amount: big.NewInt(1)}
}

func TestFeed_Insert(t *testing.T) {
	next := &recordingSink{err: errors.New("disk full")}
	feed := NewFeed(next, 0)

	all, err := feed.subscribe(nil)
	require.NoError(t, err)
	onlyAlice, err := feed.subscribe(&EventFilter{Account: &alice})
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Len())

	evs := []*events.Event{newEvent(events.Deposit, alice), newEvent(events.Deposit, bob)}
	// the next sink error is passed on, subscribers are still served
	assert.EqualError(t, feed.Insert(evs), "disk full")
	assert.Equal(t, evs, next.got)

	assert.Len(t, all.ch, 2)
	assert.Len(t, onlyAlice.ch, 1)
	assert.Equal(t, alice, (<-onlyAlice.ch).Account)
}

func TestFeed_DropsSlowSubscriber(t *testing.T) {
	feed := NewFeed(nil, 1)
	sub, err := feed.subscribe(nil)
	require.NoError(t, err)

	require.NoError(t, feed.Insert([]*events.Event{newEvent(events.Claim, alice), newEvent(events.Claim, bob)}))
	assert.Equal(t, 0, feed.Len())

	ev, ok := <-sub.ch
	require.True(t, ok)
	assert.Equal(t, alice, ev.Account)
	_, ok = <-sub.ch
	assert.False(t, ok, "channel is closed once dropped")

	// unsubscribing a dropped subscriber is harmless
	feed.unsubscribe(sub)
}

func TestFeed_Close(t *testing.T) {
	feed := NewFeed(nil, 0)
	sub, err := feed.subscribe(nil)
	require.NoError(t, err)

	feed.Close()
	_, ok := <-sub.ch
	assert.False(t, ok)

	_, err = feed.subscribe(nil)
	assert.ErrorIs(t, err, errFeedClosed)
	require.NoError(t, feed.Insert([]*events.Event{newEvent(events.Claim, alice)}))
}

func TestParseEventFilter(t *testing.T) {
	filter, err := parseEventFilter(map[string][]string{
		"name":    {events.Deposit},
		"account": {alice.String()},
	})
	require.NoError(t, err)
	assert.Nil(t, filter.Contract)
	assert.Equal(t, events.Topic(events.Deposit), *filter.Topic)
	assert.True(t, filter.Match(newEvent(events.Deposit, alice)))
	assert.False(t, filter.Match(newEvent(events.Deposit, bob)))
	assert.False(t, filter.Match(newEvent(events.Claim, alice)))

	topic := events.Topic(events.Claim)
	filter, err = parseEventFilter(map[string][]string{
		"name":  {events.Deposit},
		"topic": {topic.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, topic, *filter.Topic)

	_, err = parseEventFilter(map[string][]string{"account": {"0x12"}})
	assert.Error(t, err)
	_, err = parseEventFilter(map[string][]string{"contract": {"nope"}})
	assert.Error(t, err)
}
