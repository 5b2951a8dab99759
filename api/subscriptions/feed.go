// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/atomicwallet/awc-staking/builtin/events"
	"github.com/atomicwallet/awc-staking/builtin/staker"
)

// DefaultBacklog is the number of events buffered per subscriber.
const DefaultBacklog = 256

var errFeedClosed = errors.New("subscriptions: feed closed")

var _ staker.EventSink = (*Feed)(nil)

// Feed hands committed events to the next sink, then broadcasts them to live subscribers.
// A subscriber that falls a full backlog behind is dropped.
type Feed struct {
	next    staker.EventSink
	backlog int

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	filter *EventFilter
	ch     chan *events.Event
}

func NewFeed(next staker.EventSink, backlog int) *Feed {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &Feed{
		next:    next,
		backlog: backlog,
		subs:    make(map[*subscriber]struct{}),
	}
}

// Insert implements staker.EventSink. Events are broadcast even when the next sink fails.
func (f *Feed) Insert(evs []*events.Event) error {
	var err error
	if f.next != nil {
		err = f.next.Insert(evs)
	}
	f.broadcast(evs)
	return err
}

func (f *Feed) broadcast(evs []*events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs {
		for _, ev := range evs {
			if !sub.filter.Match(ev) {
				continue
			}
			select {
			case sub.ch <- ev:
			default:
				logger.Debug("dropping slow subscriber", "backlog", f.backlog)
				metricDroppedSubscribers().Add(1)
				f.remove(sub)
			}
			if _, ok := f.subs[sub]; !ok {
				break
			}
		}
	}
}

func (f *Feed) subscribe(filter *EventFilter) (*subscriber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, errFeedClosed
	}
	sub := &subscriber{filter: filter, ch: make(chan *events.Event, f.backlog)}
	f.subs[sub] = struct{}{}
	metricActiveSubscribers().Add(1)
	return sub, nil
}

func (f *Feed) unsubscribe(sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(sub)
}

// remove must be called with the lock held.
func (f *Feed) remove(sub *subscriber) {
	if _, ok := f.subs[sub]; !ok {
		return
	}
	delete(f.subs, sub)
	close(sub.ch)
	metricActiveSubscribers().Add(-1)
}

// Len returns the number of live subscribers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close ends every subscription and refuses new ones.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for sub := range f.subs {
		f.remove(sub)
	}
}
