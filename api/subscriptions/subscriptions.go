// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package subscriptions streams committed events to websocket clients.
package subscriptions

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/atomicwallet/awc-staking/api/utils"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/metrics"
)

const (
	defaultPingInterval = 30 * time.Second
	writeTimeout        = 10 * time.Second
	readLimit           = 512
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveSubscribers  = metrics.LazyLoadGauge("api_active_websocket_count")
	metricDroppedSubscribers = metrics.LazyLoadCounter("api_dropped_websocket_count")
)

type Subscriptions struct {
	feed         *Feed
	upgrader     *websocket.Upgrader
	pingInterval time.Duration
}

// New creates the websocket endpoints. Browser clients must come from one of
// allowedOrigins, "*" allows any.
func New(feed *Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, strings.ToLower(origin))
			},
		},
		pingInterval: defaultPingInterval,
	}
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}
	sub, err := s.feed.subscribe(filter)
	if err != nil {
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	}
	defer s.feed.unsubscribe(sub)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already replied
		logger.Debug("websocket upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	if err := s.pipe(conn, sub); err != nil {
		logger.Debug("subscription ended", "err", err)
	}
	return nil
}

// pipe writes the subscriber's events to conn until the client goes away or the feed drops it.
func (s *Subscriptions) pipe(conn *websocket.Conn, sub *subscriber) error {
	// clients only send control frames, reading is what processes them
	gone := make(chan struct{})
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(s.pingInterval * 2))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.pingInterval * 2))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.ch:
			if !ok {
				return conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeTimeout))
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(convertEvent(ev)); err != nil {
				return err
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		case <-gone:
			return nil
		}
	}
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").Methods(http.MethodGet).Name("WS /subscriptions/event").HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
