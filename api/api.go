// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/atomicwallet/awc-staking/api/accounts"
	"github.com/atomicwallet/awc-staking/api/events"
	"github.com/atomicwallet/awc-staking/api/middleware"
	"github.com/atomicwallet/awc-staking/api/staker"
	"github.com/atomicwallet/awc-staking/api/subscriptions"
	"github.com/atomicwallet/awc-staking/api/treasury"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin"
	stakerpkg "github.com/atomicwallet/awc-staking/builtin/staker"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/logdb"
)

var logger = log.WithContext("pkg", "api")

const GenesisIDHeader = "x-genesis-id"

type Options struct {
	AllowedOrigins       string
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	LogsLimit            uint64
	// Feed enables the websocket event stream. It must be the sink of svc.
	Feed *subscriptions.Feed
}

// New return api router
func New(
	contracts *builtin.Contracts,
	svc *stakerpkg.Service,
	logDB *logdb.LogDB,
	genesisID awc.Bytes32,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(svc, contracts.Token).
		Mount(router, "/accounts")
	staker.New(svc).
		Mount(router, "/staker")
	treasury.New(svc, contracts.Treasury).
		Mount(router, "/treasury")
	if !opts.SkipLogs && logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	if opts.Feed != nil {
		subscriptions.New(opts.Feed, origins).
			Mount(router, "/subscriptions")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set(GenesisIDHeader, genesisID.String())
			next.ServeHTTP(w, req)
		})
	})

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", GenesisIDHeader}),
		handlers.ExposedHeaders([]string{GenesisIDHeader}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP
}
