// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/atomicwallet/awc-staking/api"
	"github.com/atomicwallet/awc-staking/api/admin"
	"github.com/atomicwallet/awc-staking/api/subscriptions"
	"github.com/atomicwallet/awc-staking/awc"
	"github.com/atomicwallet/awc-staking/builtin/staker"
	"github.com/atomicwallet/awc-staking/genesis"
	"github.com/atomicwallet/awc-staking/log"
	"github.com/atomicwallet/awc-staking/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "awcstake")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "awcstake",
		Usage:     "AWC staking node",
		Copyright: "2025 Atomic Wallet",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			skipLogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "migrate",
				Usage: "upgrade the staking storage layout of a persisted deployment",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: migrateAction,
			},
			{
				Name:  "inspect",
				Usage: "print the staking config, or an account with --account, of a persisted deployment",
				Flags: []cli.Flag{
					configFlag,
					dataDirFlag,
					cacheFlag,
					verbosityFlag,
					jsonLogsFlag,
					accountFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	mainDB, logDB, instanceDir, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	if !ctx.Bool(skipNTPFlag.Name) {
		go checkClockOffset()
	}

	_, contracts, err := gene.Deploy(mainDB)
	if err != nil {
		return err
	}
	var sink staker.EventSink
	if !ctx.Bool(skipLogsFlag.Name) {
		sink = logDB
	}
	feed := subscriptions.NewFeed(sink, subscriptions.DefaultBacklog)
	svc := contracts.NewService(feed, staker.SystemClock)

	cfg, err := svc.Config(exitSignal)
	if err != nil {
		return err
	}
	if cfg.SchemaVersion < staker.LatestSchemaVersion {
		return errors.Errorf("staking storage is at version %d, run the migrate command to upgrade it to %d", cfg.SchemaVersion, staker.LatestSchemaVersion)
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler := http.Handler(api.New(contracts, svc, logDB, gene.ID(), api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		SkipLogs:             ctx.Bool(skipLogsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		Feed:                 feed,
	}))
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = withTimeout(handler, time.Duration(timeout)*time.Millisecond)
	}

	if apiAddr := ctx.String(apiAddrFlag.Name); !isLoopbackAddr(apiAddr) {
		logger.Warn("API is reachable beyond this host, requests are not authenticated", "addr", apiAddr)
	}

	g, gctx := errgroup.WithContext(exitSignal)
	// websocket connections are hijacked, server shutdown does not end them
	go func() {
		<-gctx.Done()
		feed.Close()
	}()
	apiURL, err := startServer(gctx, g, "API", ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = startServer(gctx, g, "metrics", ctx.String(metricsAddrFlag.Name), metricsHandler()); err != nil {
			return err
		}
		metricsURL += "/metrics"
	}
	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		if adminURL, err = startServer(gctx, g, "admin", ctx.String(adminAddrFlag.Name), admin.New(logLevel, apiLogs)); err != nil {
			return err
		}
		adminURL += "/admin"
	}

	printStartupMessage(gene.Name(), gene.ID(), cfg, instanceDir, apiURL, metricsURL, adminURL)
	return g.Wait()
}

func migrateAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}

	svc, closeDB, err := openPersistedService(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	from, to, err := svc.Migrate(context.Background())
	if err != nil {
		return errors.WithMessage(err, "migrate")
	}
	if from == to {
		logger.Info("staking storage is up to date", "version", to)
	} else {
		logger.Info("staking storage migrated", "from", from, "to", to)
	}
	return nil
}

func inspectAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}

	svc, closeDB, err := openPersistedService(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	var out any
	if addr := ctx.String(accountFlag.Name); addr != "" {
		user, err := awc.ParseAddress(addr)
		if err != nil {
			return errors.WithMessage(err, "account")
		}
		view, err := svc.Account(context.Background(), user)
		if err != nil {
			return err
		}
		out = view
	} else {
		cfg, err := svc.Config(context.Background())
		if err != nil {
			return err
		}
		out = cfg
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// openPersistedService opens the on-disk deployment selected by --config and --data-dir.
func openPersistedService(ctx *cli.Context) (*staker.Service, func(), error) {
	gene, err := selectGenesis(ctx)
	if err != nil {
		return nil, nil, err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return nil, nil, err
	}
	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return nil, nil, err
	}
	if _, ok, err := genesis.StoredID(mainDB); err != nil || !ok {
		mainDB.Close()
		if err == nil {
			err = errors.Errorf("no deployment found in [%v]", instanceDir)
		}
		return nil, nil, err
	}
	_, contracts, err := gene.Deploy(mainDB)
	if err != nil {
		mainDB.Close()
		return nil, nil, err
	}
	return contracts.NewService(nil, staker.SystemClock), func() { mainDB.Close() }, nil
}

func printStartupMessage(name string, id awc.Bytes32, cfg *staker.Config, dataDir, apiURL, metricsURL, adminURL string) {
	optional := func(url string) string {
		if url == "" {
			return "Disabled"
		}
		return url
	}
	fmt.Printf(`Starting %v
    Network         [ %v %v ]
    Reward rate     [ %v per second (scaled) ]
    Min stake       [ %v ]
    Cooldown        [ %v ]
    Instance dir    [ %v ]
    API portal      [ %v ]
    Metrics         [ %v ]
    Admin           [ %v ]
`,
		strings.TrimSpace(fullVersion()),
		id, name,
		cfg.RewardPerSecond,
		cfg.MinStakeAmount,
		time.Duration(cfg.CooldownPeriod)*time.Second,
		dataDir,
		apiURL,
		optional(metricsURL),
		optional(adminURL),
	)
}
