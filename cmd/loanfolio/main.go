package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/cloud-ru/loanfolio-go/internal/cache"
	"github.com/cloud-ru/loanfolio-go/internal/cli"
	"github.com/cloud-ru/loanfolio-go/internal/config"
	"github.com/cloud-ru/loanfolio-go/internal/logging"
	"github.com/cloud-ru/loanfolio-go/internal/tools"
	"github.com/cloud-ru/loanfolio-go/internal/tracing"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return int(subcommands.ExitFailure)
	}

	flag.StringVar(&cfg.PortfolioFile, "portfolio-file", cfg.PortfolioFile, "Path to the portfolio workspace file (JSON)")
	flag.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write metrics to this file in the Prometheus text format after each command")
	flag.StringVar(&cfg.Currency, "currency", cfg.Currency, "ISO 4217 currency used to display amounts")
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return int(subcommands.ExitFailure)
	}
	defer logger.Sync()

	if money.GetCurrency(cfg.Currency) == nil {
		logger.Warn("unknown currency, amounts are shown without symbol", zap.String("currency", cfg.Currency))
	}

	ctx := context.Background()
	tracer, shutdown, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", zap.Error(err))
		return int(subcommands.ExitFailure)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	memo, closeMemo := openCache(ctx, cfg, logger)
	defer closeMemo()

	app := cli.NewApp(cfg, logger, tools.New(cfg, tracer, logger, memo))
	cli.Register(commander, app)

	status := commander.Execute(ctx)
	app.WriteMetrics()
	return int(status)
}

// openCache returns the configured schedule memo. An unreachable Redis falls
// back to the in-process memo.
func openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Repository, func()) {
	if cfg.CacheBackend != config.CacheRedis {
		return cache.NewMemo(), func() {}
	}

	rc := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, using in-process memo", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		rc.Close()
		return cache.NewMemo(), func() {}
	}
	logger.Debug("schedule memo on redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	return rc, func() { rc.Close() }
}
