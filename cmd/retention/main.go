package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/resto-orders/config"
	cacheredis "github.com/Gunvolt24/resto-orders/internal/cache/redis"
	"github.com/Gunvolt24/resto-orders/internal/repo/postgres"
	"github.com/Gunvolt24/resto-orders/internal/usecase"
	"github.com/Gunvolt24/resto-orders/pkg/logger"
	"github.com/Gunvolt24/resto-orders/pkg/validate"
)

// CLI для разового прогона чистки: удаляет доставленные заказы старше порога
// и инвалидирует кэш списка. Удобно для cron и ручных запусков.
func main() {
	ageDays := flag.Int("age-days", 0, "delete delivered orders older than this many days (0 = config/default)")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanupLogger() }()

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		logg.Errorf(ctx, "postgres pool: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	listCache := cacheredis.NewListCache(cfg.Redis.Addr, cfg.Redis.OpTimeout)
	defer func() { _ = listCache.Close() }()

	repo := postgres.NewOrderRepository(pool)
	service := usecase.NewOrderService(repo, listCache, logg, validate.NewOrderValidator(), cfg.Cache.Key, cfg.Cache.TTL)

	days := *ageDays
	if days <= 0 {
		days = cfg.Retention.AgeDays
	}

	deleted, err := service.RunRetention(ctx, days)
	if err != nil {
		logg.Errorf(ctx, "retention run: %v", err)
		os.Exit(1)
	}

	fmt.Printf("retention ok: deleted %d delivered orders older than %d days\n", deleted, days)
}
