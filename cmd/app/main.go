// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nft-drop-redemption/internal/config"
	"nft-drop-redemption/internal/domain/ports/adapter"
	"nft-drop-redemption/internal/infra/adapters/minter"
	pg "nft-drop-redemption/internal/infra/db/postgres"
	"nft-drop-redemption/internal/infra/logging"
	"nft-drop-redemption/internal/infra/metrics"
	red "nft-drop-redemption/internal/infra/redis"
	"nft-drop-redemption/internal/infra/web"
	"nft-drop-redemption/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop minter allowed)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("postgres schema: %v", err)
	}

	// ---- Redis (optional, rate limiting only) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured; claim rate limiting disabled")
	}

	// ---- Minter (eth -> relay -> dev noop) ----
	var mint adapter.Minter
	if cfg.Chain.RPCURL != "" {
		m, err := minter.NewEthMinter(ctx, cfg.Chain.RPCURL, cfg.Chain.PrivateKey, cfg.Chain.ContractAddress)
		if err != nil {
			log.Fatalf("eth minter: %v", err)
		}
		defer m.Close()
		mint = m
		logger.Info().Str("backend", m.Name()).Msg("minter configured")
	} else if cfg.Relay.BaseURL != "" {
		m, err := minter.NewRelayMinter(cfg.Relay.BaseURL, cfg.Relay.APIKey)
		if err != nil {
			log.Fatalf("relay minter: %v", err)
		}
		mint = m
		logger.Info().Str("backend", m.Name()).Msg("minter configured")
	} else if cfg.Runtime.Dev {
		mint = minter.NewNoopMinter()
		logger.Warn().Msg("dev mode: using noop minter, no real mints will happen")
	} else {
		log.Fatalf("no minting back-end configured: set chain.rpc_url or relay.base_url in %s", *cfgPath)
	}
	mint = minter.WithMetrics(mint)

	// ---- Repositories & use cases ----
	codeRepo := pg.NewRedemptionCodeRepo(pool)
	codeUC := usecase.NewCodeAdminUseCase(codeRepo, cfg.Limits.BatchMax, cfg.Limits.ListMax, logger)
	claimUC := usecase.NewClaimUseCase(codeRepo, mint, logger)

	// ---- HTTP server ----
	srv := web.NewServer(cfg, codeUC, claimUC, limiter, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Routes(),
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
