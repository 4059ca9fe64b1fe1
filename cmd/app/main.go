// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-coin-discount/internal/application"
	"telegram-coin-discount/internal/config"
	"telegram-coin-discount/internal/infra/adapters/aliexpress"
	tele "telegram-coin-discount/internal/infra/adapters/telegram"
	"telegram-coin-discount/internal/infra/logging"
	"telegram-coin-discount/internal/infra/metrics"
	red "telegram-coin-discount/internal/infra/redis"
	"telegram-coin-discount/internal/infra/web"
	"telegram-coin-discount/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, debug level)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Redis (optional; without it per-user rate limiting is off) ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; rate limiting disabled")
	}

	// ---- AliExpress adapters ----
	apiClient, err := aliexpress.NewClient(&cfg.AliExpress, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("aliexpress client init failed")
	}
	logger.Info().
		Str("app_key", logging.Redact(cfg.AliExpress.AppKey, cfg.Runtime.Dev)).
		Str("tracking_id", logging.Redact(cfg.AliExpress.TrackingID, cfg.Runtime.Dev)).
		Str("base_url", cfg.AliExpress.BaseURL).
		Msg("aliexpress client ready")
	resolver := aliexpress.NewShortLinkResolver(cfg.AliExpress.Timeout, logger)

	// ---- Use case + facade ----
	linkUC := usecase.NewLinkUseCase(apiClient, resolver, cfg.AliExpress.EnrichDetails, logger)
	facade := application.NewBotFacade(linkUC)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops HTTP server ----
	var opsServer *web.Server
	if cfg.Admin.Port > 0 {
		auth := web.NewAuthManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTL)
		opsServer = web.NewServer(linkUC, auth, cfg.Admin.APIKey, cfg.Admin.Port, logger)
		go func() {
			if err := opsServer.Start(); err != nil {
				logger.Error().Err(err).Msg("ops server stopped")
			}
		}()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	if opsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("ops server shutdown failed")
		}
	}
	cancel()
}
