package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ecarden/repo-indexer/internal/config"
	"github.com/ecarden/repo-indexer/internal/dispatcher"
	"github.com/ecarden/repo-indexer/internal/fetcher"
	"github.com/ecarden/repo-indexer/internal/indexer"
	"github.com/ecarden/repo-indexer/internal/logging"
	"github.com/ecarden/repo-indexer/internal/ops"
	"github.com/ecarden/repo-indexer/internal/transport"
)

func main() {

	if value, ok := os.LookupEnv("ENV"); ok && value == "prod" {
		// In Docker/Compose, rely only on provided env vars
	} else {
		// Local dev: force load .env
		if err := godotenv.Overload(); err != nil {
			log.Fatalf("Could not load .env: %v", err)
		}
	}

	// Load configuration into config
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.GetLogLevel())

	// Initialize indexer backends
	redisIdx, err := indexer.NewRedisIndexer(cfg.GetRedisAddr(), cfg.GetContentTTL())
	if err != nil {
		log.Fatalf("Failed to initialize redis indexer: %v", err)
	}
	defer func() {
		if err := redisIdx.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis indexer")
		}
	}()

	bleveIdx, err := indexer.NewBleveIndexer(cfg.GetBleveIndexPath())
	if err != nil {
		log.Fatalf("Failed to initialize bleve indexer: %v", err)
	}
	defer func() {
		if err := bleveIdx.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close bleve indexer")
		}
	}()

	indexers := []indexer.Indexer{redisIdx, bleveIdx}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build the dispatcher around the indexer complement
	fetch := fetcher.NewHTTPFetcher(cfg.GetFetchTimeout())
	disp := dispatcher.New(cfg.GetRepoBaseURL(), fetch, indexers, logger)
	disp.AddListener(dispatcher.LoggingListener{Logger: logger})

	// Start consuming repository change notifications
	consumer, err := transport.NewRedisConsumer(ctx, cfg.GetRedisAddr(), cfg.GetBrokerChannel())
	if err != nil {
		log.Fatalf("Failed to initialize broker consumer: %v", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close consumer")
		}
	}()

	logger.Info().
		Str("repo_base_url", cfg.GetRepoBaseURL()).
		Str("redis_addr", cfg.GetRedisAddr()).
		Str("channel", cfg.GetBrokerChannel()).
		Int("workers", cfg.GetWorkers()).
		Msg("starting repo-indexer")

	// Optional ops endpoint with health checks and metrics
	if addr := cfg.GetOpsAddr(); addr != "" {
		router := ops.NewRouter(map[string]ops.HealthChecker{
			"broker": consumer,
			"redis":  redisIdx,
			"bleve":  bleveIdx,
		})
		opsSrv := &http.Server{Addr: addr, Handler: router}
		go func() {
			logger.Info().Str("addr", addr).Msg("ops endpoint listening")
			if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("ops server failed")
			}
		}()
		defer func() {
			if err := opsSrv.Shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("ops server shutdown error")
			}
		}()
	}

	// Dispatch workers: each processes one notification end-to-end
	var wg sync.WaitGroup
	for i := 0; i < cfg.GetWorkers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range consumer.Notifications() {
				disp.OnMessage(ctx, n)
			}
		}()
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info().Msg("received shutdown signal, stopping")
	cancel()
	wg.Wait()
}
