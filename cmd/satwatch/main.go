package main

import (
	"log"

	"satwatch/internal/cache"
	"satwatch/internal/config"
	"satwatch/internal/logging"
	"satwatch/internal/notify"
	"satwatch/internal/placesapi"
	"satwatch/internal/service"
	"satwatch/internal/store"
	"satwatch/internal/store/badgerkv"
	"satwatch/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	var backend store.Store
	if cfg.PlacesAPIURL != "" {
		logger.Info("using remote places backend", "url", cfg.PlacesAPIURL)
		backend = placesapi.New(cfg.PlacesAPIURL, placesapi.WithToken(cfg.PlacesAPIToken))
	} else {
		logger.Info("using local places backend", "dir", cfg.DataDir)
		kv, err := badgerkv.Open(cfg.DataDir, badgerkv.WithWriteDelay(cfg.WriteDelay))
		if err != nil {
			logger.Error("failed to open store", "error", err)
			return
		}
		defer func() {
			if err := kv.Close(); err != nil {
				logger.Error("failed to close store", "error", err)
			}
		}()
		backend = kv
	}

	notifier := notify.New()
	cached := cache.New(backend, cache.WithTTL(cfg.CacheTTL), cache.WithNotifier(notifier))
	svc := service.New(cached, notifier, logger, service.WithPageSize(cfg.PageSize))

	server := web.NewServer(svc, notifier, logger, web.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AuthSecret:     []byte(cfg.AuthSecret),
	})

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
