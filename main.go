package main

import (
	"os"

	"github.com/charmbracelet/log"

	"musicee/auth"
	"musicee/crud"
	"musicee/domain"
	"musicee/http"
	"musicee/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "musicee",
	})

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", "backend", cfg.Store.Backend, "err", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()

	services, err := crud.NewServices(
		st,
		crud.WithUser(),
		crud.WithTrack(),
		crud.WithEngagement(),
		crud.WithRecommend(),
	)
	if err != nil {
		logger.Fatal("failed to build services", "err", err)
	}

	authService := auth.NewService(
		cfg.Auth.Pepper,
		cfg.Auth.Secret,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)

	server := http.NewServer(
		logger,
		authService,
		services.User,
		services.Track,
		services.Engagement,
		services.Recommend,
	)

	logger.Info("starting server", "addr", cfg.Server.Addr(), "store", cfg.Store.Backend)
	if err := server.Run(cfg.Server.Addr()); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func openStore(cfg Config, logger *log.Logger) (domain.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return store.OpenGorm(cfg.Store.DSN, cfg.IsProd())
	case "memory":
		logger.Warn("using the in-memory store, data will not survive a restart")
		return store.NewMemory(), nil
	default:
		return store.OpenBadger(cfg.Store.Path)
	}
}
