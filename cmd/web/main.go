package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"garagelog/internal/config"
	"garagelog/internal/db"
	"garagelog/internal/export"
	"garagelog/internal/web"
)

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("db connection error", "err", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		sugar.Fatalw("schema migration error", "err", err)
	}
	if _, err := store.EnsureDefaultAccount(ctx); err != nil {
		sugar.Fatalw("default account error", "err", err)
	}

	pdfEnabled := false
	if cfg.UnidocLicenseKey != "" {
		if err := export.SetPDFLicenseKey(cfg.UnidocLicenseKey); err != nil {
			sugar.Warnw("pdf license rejected, pdf export disabled", "err", err)
		} else {
			pdfEnabled = true
		}
	}

	srv := web.New(cfg, store, sugar, pdfEnabled)
	sugar.Infow("web server listening", "addr", cfg.ListenAddr(), "pdf_export", pdfEnabled)

	if err := srv.Run(ctx); err != nil {
		sugar.Fatalw("server error", "err", err)
	}
}
