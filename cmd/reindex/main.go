// Command reindex copies the product catalog from the database into the
// Elasticsearch search index.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/agro_shop/internal/config"
	"github.com/Skotchmaster/agro_shop/internal/db"
	"github.com/Skotchmaster/agro_shop/internal/es"
	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/util"
)

func main() {
	if err := run(); err != nil {
		slog.Error("reindex_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.NonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return err
	}
	if err := config.NonEmpty(cfg.ESURL, "ES_URL"); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "job", "reindex")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	index, err := es.NewClient(ctx, es.Config{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return err
	}
	if err := index.EnsureIndex(ctx); err != nil {
		return err
	}

	rp := repo.New(gdb, cfg.OwnerOpenID)
	total, err := rp.CountProducts(ctx)
	if err != nil {
		return err
	}

	indexed := 0
	for offset := 0; int64(offset) < total; offset += util.MaxPageSize {
		products, err := rp.GetProducts(ctx, util.MaxPageSize, offset)
		if err != nil {
			return err
		}
		if len(products) == 0 {
			break
		}
		if err := index.IndexProducts(ctx, products); err != nil {
			return err
		}
		indexed += len(products)
		logger.Info("reindex_progress", "indexed", indexed, "total", total)
	}

	logger.Info("reindex_done", "indexed", indexed, "index", index.Index())
	return nil
}
