package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/agro_shop/internal/config"
	"github.com/Skotchmaster/agro_shop/internal/db"
	"github.com/Skotchmaster/agro_shop/internal/es"
	"github.com/Skotchmaster/agro_shop/internal/httpserver"
	"github.com/Skotchmaster/agro_shop/internal/logging"
	loggingmw "github.com/Skotchmaster/agro_shop/internal/middleware/logging"
	"github.com/Skotchmaster/agro_shop/internal/mykafka"
	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	var gdb *gorm.DB
	if cfg.DatabaseURL != "" {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		gdb, err = db.Open(initCtx, cfg.DatabaseURL)
		if err == nil && cfg.AutoMigrate {
			err = db.Migrate(initCtx, gdb)
		}
		cancel()
		if err != nil {
			logger.Error("db_init_failed", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("database_not_configured", "hint", "set DATABASE_URL; reads return empty results and writes fail")
	}

	secret := cfg.SessionSecret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Error("session_secret_failed", "error", err)
			os.Exit(1)
		}
		logger.Warn("session_secret_generated", "hint", "sessions will not survive a restart")
	}

	var events mykafka.Publisher = mykafka.Noop{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_failed", "error", err)
			os.Exit(1)
		}
		events = producer
	}

	rp := repo.New(gdb, cfg.OwnerOpenID)
	catalog := &service.CatalogService{Repo: rp}
	if cfg.ESURL != "" {
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		index, err := es.NewClient(esCtx, es.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err == nil {
			err = index.EnsureIndex(esCtx)
		}
		cancel()
		if err != nil {
			logger.Warn("es_unavailable", "error", err)
		} else {
			catalog.Index = index
		}
	}

	sessions := session.NewManager(secret, cfg.SessionTTL, cfg.CookieSecure)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Repo:        rp,
		Sessions:    sessions,
		Auth:        &service.AuthService{Repo: rp, Events: events},
		Catalog:     catalog,
		Cart:        &service.CartService{Repo: rp, Events: events},
		Favorites:   &service.FavoriteService{Repo: rp, Events: events},
		Orders:      &service.OrderService{Repo: rp, Events: events},
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}
