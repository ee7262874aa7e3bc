package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/config"
	"github.com/PratikDhanave/lightscan-service/internal/handlers"
	"github.com/PratikDhanave/lightscan-service/internal/httpserver"
	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/internal/mqttingest"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// main boots the service: config → store → schema → MQTT → HTTP server.
func main() {
	if err := logger.Init("text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// defaults -> optional YAML file -> LIGHTSCAN_* env
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if cfg.LogFormat != "text" {
		if err := logger.Init(cfg.LogFormat); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error(ctx, "invalid timezone", logger.String("timezone", cfg.Timezone), logger.Error(err))
		os.Exit(1)
	}

	st, err := store.Open(ctx, store.Options{
		Driver:     cfg.StoreDriver,
		DBURL:      cfg.DBURL,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		log.Error(ctx, "failed to open store", logger.String("driver", cfg.StoreDriver), logger.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	svc := ingest.NewService(st)

	if cfg.MQTTEnabled {
		sub := mqttingest.NewSubscriber(mqttingest.Options{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
		}, svc, log)
		if err := sub.Start(ctx); err != nil {
			log.Error(ctx, "failed to start mqtt subscriber", logger.Error(err))
			os.Exit(1)
		}
		defer sub.Stop()
	}

	router, err := httpserver.NewRouter(cfg, handlers.Deps{
		Store:    st,
		Ingest:   svc,
		Log:      log,
		Now:      time.Now,
		Location: loc,
	})
	if err != nil {
		log.Error(ctx, "failed to build router", logger.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "server started",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
			logger.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "http server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}
