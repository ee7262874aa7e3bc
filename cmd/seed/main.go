package main

import (
	"context"
	"os"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/config"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

const seedTimeout = 30 * time.Second

// main wipes the configured store and loads the sample lights and scans.
func main() {
	if err := logger.Init("text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("seed")

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
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

	res, err := store.Seed(ctx, st)
	if err != nil {
		log.Error(ctx, "seed failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "database seeded",
		logger.String("driver", cfg.StoreDriver),
		logger.Int("lights", res.LightsCreated),
		logger.Int("scans", res.ScansCreated))
}
