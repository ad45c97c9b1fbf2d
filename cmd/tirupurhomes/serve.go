package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"tirupurhomes/internal/config"
	"tirupurhomes/internal/http/handlers"
	applog "tirupurhomes/internal/log"
	"tirupurhomes/internal/repos"
	"tirupurhomes/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func loadConfig() (config.Config, error) {
	if envFile != "" {
		return config.Load(envFile)
	}
	return config.Load()
}

// bootstrap loads config, installs the logger and opens the database.
func bootstrap() (config.Config, *sqlx.DB, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	_, closer, err := applog.Setup(applog.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		_ = closer.Close()
		return config.Config{}, nil, nil, fmt.Errorf("open db: %w", err)
	}
	return cfg, db, closer, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, closer, err := bootstrap()
	if err != nil {
		return err
	}
	defer closer.Close()
	defer db.Close()

	if err := repos.Seed(db, repos.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminName:     cfg.AdminName,
		AdminPassword: cfg.AdminPassword,
		Demo:          cfg.SeedDemo,
	}); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	store, release, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	app := handlers.NewApp(cfg, handlers.NewDeps(db, cfg, store))

	errc := make(chan error, 1)
	go func() {
		applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "db": cfg.DBDriver, "storage": cfg.StorageBackend})
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	applog.Info(nil, "server.stop", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// openStore picks the object store named by STORAGE_BACKEND.
func openStore(ctx context.Context, cfg config.Config) (storage.ObjectStore, func(), error) {
	switch cfg.StorageBackend {
	case "", "local":
		s, err := storage.NewLocal(cfg.MediaDir, cfg.PublicBaseURL+"/media")
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "gridfs":
		client, err := storage.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		s, err := storage.NewGridFS(client.Database(cfg.MongoDB), cfg.PublicBaseURL+"/media/gridfs")
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return s, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, nil, errors.New("unknown STORAGE_BACKEND " + cfg.StorageBackend)
	}
}
