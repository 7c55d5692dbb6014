// chococrunch serves the ChocoCrunch analytics dashboard over a MySQL store
// of products, nutrients and derived health metrics.
//
// Usage:
//
//	chococrunch [--config path] [--addr :8501]
//
// Flags:
//
//	--config  Path to chococrunch.yaml (default: configs/chococrunch.yaml)
//	--addr    Override server.addr from config
//
// Environment:
//
//	CHOCO_DB_HOST, CHOCO_DB_PORT, CHOCO_DB_USER, CHOCO_DB_PASS, CHOCO_DB_NAME
//	CHOCO_S3_ACCESS_KEY, CHOCO_S3_SECRET_KEY
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koustreak/chococrunch/internal/catalog"
	"github.com/koustreak/chococrunch/internal/config"
	"github.com/koustreak/chococrunch/internal/database/mysql"
	"github.com/koustreak/chococrunch/internal/executor"
	"github.com/koustreak/chococrunch/internal/export"
	"github.com/koustreak/chococrunch/internal/filestore"
	"github.com/koustreak/chococrunch/internal/filestore/minio"
	"github.com/koustreak/chococrunch/internal/logger"
	"github.com/koustreak/chococrunch/internal/render"
	"github.com/koustreak/chococrunch/internal/schema"
	"github.com/koustreak/chococrunch/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/chococrunch.yaml", "path to config file")
	addrOverride := flag.String("addr", "", "listen address override (e.g. :8080)")
	flag.Parse()

	boot := logger.New(&logger.Config{Format: "console"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Zerolog().Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
	}
	if *addrOverride != "" {
		cfg.Server.Addr = *addrOverride
	}

	log := logger.New(&cfg.Log)
	logger.SetGlobal(log)

	if err := catalog.Validate(); err != nil {
		log.Zerolog().Fatal().Err(err).Msg("query catalog is inconsistent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connectivity and credential failures are fatal; there is no retry.
	db, err := mysql.New(ctx, cfg.DatabaseConfig())
	if err != nil {
		log.Zerolog().Fatal().Err(err).
			Str("host", cfg.Database.Host).
			Str("database", cfg.Database.Name).
			Msg("database connection failed")
	}
	defer db.Close()

	introspector := schema.NewMySQLIntrospector(db)
	if tables, err := introspector.ListTables(ctx); err != nil {
		log.Zerolog().Warn().Err(err).Msg("failed to list tables")
	} else {
		log.Zerolog().Info().Strs("tables", tables).Str("database", cfg.Database.Name).Msg("connected")
	}
	if report, err := introspector.Verify(ctx); err != nil {
		log.Zerolog().Warn().Err(err).Msg("schema verification failed")
	} else if !report.OK() {
		log.Zerolog().Warn().
			Strs("missing_tables", report.MissingTables).
			Interface("missing_columns", report.MissingColumns).
			Msg("schema is missing relations the catalog reads")
	}

	deps := server.Deps{
		Renderer: render.New(executor.New(db,
			executor.WithLogger(log),
			executor.WithTimeout(cfg.Database.QueryTimeout),
		), log),
		DB:             db,
		Schema:         introspector,
		Log:            log,
		RequestTimeout: cfg.Server.RequestTimeout,
	}

	if cfg.Filestore.Enabled() {
		store, err := openStore(ctx, cfg.FilestoreConfig())
		if err != nil {
			log.Zerolog().Fatal().Err(err).Str("endpoint", cfg.Filestore.Endpoint).Msg("filestore setup failed")
		}
		defer store.Close()
		deps.Store = store
		deps.Archiver = export.NewArchiver(store, cfg.Filestore.Bucket, cfg.Filestore.LinkTTL, log)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Zerolog().Info().
			Str("addr", cfg.Server.Addr).
			Str("config", *configPath).
			Bool("archive", deps.Archiver != nil).
			Msg("chococrunch started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Zerolog().Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWith("graceful shutdown error", err, nil)
	}
	log.Info("stopped")
}

func openStore(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	store, err := minio.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx, cfg.DefaultBucket); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
