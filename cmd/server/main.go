package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicepro/config"
	"invoicepro/db"
	"invoicepro/db/mongo"
	"invoicepro/db/postgres"
	"invoicepro/export"
	"invoicepro/handlers"
	"invoicepro/logging"
	"invoicepro/numbering"
	"invoicepro/preview"
	"invoicepro/render"
	"invoicepro/repository"
	"invoicepro/routes"
	"invoicepro/session"
	"invoicepro/storage"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load config from .env or the environment
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		conn     db.DB
		userRepo repository.UserRepository
		drive    storage.Drive
	)
	switch cfg.DBType {
	case config.DBPostgres:
		if err := db.RunMigrations(cfg.PostgresURL, logger); err != nil {
			return err
		}
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(ctx); err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		conn = pg
		userRepo = repository.NewPostgresUserRepo(pg.Conn)
		drive = storage.NewPostgresDrive(pg.Conn)

	case config.DBMongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(ctx); err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		if err := mg.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		conn = mg
		userRepo = repository.NewMongoUserRepo(mg.DB())
		drive = storage.NewMongoDrive(mg.DB())
	}
	defer func() {
		if err := conn.Disconnect(context.Background()); err != nil {
			logger.Warn("database disconnect", "error", err)
		}
	}()

	switch cfg.DriveType {
	case config.DriveR2:
		drive, err = storage.NewR2Drive(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			Bucket:          cfg.R2Bucket,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
		})
		if err != nil {
			return err
		}
	case config.DriveMemory:
		drive = storage.NewMemoryDrive()
	}
	logger.Info("storage ready", "db", cfg.DBType, "drive", cfg.DriveType)

	var cache storage.FolderCache = storage.NewMemoryFolderCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, using in-memory folder cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = storage.NewRedisFolderCache(rdb, "", cfg.SessionTTL)
		}
	}
	store := storage.NewStore(drive, cache, logger)

	sessions := session.NewManager(userRepo, cfg.JWTSecret, cfg.SessionTTL, logger)
	counters := numbering.NewCounters(store, logger)
	stopWatch := counters.Watch(ctx, sessions)
	defer stopWatch()
	stopReset := sessions.Subscribe(func(st session.State) {
		if st.SignedIn {
			return
		}
		if err := store.Reset(context.Background()); err != nil {
			logger.Warn("reset folder cache", "error", err)
		}
	})
	defer stopReset()

	assetCtx, cancelAssets := context.WithTimeout(ctx, cfg.AssetTimeout)
	logo, err := render.LoadLogo(assetCtx, cfg.LogoPath, nil)
	cancelAssets()
	if err != nil {
		logger.Warn("logo unavailable, printing placeholder", "source", cfg.LogoPath, "error", err)
	}
	renderer := render.NewRenderer(logo, render.Branding{
		UPIID:           cfg.UPIID,
		WebsiteURL:      cfg.WebsiteURL,
		QuotationQRText: cfg.QuotationQRText,
	}, logger)
	printer := render.NewPrintRenderer(renderer, cfg.ChromePrintTimeout, logger)
	previews := preview.New(renderer, cfg.PreviewDelay, logger)
	defer previews.Stop()

	docs := &handlers.DocumentHandler{
		Counters:     counters,
		Orchestrator: export.New(renderer, store, counters, sessions, logger),
		Printer:      printer,
		Logger:       logger,
	}
	router := routes.NewRouter(routes.Handlers{
		Auth:      &handlers.AuthHandler{Session: sessions, Logger: logger},
		Documents: docs,
		Numbers:   &handlers.NumberHandler{Counters: counters, Logger: logger},
		Preview:   &handlers.PreviewHandler{Documents: docs, Previews: previews},
	}, routes.Options{
		AllowedOrigin:         cfg.CORSOrigin,
		Development:           cfg.Development,
		AuthRequestsPerMinute: cfg.AuthRateLimit,
	}, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
