// @title Medication Manager API
// @version 1.0
// @description Medicamentos, turnos, recordatorios y reportes médicos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medication-manager/internal/adapters/auth/jwtauth"
	blobfs "medication-manager/internal/adapters/blob/fs"
	blobmem "medication-manager/internal/adapters/blob/memory"
	blobs3 "medication-manager/internal/adapters/blob/s3"
	"medication-manager/internal/adapters/storage/memory"
	"medication-manager/internal/adapters/storage/postgres"
	"medication-manager/internal/adapters/storage/sqlite"
	"medication-manager/internal/config"
	"medication-manager/internal/jobs"
	"medication-manager/internal/platform/logger"
	"medication-manager/internal/ports/blob"
	"medication-manager/internal/ports/storage"
	"medication-manager/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional (dev)
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	app := os.Getenv("APP_NAME")
	if app == "" {
		app = "medication-manager"
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
		App:    app,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeKV()

	files, err := openBlob(ctx, cfg.Blob)
	if err != nil {
		return fmt.Errorf("blob: %w", err)
	}

	opts := router.Options{
		KV:       kv,
		Blob:     files,
		Logger:   log,
		Location: cfg.Location(),
	}
	if cfg.DevAuth() {
		log.Warn("auth disabled: using X-Debug-User-ID header", nil)
	} else {
		signer := jwtauth.NewSigner([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.TokenTTL)
		opts.AuthVerifier = signer
		opts.Tokens = signer
	}
	opts.Services = router.NewServices(opts)

	if cfg.Jobs.SweeperEnabled {
		sw := jobs.NewSweeper(opts.Services.Reminders, opts.Services.Medicines, log)
		if err := sw.Start(cfg.Jobs.SweepInterval, cfg.Location()); err != nil {
			return err
		}
		defer sw.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":    srv.Addr,
			"storage": cfg.Storage.Driver,
			"blob":    blobDriverName(cfg.Blob.Driver),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openKV abre el sustrato elegido. El close devuelto nunca es nil.
func openKV(ctx context.Context, cfg config.StorageConfig) (storage.KV, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		kv, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		kv := postgres.NewKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return kv, func() { _ = db.Close() }, nil
	default:
		return memory.NewKV(), func() {}, nil
	}
}

// openBlob devuelve nil (interface) cuando los reportes van inline.
func openBlob(ctx context.Context, cfg config.BlobConfig) (blob.Store, error) {
	switch blob.Driver(cfg.Driver) {
	case blob.DriverMemory:
		return blobmem.New(), nil
	case blob.DriverFS:
		return blobfs.New(cfg.FSRoot)
	case blob.DriverS3:
		return blobs3.New(ctx, blobs3.Config{
			Region:          cfg.S3.Region,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	default:
		return nil, nil
	}
}

func blobDriverName(d string) string {
	if d == "" {
		return "inline"
	}
	return d
}
