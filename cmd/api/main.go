package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"pantry/internal/config"
	"pantry/internal/database"
	jwtsvc "pantry/internal/pkg/jwt"
	"pantry/internal/pkg/mailer"
	"pantry/internal/pkg/storage"
	"pantry/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	if cfg.AutoMigrate {
		log.Println("Running AutoMigrate...")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	router := server.NewRouter(server.Deps{
		Config:  cfg,
		DB:      db,
		JWT:     jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL),
		Mailer:  newMailer(cfg.SMTP),
		Storage: store,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func newMailer(cfg config.SMTPConfig) mailer.Mailer {
	if !cfg.Enabled() {
		log.Println("SMTP_HOST not set, reset links will be logged")
		return mailer.NewConsoleMailer()
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Driver == "s3" {
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PublicURL:       cfg.S3PublicURL,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	}
	return storage.NewLocalStorage(cfg.UploadsDir, cfg.UploadsURL), nil
}
