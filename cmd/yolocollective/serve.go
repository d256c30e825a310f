// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yolocollective/internal/config"
	"yolocollective/internal/handlers"
	"yolocollective/internal/jsonstore"
	"yolocollective/internal/middleware"
	"yolocollective/internal/models"
	"yolocollective/internal/router"
	"yolocollective/internal/storage"
	"yolocollective/internal/upload"
)

const (
	// authRealm is the basic-auth realm shown by browsers.
	authRealm = "YOLO Admin"

	// Failed logins tolerated per client IP within authWindow.
	authFailureLimit = 10
	authWindow       = time.Minute

	// shutdownTimeout bounds how long open requests may take to finish.
	shutdownTimeout = 30 * time.Second
)

// runServer loads the configuration and serves the site until SIGINT or
// SIGTERM, then drains open connections.
func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Structured logger: text in development, JSON elsewhere.
	var logger *slog.Logger
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site_root", cfg.SiteRoot,
		"data_dir", cfg.DataDir,
		"images_dir", cfg.ImagesDir,
	)

	for _, dir := range []string{cfg.DataDir, cfg.ImagesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	// Connect to S3-compatible object storage (optional, uploads stay on
	// disk either way).
	var mirror upload.Mirror
	if cfg.S3Enabled() {
		client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			return fmt.Errorf("initialize S3 storage: %w", err)
		}
		if client != nil {
			mirror = client
			slog.Info("s3 mirror enabled", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
		}
	} else {
		slog.Info("s3 mirror not configured, images are kept on disk only")
	}

	creds, err := middleware.NewCredentials(cfg.AdminUser, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("admin credentials: %w", err)
	}
	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	limiter := middleware.NewRateLimiter(authFailureLimit, authWindow)
	defer limiter.Stop()
	gate := middleware.BasicAuth(authRealm, creds, limiter, proxies)

	saver := upload.NewSaver(cfg.ImagesDir, cfg.ImagesPrefix(), mirror)
	blogs := handlers.NewBlogs(jsonstore.NewCollection[models.Blog](cfg.BlogsFile()), saver)
	experiences := handlers.NewExperiences(jsonstore.NewCollection[models.Experience](cfg.ExperiencesFile()), saver)
	properties := handlers.NewProperties(saver)
	admin := handlers.NewAdmin(cfg.SiteRoot, saver)

	r := router.New(gate, blogs, experiences, properties, admin, cfg.SiteRoot)

	// ReadTimeout must accommodate a 10 MB upload on a slow connection.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "admin", "/admin")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
