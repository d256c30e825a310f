// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// defaultAdminPassword is the fallback Auth Gate password. It is refused in
// production.
const defaultAdminPassword = "changeme"

// defaultImagesPrefix is where the public pages expect uploaded images.
const defaultImagesPrefix = "assets/images"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Auth Gate credential. AdminPasswordHash, when set, is a bcrypt hash
	// and takes precedence over AdminPassword.
	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string

	// Comma-separated proxy addresses or CIDR ranges whose forwarding
	// headers are believed. Empty means the socket peer is the client.
	TrustedProxies string

	// Filesystem layout
	SiteRoot  string // static files, including admin/index.html
	DataDir   string // blogs.json, experiences.json
	ImagesDir string // uploaded images, one subdirectory per property

	// Optional S3-compatible mirror for uploaded images
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is loaded first if present; variables already set in the environment win.
// Returns an error if the default admin password is used in production.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	siteRoot := envOrDefault("SITE_ROOT", ".")

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("PORT", "3000"),
		Env:  envOrDefault("APP_ENV", "development"),

		AdminUser:         envOrDefault("ADMIN_USER", "admin"),
		AdminPassword:     envOrDefault("ADMIN_PASSWORD", defaultAdminPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TrustedProxies:    os.Getenv("TRUSTED_PROXIES"),

		SiteRoot:  siteRoot,
		DataDir:   envOrDefault("DATA_DIR", filepath.Join(siteRoot, "data")),
		ImagesDir: envOrDefault("IMAGES_DIR", filepath.Join(siteRoot, "assets", "images")),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "yolo-images"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),
	}

	if cfg.Env == "production" && cfg.AdminPasswordHash == "" && cfg.AdminPassword == defaultAdminPassword {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// BlogsFile returns the path of the blogs collection.
func (c *Config) BlogsFile() string {
	return filepath.Join(c.DataDir, "blogs.json")
}

// ExperiencesFile returns the path of the experiences collection.
func (c *Config) ExperiencesFile() string {
	return filepath.Join(c.DataDir, "experiences.json")
}

// ImagesPrefix returns the public, slash-separated path of the images
// directory relative to the site root. An images directory outside the
// site root is still published as "assets/images".
func (c *Config) ImagesPrefix() string {
	rel, err := filepath.Rel(c.SiteRoot, c.ImagesDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return defaultImagesPrefix
	}
	return filepath.ToSlash(rel)
}

// S3Enabled reports whether enough S3 settings are present to mirror uploads.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
