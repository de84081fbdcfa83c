// Package app wires configuration into repositories, services and the
// display hub. The HTTP server and bracketctl share it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gregjones/httpcache"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/config"
	"github.com/Dosada05/bracket-builder/db"
	"github.com/Dosada05/bracket-builder/repositories"
	"github.com/Dosada05/bracket-builder/s3cache"
	"github.com/Dosada05/bracket-builder/scraper"
	"github.com/Dosada05/bracket-builder/services"
	"github.com/Dosada05/bracket-builder/storage"
)

type App struct {
	DB  *sql.DB
	Hub *brackets.Hub

	Imports    services.ImportService
	Categories services.CategoryService
	Brackets   services.BracketService
	Publisher  services.PublishService
	Dashboards services.DashboardService
}

// New connects to the database, applies the schema and builds the services.
// The hub is created but not started.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, conn, cfg.DatabaseDriver); err != nil {
		conn.Close()
		return nil, err
	}

	s3Client, err := objectStorageClient(ctx, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	httpClient, err := scraperHTTPClient(ctx, cfg, s3Client, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	var uploader storage.FileUploader
	if cfg.Export.Enabled() {
		uploader, err = storage.NewS3Uploader(s3Client, storage.S3UploaderConfig{
			BucketName:    cfg.Export.Bucket,
			PublicBaseURL: cfg.Export.PublicBaseURL,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize export uploader: %w", err)
		}
		logger.Info("bracket publishing enabled", "bucket", cfg.Export.Bucket)
	}

	hub := brackets.NewHub(logger)
	eventRepo := repositories.NewEventRepository(conn)
	competitorRepo := repositories.NewCompetitorRepository(conn)
	fetcher := registrationFetcher(cfg, httpClient, logger)

	a := &App{DB: conn, Hub: hub}
	a.Imports = services.NewImportService(eventRepo, competitorRepo, fetcher, logger)
	a.Categories = services.NewCategoryService(competitorRepo)
	a.Brackets = services.NewBracketService(a.Categories, brackets.NewSingleEliminationGenerator(), hub, cfg.SeedingPolicy, logger)
	a.Publisher = services.NewPublishService(eventRepo, a.Brackets, uploader, logger)
	a.Dashboards = services.NewDashboardService(a.Categories)
	return a, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// objectStorageClient is nil unless publishing or the shared scraper cache
// needs a bucket.
func objectStorageClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	if !cfg.Export.Enabled() && cfg.Scraper.CacheBucket == "" {
		return nil, nil
	}
	client, err := storage.NewS3Client(ctx, storage.ClientConfig{
		Endpoint:        cfg.Export.Endpoint,
		Region:          cfg.Export.Region,
		AccessKeyID:     cfg.Export.AccessKeyID,
		SecretAccessKey: cfg.Export.SecretAccessKey,
		UsePathStyle:    cfg.Export.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage client: %w", err)
	}
	return client, nil
}

// scraperHTTPClient caches registration pages in the configured bucket, or
// in memory when there is none or it cannot be reached.
func scraperHTTPClient(ctx context.Context, cfg *config.Config, client *s3.Client, logger *slog.Logger) (*http.Client, error) {
	var cache httpcache.Cache = httpcache.NewMemoryCache()
	if cfg.Scraper.CacheBucket != "" {
		if client == nil {
			return nil, errors.New("scraper cache bucket set without object storage credentials")
		}
		s3c := s3cache.New(ctx, client, cfg.Scraper.CacheBucket, s3cache.Options{Gzip: true, Logger: logger})
		if err := s3c.Check(ctx); err != nil {
			// Ошибку не считаем фатальной: без общего кэша скрейпер всё равно работает.
			logger.Warn("scraper cache bucket unavailable, using memory cache", "bucket", cfg.Scraper.CacheBucket, "error", err)
		} else {
			cache = s3c
		}
	}
	return scraper.NewCachedHTTPClient(cache, cfg.Scraper.CacheTTL, cfg.Scraper.Timeout, cfg.Scraper.UserAgent), nil
}

// registrationFetcher renders pages in Chrome unless SCRAPER_MODE asks for
// plain cached HTTP.
func registrationFetcher(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) services.RegistrationFetcher {
	if cfg.Scraper.Mode == config.ScraperModeHTTP {
		return scraper.NewClient(httpClient, logger)
	}
	return scraper.NewBrowserFetcher(cfg.Scraper.BrowserBin, cfg.Scraper.Timeout, logger)
}
