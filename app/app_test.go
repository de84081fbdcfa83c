package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-builder/config"
	"github.com/Dosada05/bracket-builder/internal/s3test"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/scraper"
	"github.com/Dosada05/bracket-builder/services"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		ServerPort:     8080,
		DatabaseDriver: config.DriverSQLite,
		DatabaseURL:    ":memory:",
		ConnectTimeout: time.Second,
		LogLevel:       "info",
		SeedingPolicy:  models.SeedingInsertion,
	}
	cfg.Scraper.CacheTTL = time.Hour
	cfg.Scraper.Timeout = 5 * time.Second
	cfg.Export.Region = "us-east-1"
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWithoutObjectStorage(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(), quietLogger())
	require.NoError(t, err)
	defer a.Close()

	event, err := a.Imports.ImportFromCSV(ctx, "Copa", strings.NewReader(
		"Nome,Idade,Faixa,Peso,Genero\nAna,Adulto,Azul,Leve,Feminino\nBia,Adulto,Azul,Leve,Feminino\n"))
	require.NoError(t, err)

	categories, err := a.Categories.Categories(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	b, err := a.Brackets.Generate(ctx, event.ID, categories[0].Selection, "")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Size)

	_, err = a.Publisher.Publish(ctx, services.PublishRequest{EventID: event.ID, Selection: categories[0].Selection, Format: services.FormatHTML})
	assert.ErrorIs(t, err, services.ErrExportNotConfigured)
}

func TestNewWithObjectStorage(t *testing.T) {
	server := s3test.NewServer("brackets")
	defer server.Close()

	cfg := testConfig()
	cfg.Export.Bucket = "brackets"
	cfg.Export.Endpoint = server.URL
	cfg.Export.AccessKeyID = "test"
	cfg.Export.SecretAccessKey = "test"
	cfg.Export.PublicBaseURL = "https://cdn.example.com"
	cfg.Export.UsePathStyle = true
	cfg.Scraper.CacheBucket = "brackets"

	ctx := context.Background()
	a, err := New(ctx, cfg, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	event, err := a.Imports.ImportFromCSV(ctx, "Copa", strings.NewReader(
		"Nome,Idade,Faixa,Peso,Genero\nAna,Adulto,Azul,Leve,Feminino\n"))
	require.NoError(t, err)

	sel := models.Selection{Gender: "FEMININO", Belt: "AZUL", AgeDivision: "ADULTO", WeightDivision: "LEVE"}
	result, err := a.Publisher.Publish(ctx, services.PublishRequest{EventID: event.ID, Selection: sel, Format: services.FormatCSV})
	require.NoError(t, err)
	_, ok := server.Object(result.Key)
	assert.True(t, ok)
}

func TestNewFallsBackWhenCacheBucketIsMissing(t *testing.T) {
	server := s3test.NewServer("brackets")
	defer server.Close()

	cfg := testConfig()
	cfg.Scraper.CacheBucket = "scraper-cache"
	cfg.Export.Endpoint = server.URL
	cfg.Export.AccessKeyID = "test"
	cfg.Export.SecretAccessKey = "test"
	cfg.Export.UsePathStyle = true

	a, err := New(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer a.Close()
	assert.Zero(t, server.Len())
}

func TestRegistrationFetcherFollowsScraperMode(t *testing.T) {
	cfg := testConfig()

	cfg.Scraper.Mode = config.ScraperModeHTTP
	assert.IsType(t, &scraper.Client{}, registrationFetcher(cfg, http.DefaultClient, quietLogger()))

	cfg.Scraper.Mode = config.ScraperModeBrowser
	assert.IsType(t, &scraper.BrowserFetcher{}, registrationFetcher(cfg, http.DefaultClient, quietLogger()))
}
