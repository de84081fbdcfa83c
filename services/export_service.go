package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/export"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/repositories"
	"github.com/Dosada05/bracket-builder/storage"
	"github.com/Dosada05/bracket-builder/utils"
)

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatHTML ExportFormat = "html"
	FormatCSV  ExportFormat = "csv"
	FormatText ExportFormat = "text"
)

// ParseExportFormat accepts the format names case-insensitively; empty means
// JSON.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatHTML, FormatCSV, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

func (f ExportFormat) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// RenderBracket writes b in format f.
func RenderBracket(w io.Writer, b *brackets.Bracket, f ExportFormat, opts export.RenderOptions) error {
	switch f {
	case FormatHTML:
		return export.RenderHTML(w, b, opts)
	case FormatCSV:
		return export.WritePrintSheet(w, b, opts.Locale)
	case FormatText:
		return export.WriteText(w, b, opts.Locale)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

type PublishRequest struct {
	EventID   int
	Selection models.Selection
	Policy    models.SeedingPolicy
	Format    ExportFormat
	Locale    string
}

type PublishResult struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	ETag     string `json:"etag,omitempty"`
	Category string `json:"category"`
}

type PublishService interface {
	// Publish generates a category bracket and uploads it as HTML or CSV.
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

type publishService struct {
	eventRepo repositories.EventRepository
	brackets  BracketService
	uploader  storage.FileUploader
	logger    *slog.Logger
}

// NewPublishService wires publishing. A nil uploader disables it.
func NewPublishService(
	eventRepo repositories.EventRepository,
	bracketService BracketService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PublishService {
	if logger == nil {
		logger = slog.Default()
	}
	return &publishService{
		eventRepo: eventRepo,
		brackets:  bracketService,
		uploader:  uploader,
		logger:    logger,
	}
}

// PublishKey is the object key of a published category export.
func PublishKey(eventID int, category string, f ExportFormat) string {
	return fmt.Sprintf("events/%d/%s.%s", eventID, utils.Slug(category), f.Extension())
}

func (s *publishService) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	if s.uploader == nil {
		return nil, ErrExportNotConfigured
	}
	if req.Format != FormatHTML && req.Format != FormatCSV {
		return nil, fmt.Errorf("%w: only html and csv can be published", ErrUnsupportedFormat)
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", req.EventID, handleRepositoryError(err))
	}
	b, err := s.brackets.Generate(ctx, req.EventID, req.Selection, req.Policy)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := RenderBracket(&buf, b, req.Format, export.RenderOptions{Title: event.Title, Locale: req.Locale}); err != nil {
		return nil, err
	}

	key := PublishKey(req.EventID, b.Category, req.Format)
	uploaded, err := s.uploader.Upload(ctx, key, req.Format.ContentType(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to publish %s: %w", key, err)
	}

	s.logger.Info("bracket published", "event_id", req.EventID, "key", uploaded.Key, "url", uploaded.Location)
	return &PublishResult{
		Key:      uploaded.Key,
		URL:      uploaded.Location,
		ETag:     uploaded.ETag,
		Category: b.Category,
	}, nil
}
