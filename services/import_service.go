package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Dosada05/bracket-builder/export"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/repositories"
	"github.com/Dosada05/bracket-builder/scraper"
)

// RegistrationFetcher downloads and parses a registration page.
type RegistrationFetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.Registration, error)
}

type ImportService interface {
	// ImportFromURL scrapes a check-in page into a new event. A non-empty
	// title overrides the page title.
	ImportFromURL(ctx context.Context, pageURL, title string) (*models.Event, error)
	// ImportFromCSV stores a roster spreadsheet as a new event.
	ImportFromCSV(ctx context.Context, title string, r io.Reader) (*models.Event, error)
	// ReplaceRoster swaps the roster of an existing event with a spreadsheet.
	ReplaceRoster(ctx context.Context, eventID int, r io.Reader) (*models.Event, error)
	GetEvent(ctx context.Context, eventID int) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	ExportRoster(ctx context.Context, eventID int, w io.Writer) error
}

type importService struct {
	eventRepo      repositories.EventRepository
	competitorRepo repositories.CompetitorRepository
	fetcher        RegistrationFetcher
	logger         *slog.Logger
}

func NewImportService(
	eventRepo repositories.EventRepository,
	competitorRepo repositories.CompetitorRepository,
	fetcher RegistrationFetcher,
	logger *slog.Logger,
) ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		eventRepo:      eventRepo,
		competitorRepo: competitorRepo,
		fetcher:        fetcher,
		logger:         logger,
	}
}

func (s *importService) ImportFromURL(ctx context.Context, pageURL, title string) (*models.Event, error) {
	parsed, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an http(s) URL", ErrValidationFailed, pageURL)
	}
	if s.fetcher == nil {
		return nil, errors.New("registration scraping is not available")
	}

	reg, err := s.fetcher.Fetch(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, scraper.ErrNoCategories) {
			return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to scrape %s: %w", parsed, err)
	}
	if len(reg.Competitors) == 0 {
		return nil, fmt.Errorf("%w: no competitors found at %s", ErrValidationFailed, parsed)
	}

	source := parsed.String()
	event := &models.Event{Title: reg.Title, SourceURL: &source}
	if t := strings.TrimSpace(title); t != "" {
		event.Title = t
	}
	return s.create(ctx, event, reg.Competitors)
}

func (s *importService) ImportFromCSV(ctx context.Context, title string, r io.Reader) (*models.Event, error) {
	competitors, err := readRoster(r)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, &models.Event{Title: strings.TrimSpace(title)}, competitors)
}

func (s *importService) ReplaceRoster(ctx context.Context, eventID int, r io.Reader) (*models.Event, error) {
	competitors, err := readRoster(r)
	if err != nil {
		return nil, err
	}
	if err := s.competitorRepo.ReplaceForEvent(ctx, eventID, competitors); err != nil {
		return nil, fmt.Errorf("failed to replace roster of event %d: %w", eventID, handleRepositoryError(err))
	}
	s.logger.Info("event roster replaced", "event_id", eventID, "competitors", len(competitors))
	return s.GetEvent(ctx, eventID)
}

func (s *importService) GetEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, handleRepositoryError(err))
	}
	return event, nil
}

func (s *importService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *importService) ExportRoster(ctx context.Context, eventID int, w io.Writer) error {
	roster, err := s.competitorRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load roster of event %d: %w", eventID, handleRepositoryError(err))
	}
	return export.WriteRoster(w, roster)
}

func (s *importService) create(ctx context.Context, event *models.Event, competitors []*models.Competitor) (*models.Event, error) {
	if err := s.eventRepo.Create(ctx, event, competitors); err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	s.logger.Info("event imported",
		"event_id", event.ID,
		"title", event.Title,
		"competitors", len(competitors),
		"source", derefString(event.SourceURL),
	)
	return event, nil
}

func readRoster(r io.Reader) ([]*models.Competitor, error) {
	competitors, err := export.ReadRoster(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if len(competitors) == 0 {
		return nil, fmt.Errorf("%w: roster has no competitors", ErrValidationFailed)
	}
	return competitors, nil
}
