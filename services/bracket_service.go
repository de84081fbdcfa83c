package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/models"
)

// maxConcurrentCategories bounds GenerateAll.
const maxConcurrentCategories = 8

// Broadcaster pushes messages to display rooms. *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(room string, message any) int
}

type BracketGeneratedPayload struct {
	EventID int               `json:"event_id"`
	Bracket *brackets.Bracket `json:"bracket"`
}

type BracketService interface {
	// Generate builds the bracket of one category of an event.
	Generate(ctx context.Context, eventID int, sel models.Selection, policy models.SeedingPolicy) (*brackets.Bracket, error)
	// Display builds the bracket like Generate and pushes it to the event's
	// display room. It returns how many screens it was queued for.
	Display(ctx context.Context, eventID int, sel models.Selection, policy models.SeedingPolicy) (*brackets.Bracket, int, error)
	// GenerateAll builds the bracket of every populated category, in
	// category order.
	GenerateAll(ctx context.Context, eventID int, policy models.SeedingPolicy) ([]*brackets.Bracket, error)
	// GenerateFromList builds a bracket for an ad-hoc competitor list.
	GenerateFromList(ctx context.Context, category string, competitors []*models.Competitor, policy models.SeedingPolicy) (*brackets.Bracket, error)
}

type bracketService struct {
	categories    CategoryService
	generator     brackets.BracketGenerator
	broadcaster   Broadcaster
	defaultPolicy models.SeedingPolicy
	logger        *slog.Logger
}

// NewBracketService wires bracket generation. broadcaster may be nil.
func NewBracketService(
	categories CategoryService,
	generator brackets.BracketGenerator,
	broadcaster Broadcaster,
	defaultPolicy models.SeedingPolicy,
	logger *slog.Logger,
) BracketService {
	if defaultPolicy == "" {
		defaultPolicy = models.SeedingInsertion
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		categories:    categories,
		generator:     generator,
		broadcaster:   broadcaster,
		defaultPolicy: defaultPolicy,
		logger:        logger,
	}
}

func (s *bracketService) resolvePolicy(policy models.SeedingPolicy) (models.SeedingPolicy, error) {
	if policy == "" {
		return s.defaultPolicy, nil
	}
	if !policy.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeedingPolicy, policy)
	}
	return policy, nil
}

func (s *bracketService) Generate(ctx context.Context, eventID int, sel models.Selection, policy models.SeedingPolicy) (*brackets.Bracket, error) {
	policy, err := s.resolvePolicy(policy)
	if err != nil {
		return nil, err
	}
	competitors, err := s.categories.Competitors(ctx, eventID, sel)
	if err != nil {
		return nil, err
	}

	return s.build(ctx, sel.Label(), competitors, policy)
}

func (s *bracketService) Display(ctx context.Context, eventID int, sel models.Selection, policy models.SeedingPolicy) (*brackets.Bracket, int, error) {
	b, err := s.Generate(ctx, eventID, sel, policy)
	if err != nil {
		return nil, 0, err
	}
	return b, s.notify(eventID, b), nil
}

func (s *bracketService) GenerateAll(ctx context.Context, eventID int, policy models.SeedingPolicy) ([]*brackets.Bracket, error) {
	policy, err := s.resolvePolicy(policy)
	if err != nil {
		return nil, err
	}
	roster, err := s.categories.Roster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	categories := ListCategories(roster)

	started := time.Now()
	results := make([]*brackets.Bracket, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCategories)
	for i, category := range categories {
		g.Go(func() error {
			b, err := s.build(gctx, category.Label, CategoryMembers(roster, category.Selection), policy)
			if err != nil {
				return err
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("generated all brackets of event",
		"event_id", eventID,
		"categories", len(results),
		"policy", policy,
		"duration", time.Since(started),
	)
	return results, nil
}

func (s *bracketService) GenerateFromList(ctx context.Context, category string, competitors []*models.Competitor, policy models.SeedingPolicy) (*brackets.Bracket, error) {
	policy, err := s.resolvePolicy(policy)
	if err != nil {
		return nil, err
	}
	if len(competitors) == 0 {
		return nil, ErrEmptyCategory
	}
	for i, c := range competitors {
		if c == nil || c.Name == "" {
			return nil, fmt.Errorf("%w: competitor %d has no name", ErrValidationFailed, i+1)
		}
	}
	return s.build(ctx, category, competitors, policy)
}

func (s *bracketService) build(ctx context.Context, category string, competitors []*models.Competitor, policy models.SeedingPolicy) (*brackets.Bracket, error) {
	b, err := s.generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Category:    category,
		Competitors: competitors,
		Policy:      policy,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNoCompetitors) {
			return nil, ErrEmptyCategory
		}
		return nil, fmt.Errorf("failed to generate bracket for %s: %w", category, err)
	}

	s.logger.Debug("bracket generated",
		"category", category,
		"competitors", len(competitors),
		"size", b.Size,
		"byes", b.Byes,
		"matches", len(b.NumberedMatches()),
	)
	return b, nil
}

func (s *bracketService) notify(eventID int, b *brackets.Bracket) int {
	if s.broadcaster == nil {
		return 0
	}
	room := brackets.EventRoom(eventID)
	delivered := s.broadcaster.BroadcastToRoom(room, brackets.DisplayMessage{
		Type:    brackets.MessageBracketGenerated,
		Payload: BracketGeneratedPayload{EventID: eventID, Bracket: b},
		RoomID:  room,
	})
	s.logger.Info("bracket sent to display room", "room", room, "category", b.Category, "clients", delivered)
	return delivered
}
