package services

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/repositories"
)

type CategoryService interface {
	// Roster returns every competitor of the event in registration order.
	Roster(ctx context.Context, eventID int) ([]*models.Competitor, error)
	// Options lists the values still selectable for each dimension given the
	// dimensions already chosen in sel.
	Options(ctx context.Context, eventID int, sel models.Selection) (*models.CategoryOptions, error)
	// Competitors returns the category's competitors in registration order.
	Competitors(ctx context.Context, eventID int, sel models.Selection) ([]*models.Competitor, error)
	// Categories lists every populated category of the event.
	Categories(ctx context.Context, eventID int) ([]models.Category, error)
}

type categoryService struct {
	competitorRepo repositories.CompetitorRepository
}

func NewCategoryService(competitorRepo repositories.CompetitorRepository) CategoryService {
	return &categoryService{competitorRepo: competitorRepo}
}

func (s *categoryService) Roster(ctx context.Context, eventID int) ([]*models.Competitor, error) {
	roster, err := s.competitorRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster of event %d: %w", eventID, handleRepositoryError(err))
	}
	return roster, nil
}

func (s *categoryService) Options(ctx context.Context, eventID int, sel models.Selection) (*models.CategoryOptions, error) {
	roster, err := s.Roster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	opts := OptionsFor(roster, sel)
	return &opts, nil
}

func (s *categoryService) Competitors(ctx context.Context, eventID int, sel models.Selection) ([]*models.Competitor, error) {
	if !sel.Complete() {
		return nil, ErrInvalidSelection
	}
	roster, err := s.Roster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	competitors := CategoryMembers(roster, sel)
	if len(competitors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCategory, sel.Label())
	}
	return competitors, nil
}

func (s *categoryService) Categories(ctx context.Context, eventID int) ([]models.Category, error) {
	roster, err := s.Roster(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ListCategories(roster), nil
}

// OptionsFor builds the cascade: genders from the whole roster, belts within
// the chosen gender, age divisions within gender and belt, weight divisions
// within all three.
func OptionsFor(roster []*models.Competitor, sel models.Selection) models.CategoryOptions {
	var opts models.CategoryOptions

	opts.Genders = distinct(roster, func(c *models.Competitor) string { return c.Gender })

	pool := FilterCompetitors(roster, models.Selection{Gender: sel.Gender})
	opts.Belts = distinct(pool, func(c *models.Competitor) string { return c.Belt })

	pool = FilterCompetitors(pool, models.Selection{Belt: sel.Belt})
	opts.AgeDivisions = distinct(pool, func(c *models.Competitor) string { return c.AgeDivision })

	pool = FilterCompetitors(pool, models.Selection{AgeDivision: sel.AgeDivision})
	opts.WeightDivisions = distinct(pool, func(c *models.Competitor) string { return c.WeightDivision })

	return opts
}

// FilterCompetitors keeps the competitors matching every set field of sel,
// preserving order.
func FilterCompetitors(roster []*models.Competitor, sel models.Selection) []*models.Competitor {
	out := make([]*models.Competitor, 0, len(roster))
	for _, c := range roster {
		if sel.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// CategoryMembers keeps the competitors registered exactly in category sel,
// preserving order. Unlike FilterCompetitors, a blank field of sel only
// matches a blank attribute.
func CategoryMembers(roster []*models.Competitor, sel models.Selection) []*models.Competitor {
	out := make([]*models.Competitor, 0)
	for _, c := range roster {
		if models.CategoryOf(c) == sel {
			out = append(out, c)
		}
	}
	return out
}

// ListCategories groups the roster into populated categories sorted by
// gender, belt, age division and weight division.
func ListCategories(roster []*models.Competitor) []models.Category {
	counts := make(map[models.Selection]int)
	for _, c := range roster {
		counts[models.CategoryOf(c)]++
	}

	categories := make([]models.Category, 0, len(counts))
	for sel, n := range counts {
		categories = append(categories, models.Category{Selection: sel, Label: sel.Label(), CompetitorCount: n})
	}
	sort.Slice(categories, func(i, j int) bool {
		a, b := categories[i].Selection, categories[j].Selection
		switch {
		case a.Gender != b.Gender:
			return a.Gender < b.Gender
		case a.Belt != b.Belt:
			return a.Belt < b.Belt
		case a.AgeDivision != b.AgeDivision:
			return a.AgeDivision < b.AgeDivision
		default:
			return a.WeightDivision < b.WeightDivision
		}
	})
	return categories
}

func distinct(roster []*models.Competitor, field func(*models.Competitor) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, c := range roster {
		v := field(c)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}
