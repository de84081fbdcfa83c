package brackets

import (
	"context"

	"github.com/Dosada05/bracket-builder/models"
)

type GenerateBracketParams struct {
	Category    string
	Competitors []*models.Competitor
	Policy      models.SeedingPolicy
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}
