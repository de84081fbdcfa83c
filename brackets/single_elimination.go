// bracket-builder/brackets/single_elimination.go
package brackets

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/bracket-builder/models"
)

var ErrNoCompetitors = errors.New("cannot generate bracket with zero competitors")

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket seeds the competitors, gives the byes to the best seeds and
// builds every round. The same params always produce the same bracket.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	competitors := params.Competitors
	n := len(competitors)
	if n == 0 {
		return nil, ErrNoCompetitors
	}
	for i, c := range competitors {
		if c == nil {
			return nil, fmt.Errorf("competitor at position %d is nil", i+1)
		}
	}

	policy := params.Policy
	if policy == "" {
		policy = models.SeedingInsertion
	}
	ranked, err := AssignSeeds(competitors, policy)
	if err != nil {
		return nil, err
	}

	size, byes := SizeAndByes(n)
	placement := ResolveByes(ranked, SeedingOrder(size), byes)

	rounds := buildRounds(placement)
	nameRounds(rounds)
	numberMatches(rounds)

	return &Bracket{
		Category:    params.Category,
		Policy:      policy,
		Size:        size,
		Byes:        byes,
		Competitors: slices.Clone(competitors),
		Placement:   placement,
		Rounds:      rounds,
	}, nil
}
