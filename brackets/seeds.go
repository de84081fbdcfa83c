package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-builder/models"
)

var ErrUnknownSeedingPolicy = errors.New("unknown seeding policy")

// AssignSeeds ranks competitors 1..N under the given policy. The input is not
// modified: every ranked competitor is a copy carrying its Seed. An empty
// policy selects models.SeedingInsertion.
func AssignSeeds(competitors []*models.Competitor, policy models.SeedingPolicy) ([]*models.Competitor, error) {
	var drawn []*models.Competitor
	switch policy {
	case "", models.SeedingInsertion:
		drawn = competitors
	case models.SeedingTeamSpread:
		drawn = teamSpreadOrder(competitors)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeedingPolicy, policy)
	}

	ranked := make([]*models.Competitor, len(drawn))
	for i, c := range drawn {
		seeded := *c
		seeded.Seed = i + 1
		ranked[i] = &seeded
	}
	return ranked, nil
}

// teamSpreadOrder draws one competitor per team per pass. Teams are visited
// largest first; equal-sized teams keep the order in which they first appear.
func teamSpreadOrder(competitors []*models.Competitor) []*models.Competitor {
	var teams []string
	byTeam := make(map[string][]*models.Competitor)
	for _, c := range competitors {
		if _, seen := byTeam[c.Team]; !seen {
			teams = append(teams, c.Team)
		}
		byTeam[c.Team] = append(byTeam[c.Team], c)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return len(byTeam[teams[i]]) > len(byTeam[teams[j]])
	})

	drawn := make([]*models.Competitor, 0, len(competitors))
	for pass := 0; len(drawn) < len(competitors); pass++ {
		for _, team := range teams {
			if members := byTeam[team]; pass < len(members) {
				drawn = append(drawn, members[pass])
			}
		}
	}
	return drawn
}
