package brackets

import (
	"errors"
	"testing"

	"github.com/Dosada05/bracket-builder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roster(entries ...[2]string) []*models.Competitor {
	out := make([]*models.Competitor, len(entries))
	for i, e := range entries {
		out[i] = &models.Competitor{Name: e[0], Team: e[1]}
	}
	return out
}

func names(cs []*models.Competitor) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		if c == nil {
			out[i] = "-"
			continue
		}
		out[i] = c.Name
	}
	return out
}

func TestAssignSeedsInsertion(t *testing.T) {
	input := roster([2]string{"Ana", "Alliance"}, [2]string{"Bia", "Gracie Barra"}, [2]string{"Cris", "Alliance"})

	for _, policy := range []models.SeedingPolicy{"", models.SeedingInsertion} {
		ranked, err := AssignSeeds(input, policy)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana", "Bia", "Cris"}, names(ranked))
		for i, c := range ranked {
			assert.Equal(t, i+1, c.Seed)
		}
	}

	for _, c := range input {
		assert.Zero(t, c.Seed, "input competitor %s was modified", c.Name)
	}
}

func TestAssignSeedsTeamSpread(t *testing.T) {
	t.Run("largest team first", func(t *testing.T) {
		input := roster(
			[2]string{"A1", "Alliance"},
			[2]string{"B1", "Checkmat"},
			[2]string{"A2", "Alliance"},
			[2]string{"C1", "Atos"},
			[2]string{"A3", "Alliance"},
			[2]string{"B2", "Checkmat"},
		)
		ranked, err := AssignSeeds(input, models.SeedingTeamSpread)
		require.NoError(t, err)
		assert.Equal(t, []string{"A1", "B1", "C1", "A2", "B2", "A3"}, names(ranked))
		for i, c := range ranked {
			assert.Equal(t, i+1, c.Seed)
		}
	})

	t.Run("ties keep first appearance and blank team groups together", func(t *testing.T) {
		input := roster(
			[2]string{"X1", "Nova Uniao"},
			[2]string{"U1", ""},
			[2]string{"Y1", "Soul Fighters"},
			[2]string{"U2", ""},
		)
		ranked, err := AssignSeeds(input, models.SeedingTeamSpread)
		require.NoError(t, err)
		assert.Equal(t, []string{"U1", "X1", "Y1", "U2"}, names(ranked))
	})

	t.Run("single team keeps input order", func(t *testing.T) {
		input := roster([2]string{"P1", "GF Team"}, [2]string{"P2", "GF Team"}, [2]string{"P3", "GF Team"})
		ranked, err := AssignSeeds(input, models.SeedingTeamSpread)
		require.NoError(t, err)
		assert.Equal(t, []string{"P1", "P2", "P3"}, names(ranked))
	})
}

func TestAssignSeedsUnknownPolicy(t *testing.T) {
	_, err := AssignSeeds(roster([2]string{"Ana", ""}), "by-weight")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSeedingPolicy))
}
