package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-builder/models"
)

type Match struct {
	UID          string `json:"uid"`
	Round        int    `json:"round"`
	OrderInRound int    `json:"order_in_round"`

	Competitor1 *models.Competitor `json:"competitor1,omitempty"`
	Competitor2 *models.Competitor `json:"competitor2,omitempty"`
	Winner      *models.Competitor `json:"winner,omitempty"`

	// Number is 0 for byes and for matches still waiting on a feeding match.
	Number int `json:"number,omitempty"`

	SourceMatch1UID *string `json:"source_match1_uid,omitempty"`
	SourceMatch2UID *string `json:"source_match2_uid,omitempty"`

	IsBye bool `json:"is_bye"`
}

// HasBothCompetitors reports whether both sides of the match are known.
func (m *Match) HasBothCompetitors() bool {
	return m.Competitor1 != nil && m.Competitor2 != nil
}

// IsReal reports whether the match must be fought: both sides known and no
// winner yet.
func (m *Match) IsReal() bool {
	return m.HasBothCompetitors() && m.Winner == nil
}

type Round struct {
	Number  int      `json:"number"`
	Name    string   `json:"name"`
	Matches []*Match `json:"matches"`
}

// Participants is the number of competitor slots in the round.
func (r *Round) Participants() int {
	return len(r.Matches) * 2
}

// buildRounds turns a placement into rounds. Round 1 pairs sibling slots;
// each later round pairs the winners of consecutive matches of the round
// before, leaving a side empty when its feeding match is undecided.
func buildRounds(placement Placement) []*Round {
	if len(placement) < 2 {
		return nil
	}

	first := &Round{Number: 1, Matches: make([]*Match, 0, len(placement)/2)}
	for i := 0; i+1 < len(placement); i += 2 {
		m := newMatch(1, len(first.Matches)+1)
		m.Competitor1 = placement[i]
		m.Competitor2 = placement[i+1]

		if m.Competitor1 != nil && m.Competitor2 == nil {
			m.IsBye = true
			m.Winner = m.Competitor1
		} else if m.Competitor2 != nil && m.Competitor1 == nil {
			m.IsBye = true
			m.Winner = m.Competitor2
		}
		first.Matches = append(first.Matches, m)
	}

	rounds := []*Round{first}
	for current := first; len(current.Matches) > 1; {
		next := &Round{Number: current.Number + 1, Matches: make([]*Match, 0, len(current.Matches)/2)}
		for j := 0; j+1 < len(current.Matches); j += 2 {
			feed1, feed2 := current.Matches[j], current.Matches[j+1]

			m := newMatch(next.Number, len(next.Matches)+1)
			m.Competitor1 = feed1.Winner
			m.Competitor2 = feed2.Winner
			m.SourceMatch1UID = stringPtr(feed1.UID)
			m.SourceMatch2UID = stringPtr(feed2.UID)
			next.Matches = append(next.Matches, m)
		}
		rounds = append(rounds, next)
		current = next
	}
	return rounds
}

func newMatch(round, orderInRound int) *Match {
	return &Match{
		UID:          fmt.Sprintf("R%dM%d", round, orderInRound),
		Round:        round,
		OrderInRound: orderInRound,
	}
}

func stringPtr(s string) *string {
	return &s
}
