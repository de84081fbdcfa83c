package brackets

import (
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-builder/models"
)

var ErrInvalidBracket = errors.New("invalid bracket structure")

// Bracket is the initial structure of one category. It is built once and not
// changed afterwards; recording results is up to whoever consumes it.
type Bracket struct {
	Category string               `json:"category"`
	Policy   models.SeedingPolicy `json:"policy"`
	Size     int                  `json:"size"`
	Byes     int                  `json:"byes"`

	// Competitors is the input list in its original order.
	Competitors []*models.Competitor `json:"competitors"`
	// Placement holds the seeded competitors in round-1 slot order.
	Placement Placement `json:"placement"`
	Rounds    []*Round  `json:"rounds"`
}

// Champion returns the sole competitor of a one-competitor category, or the
// winner of the final once it is known.
func (b *Bracket) Champion() *models.Competitor {
	if len(b.Rounds) == 0 {
		if len(b.Placement) == 1 {
			return b.Placement[0]
		}
		return nil
	}
	final := b.Rounds[len(b.Rounds)-1]
	if len(final.Matches) != 1 {
		return nil
	}
	return final.Matches[0].Winner
}

// NumberedMatches returns the matches with a number, in number order.
func (b *Bracket) NumberedMatches() []*Match {
	var matches []*Match
	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if m.Number > 0 {
				matches = append(matches, m)
			}
		}
	}
	return matches
}

// Match looks a match up by UID.
func (b *Bracket) Match(uid string) *Match {
	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if m.UID == uid {
				return m
			}
		}
	}
	return nil
}

// Validate checks the structural invariants every consumer relies on.
func (b *Bracket) Validate() error {
	n := len(b.Competitors)
	size, byes := SizeAndByes(n)
	if n == 0 {
		return fmt.Errorf("%w: no competitors", ErrInvalidBracket)
	}
	if b.Size != size || b.Byes != byes || len(b.Placement) != size {
		return fmt.Errorf("%w: size %d with %d byes and %d slots for %d competitors",
			ErrInvalidBracket, b.Size, b.Byes, len(b.Placement), n)
	}
	if size > 1 && byes*2 >= size {
		return fmt.Errorf("%w: %d byes in a bracket of %d", ErrInvalidBracket, byes, size)
	}

	seeds := make(map[int]bool, n)
	for _, c := range b.Placement {
		if c == nil {
			continue
		}
		if c.Seed < 1 || c.Seed > n || seeds[c.Seed] {
			return fmt.Errorf("%w: seed %d out of range or repeated", ErrInvalidBracket, c.Seed)
		}
		seeds[c.Seed] = true
	}
	if len(seeds) != n {
		return fmt.Errorf("%w: %d of %d competitors placed", ErrInvalidBracket, len(seeds), n)
	}
	if !b.Placement.TopSeedsHaveByes(byes) {
		return fmt.Errorf("%w: byes do not go to seeds 1..%d", ErrInvalidBracket, byes)
	}

	if len(b.Rounds) != roundCount(size) {
		return fmt.Errorf("%w: %d rounds for a bracket of %d", ErrInvalidBracket, len(b.Rounds), size)
	}
	next := 1
	for k, r := range b.Rounds {
		if want := size >> (k + 1); len(r.Matches) != want {
			return fmt.Errorf("%w: round %d has %d matches, want %d", ErrInvalidBracket, k+1, len(r.Matches), want)
		}
		for _, m := range r.Matches {
			if k == 0 && m.Competitor1 == nil && m.Competitor2 == nil {
				return fmt.Errorf("%w: match %s has no competitors", ErrInvalidBracket, m.UID)
			}
			switch {
			case m.IsReal() && m.Number != next:
				return fmt.Errorf("%w: match %s numbered %d, want %d", ErrInvalidBracket, m.UID, m.Number, next)
			case m.IsReal():
				next++
			case m.Number != 0:
				return fmt.Errorf("%w: match %s is numbered but not fought", ErrInvalidBracket, m.UID)
			}
		}
	}
	return nil
}
