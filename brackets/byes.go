package brackets

import (
	"sort"

	"github.com/Dosada05/bracket-builder/models"
)

// maxRebalancePasses bounds the detect/rebuild loop. Empty slots never move
// during a rebuild, so the bye pairs found before a pass are still the bye
// pairs after it and the loop settles on its first pass.
const maxRebalancePasses = 4

// Placement is the round-1 slot array. A nil entry is an empty slot; slots
// 2k and 2k+1 are siblings and meet in the same match.
type Placement []*models.Competitor

// ByeSlots returns, left to right, the occupied slots whose sibling is empty.
func (p Placement) ByeSlots() []int {
	var slots []int
	for k := 0; k+1 < len(p); k += 2 {
		left, right := p[k], p[k+1]
		switch {
		case left != nil && right == nil:
			slots = append(slots, k)
		case left == nil && right != nil:
			slots = append(slots, k+1)
		}
	}
	return slots
}

// ByeRecipients returns the competitors that advance without playing.
func (p Placement) ByeRecipients() []*models.Competitor {
	slots := p.ByeSlots()
	recipients := make([]*models.Competitor, len(slots))
	for i, s := range slots {
		recipients[i] = p[s]
	}
	return recipients
}

// TopSeedsHaveByes reports whether the byes go to exactly seeds 1..byes.
func (p Placement) TopSeedsHaveByes(byes int) bool {
	recipients := p.ByeRecipients()
	if len(recipients) != byes {
		return false
	}
	seen := make(map[int]bool, byes)
	for _, c := range recipients {
		if c.Seed < 1 || c.Seed > byes || seen[c.Seed] {
			return false
		}
		seen[c.Seed] = true
	}
	return true
}

// ResolveByes places ranked competitors (ranked[i].Seed == i+1) into a
// bracket whose slot priority is order, then moves the best seeds onto the
// slots that receive byes until the placement gives the byes to seeds
// 1..byes. Each pass builds a fresh Placement.
func ResolveByes(ranked []*models.Competitor, order []int, byes int) Placement {
	placement := placeNaive(ranked, order)
	for pass := 0; pass < maxRebalancePasses && !placement.TopSeedsHaveByes(byes); pass++ {
		placement = rebalance(placement, ranked, order)
	}
	return placement
}

// placeNaive puts seed i at slot order[i-1]; slots order[N:] stay empty.
func placeNaive(ranked []*models.Competitor, order []int) Placement {
	placement := make(Placement, len(order))
	for i, c := range ranked {
		placement[order[i]] = c
	}
	return placement
}

// rebalance keeps the empty slots of current, gives its bye slots (taken in
// order priority) to the best seeds and fills every other occupied slot with
// the remaining seeds in order priority.
func rebalance(current Placement, ranked []*models.Competitor, order []int) Placement {
	priority := make(map[int]int, len(order))
	for i, slot := range order {
		priority[slot] = i
	}

	byeSlots := current.ByeSlots()
	sort.Slice(byeSlots, func(i, j int) bool {
		return priority[byeSlots[i]] < priority[byeSlots[j]]
	})
	reserved := make(map[int]bool, len(byeSlots))
	for _, s := range byeSlots {
		reserved[s] = true
	}

	next := make(Placement, len(current))
	rank := 0
	for _, s := range byeSlots {
		if rank == len(ranked) {
			break
		}
		next[s] = ranked[rank]
		rank++
	}
	for _, s := range order {
		if rank == len(ranked) {
			break
		}
		if current[s] == nil || reserved[s] {
			continue
		}
		next[s] = ranked[rank]
		rank++
	}
	return next
}
