package brackets

import (
	"fmt"
	"slices"
)

// SeedingOrder returns the slot occupied by each seed rank, best seed first,
// for a bracket of n slots. Seeds 1 and 2 can only meet in the final, seeds
// 1-4 only in the semifinals, and so on. n must be a power of two.
func SeedingOrder(n int) []int {
	if n <= 0 || n&(n-1) != 0 {
		panic(fmt.Sprintf("brackets: seeding order requested for %d slots, want a power of two", n))
	}
	if cached, ok := seedingTables[n]; ok {
		return slices.Clone(cached)
	}
	return seedingOrder(n)
}

func seedingOrder(n int) []int {
	switch n {
	case 1:
		return []int{0}
	case 2:
		return []int{0, 1}
	}
	return expandSeedingOrder(seedingOrder(n / 2))
}

// expandSeedingOrder doubles an order: every slot p of the half-size order is
// followed by its mirror in the full-size bracket.
func expandSeedingOrder(half []int) []int {
	n := len(half) * 2
	order := make([]int, 0, n)
	for _, p := range half {
		order = append(order, p, n-1-p)
	}
	return order
}
