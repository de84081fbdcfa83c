package brackets

import "math/bits"

// SizeAndByes returns the smallest power of two that holds n competitors and
// the number of empty slots left over. n must be at least 1; an empty
// category is rejected by the caller before a bracket is built.
func SizeAndByes(n int) (size, byes int) {
	if n < 1 {
		return 0, 0
	}
	size = 1 << bits.Len(uint(n-1))
	return size, size - n
}

// roundCount is the number of rounds a bracket of the given size plays.
func roundCount(size int) int {
	if size < 2 {
		return 0
	}
	return bits.Len(uint(size - 1))
}
