package gazetteer

import (
	"sort"
	"strings"
)

// corrector proposes the closest indexed key for a mistyped query.
// Preference: exact match > smallest edit distance > higher rank > closer length.
type corrector struct {
	keys  []string
	ranks map[string]int
}

func newCorrector() *corrector {
	return &corrector{ranks: make(map[string]int)}
}

func (c *corrector) add(key string, rank int) {
	if old, ok := c.ranks[key]; ok {
		if rank > old {
			c.ranks[key] = rank
		}
		return
	}
	c.keys = append(c.keys, key)
	c.ranks[key] = rank
}

type candidate struct {
	key      string
	distance int
	rank     int
	lenDiff  int
}

// Correct returns the best correction for input and whether one was applied.
func (c *corrector) Correct(input string) (string, bool) {
	runes := []rune(input)
	if len(runes) < 2 {
		return input, false
	}
	if _, ok := c.ranks[input]; ok {
		return input, false
	}

	maxDist := 1
	if len(runes) > 4 {
		maxDist = 2
	}

	var found []candidate
	for _, key := range c.keys {
		kr := []rune(key)
		if len(kr) == 0 || kr[0] != runes[0] {
			continue
		}
		d := prefixDistance(runes, kr)
		if d > maxDist {
			continue
		}
		found = append(found, candidate{
			key:      key,
			distance: d,
			rank:     c.ranks[key],
			lenDiff:  abs(len(kr) - len(runes)),
		})
	}
	if len(found) == 0 {
		return input, false
	}

	sort.Slice(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.rank != b.rank {
			return a.rank > b.rank
		}
		if a.lenDiff != b.lenDiff {
			return a.lenDiff < b.lenDiff
		}
		return a.key < b.key
	})

	best := found[0].key
	// the corrected query keeps the typed length so it still works as a prefix
	if kr := []rune(best); len(kr) > len(runes)+1 {
		best = strings.TrimSpace(string(kr[:len(runes)+1]))
	}
	return best, true
}

// prefixDistance is the smallest edit distance between query and any prefix of key
// whose length is within one rune of the query.
func prefixDistance(query, key []rune) int {
	best := levenshteinDistance(query, key)
	for l := len(query) - 1; l <= len(query)+1; l++ {
		if l <= 0 || l > len(key) {
			continue
		}
		if d := levenshteinDistance(query, key[:l]); d < best {
			best = d
		}
	}
	return best
}

func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
