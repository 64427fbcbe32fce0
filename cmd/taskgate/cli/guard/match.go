package guard

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Score weights: an exact list-name match must always outrank a prefix match,
// and identifiers closer to the path leaf outrank ancestor directories. So
// .../platform/platform-alumia resolves to platform-alumia-dev over a
// coincidental list named platform-foo.
const (
	exactMatchWeight  = 100
	prefixMatchWeight = 10
)

// IsCanonicalListName reports whether a list name is an auto-generated
// identifier (hyphen-grouped 8-4-4-4-12 hex). Such names carry no project
// semantics and are excluded from name-based matching.
func IsCanonicalListName(name string) bool {
	const canonicalLen = 36
	return len(name) == canonicalLen && uuid.Validate(name) == nil
}

// RankLists scores the stored list names against the project identifiers and
// returns the matching names in descending score order. Ties keep the
// original enumeration order. Canonical (auto-generated) names and lists
// that match no identifier are dropped.
func RankLists(lists []string, identifiers []string) []string {
	if len(identifiers) == 0 {
		return nil
	}

	type scored struct {
		name  string
		score int
		order int
	}

	var candidates []scored
	for order, name := range lists {
		if IsCanonicalListName(name) {
			continue
		}
		score := matchScore(name, identifiers)
		if score > 0 {
			candidates = append(candidates, scored{name: name, score: score, order: order})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	ranked := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, c.name)
	}
	return ranked
}

// matchScore returns the best score of a list name over all identifiers.
// Identifier position feeds the weight so leaf-most identifiers dominate.
func matchScore(name string, identifiers []string) int {
	lowerName := strings.ToLower(name)

	best := 0
	for i, id := range identifiers {
		priorityWeight := len(identifiers) - i
		lowerID := strings.ToLower(id)

		var score int
		switch {
		case lowerName == lowerID:
			score = priorityWeight * exactMatchWeight
		case strings.HasPrefix(lowerName, lowerID+"-"):
			score = priorityWeight * prefixMatchWeight
		}
		if score > best {
			best = score
		}
	}
	return best
}
