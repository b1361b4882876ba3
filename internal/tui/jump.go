package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/orderview/internal/state"
)

// nearestUser returns the index of the user whose name best matches query.
// A case-insensitive prefix or substring match wins outright; otherwise the
// smallest edit distance to any word of the name, or the whole name, wins.
func nearestUser(users []state.User, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(users) == 0 {
		return -1
	}
	best, bestScore := -1, int(^uint(0)>>1)
	for i, u := range users {
		name := strings.ToLower(u.Name)
		score := levenshtein.ComputeDistance(q, name)
		for _, w := range strings.Fields(name) {
			if d := levenshtein.ComputeDistance(q, w); d < score {
				score = d
			}
		}
		switch {
		case strings.HasPrefix(name, q):
			score = -2
		case strings.Contains(name, q):
			score = -1
		}
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
