package club

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mauv0809/mus-league/internal/stats"
)

// NameMatch is a player whose name resembles a query.
type NameMatch struct {
	Player     stats.Player `json:"player"`
	Confidence float64      `json:"confidence"`
}

const (
	minNameConfidence = 0.3
	maxNameMatches    = 5
)

// MatchNames ranks players by how closely their name resembles query.
// It is used to resolve free-text names from chat commands and to warn about
// likely duplicates before creating a guest.
func MatchNames(query string, players []stats.Player) []NameMatch {
	q := normalizeName(query)
	if q == "" {
		return nil
	}
	var matches []NameMatch
	for _, p := range players {
		score := nameSimilarity(q, normalizeName(p.Name))
		if score >= minNameConfidence {
			matches = append(matches, NameMatch{Player: p, Confidence: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b NameMatch) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})
	if len(matches) > maxNameMatches {
		matches = matches[:maxNameMatches]
	}
	return matches
}

// BestName returns the closest player if it is a confident match.
func BestName(query string, players []stats.Player) (stats.Player, bool) {
	matches := MatchNames(query, players)
	if len(matches) == 0 || matches[0].Confidence < 0.8 {
		return stats.Player{}, false
	}
	return matches[0].Player, true
}

// normalizeName lowercases, strips everything but letters and collapses spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// nameSimilarity averages whole-string edit similarity with token overlap, and
// treats a prefix of the full name (a first name) as a strong match.
func nameSimilarity(q, name string) float64 {
	if q == "" || name == "" {
		return 0
	}
	if q == name {
		return 1
	}
	whole := editSimilarity(q, name)
	tokens := tokenSimilarity(q, name)
	score := (whole + tokens) / 2
	if strings.HasPrefix(name, q+" ") {
		score = max(score, 0.85)
	}
	return score
}

func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	hits := 0
	for _, x := range ta {
		for _, y := range tb {
			if editSimilarity(x, y) > 0.8 {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(max(len(ta), len(tb)))
}

func editSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

func levenshtein(a, b []rune) int {
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
