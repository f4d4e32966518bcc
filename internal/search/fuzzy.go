package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Fuzzy matching policy.
const (
	// MatchThreshold is the minimum similarity for a match to be retained,
	// tolerating roughly 30% dissimilarity.
	MatchThreshold = 0.7

	// MinQueryLength is the minimum query length for fuzzy matching.
	// Shorter queries match nothing.
	MinQueryLength = 2
)

// Field weights for the researcher and publication matchers. The best
// weighted field score decides whether an item clears the threshold.
const (
	weightDisplayName = 1.0
	weightNamePart    = 0.85

	weightTitle    = 1.0
	weightKeywords = 0.95
	weightAbstract = 0.9
)

// ScoredResearcher pairs a researcher with its match relevance.
type ScoredResearcher struct {
	Researcher domain.Researcher
	Score      float64
}

// ScoredPublication pairs a publication with its match relevance.
type ScoredPublication struct {
	Publication domain.Publication
	Score       float64
}

// MatchResearchers scores candidates against the query over the weighted
// name fields and retains those at or above the threshold, in descending
// relevance order. Queries shorter than MinQueryLength match nothing.
func MatchResearchers(candidates []domain.Researcher, query string) []ScoredResearcher {
	query = normalizeQuery(query)
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	matches := make([]ScoredResearcher, 0, len(candidates))
	for _, r := range candidates {
		score := weightDisplayName * similarity(query, r.DisplayName())
		if s := weightNamePart * similarity(query, r.FirstName); s > score {
			score = s
		}
		if s := weightNamePart * similarity(query, r.LastName); s > score {
			score = s
		}

		if score >= MatchThreshold {
			matches = append(matches, ScoredResearcher{Researcher: r, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// MatchPublications scores candidates against the query over title, abstract,
// and keywords under the same threshold and minimum-length policy.
func MatchPublications(candidates []domain.Publication, query string) []ScoredPublication {
	query = normalizeQuery(query)
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	matches := make([]ScoredPublication, 0, len(candidates))
	for _, p := range candidates {
		score := weightTitle * similarity(query, p.Title)
		if s := weightKeywords * similarity(query, strings.Join(p.Keywords.Tokens(), " ")); s > score {
			score = s
		}
		if s := weightAbstract * similarity(query, p.Abstract); s > score {
			score = s
		}

		if score >= MatchThreshold {
			matches = append(matches, ScoredPublication{Publication: p, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// similarity returns a normalized edit-distance score in [0, 1] for the
// query against a text field. The whole query is compared against the full
// text and against every token window of the query's width; the best window
// wins. A full containment of the query scores 1.
func similarity(query, text string) float64 {
	text = strings.ToLower(strings.TrimSpace(text))
	if query == "" || text == "" {
		return 0
	}
	if query == text || strings.Contains(text, query) {
		return 1
	}

	best := editSimilarity(query, text)

	// Slide a window of the query's token width across the text so a query
	// can match a phrase inside a long abstract without being penalized for
	// the abstract's full length.
	queryTokens := strings.Fields(query)
	textTokens := strings.Fields(text)
	width := len(queryTokens)
	if width > 0 && len(textTokens) > width {
		for i := 0; i+width <= len(textTokens); i++ {
			window := strings.Join(textTokens[i:i+width], " ")
			if s := editSimilarity(query, window); s > best {
				best = s
			}
		}
	}

	return best
}

// editSimilarity converts Levenshtein distance into a similarity in [0, 1].
func editSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
