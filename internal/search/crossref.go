package search

import (
	"strings"

	"github.com/helixir/scholar-directory/internal/domain"
)

// EnrichedPublication is a publication augmented with its resolved co-author
// researcher references. The references are display/navigation pointers into
// the session snapshot, not ownership.
type EnrichedPublication struct {
	domain.Publication

	// Researchers is the ordered sequence of associated researcher records:
	// the owner plus every snapshot researcher whose display name appears
	// in the authors string.
	Researchers []*domain.Researcher

	// Score is the fuzzy-match relevance when a query produced this
	// publication; zero for pure filter traversals.
	Score float64
}

// CrossReference associates each publication with the full set of matching
// researcher records, not merely its primary owner. Candidates come from the
// entire snapshot rather than the filtered sets, so co-authors from other
// departments or search-excluded sets still display and link on a shared
// publication.
//
// A researcher is associated when its identifier equals the publication's
// owning-researcher identifier, or its display name is a substring of any
// comma-separated author token (case-insensitive).
func CrossReference(publications []ScoredPublication, snapshot []domain.Researcher) []EnrichedPublication {
	enriched := make([]EnrichedPublication, 0, len(publications))
	for _, sp := range publications {
		enriched = append(enriched, EnrichedPublication{
			Publication: sp.Publication,
			Researchers: associatedResearchers(&sp.Publication, snapshot),
			Score:       sp.Score,
		})
	}
	return enriched
}

func associatedResearchers(p *domain.Publication, snapshot []domain.Researcher) []*domain.Researcher {
	tokens := authorTokens(p.Authors)

	var associated []*domain.Researcher
	for i := range snapshot {
		r := &snapshot[i]
		if r.ID == p.OwnerID {
			associated = append(associated, r)
			continue
		}

		display := strings.ToLower(r.DisplayName())
		if display == "" {
			continue
		}
		for _, token := range tokens {
			if strings.Contains(token, display) {
				associated = append(associated, r)
				break
			}
		}
	}
	return associated
}

// authorTokens splits the free-text authors string on commas and lowercases
// each trimmed token.
func authorTokens(authors string) []string {
	parts := strings.Split(authors, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, strings.ToLower(t))
		}
	}
	return tokens
}
