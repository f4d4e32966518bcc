package search

import (
	"sort"

	"github.com/helixir/scholar-directory/internal/domain"
)

// SortOrder selects the ordering applied after deduplication.
type SortOrder string

const (
	// SortRelevance preserves the incoming order (fuzzy-match or filter
	// traversal order).
	SortRelevance SortOrder = "relevance"

	SortYearDesc      SortOrder = "year_desc"
	SortYearAsc       SortOrder = "year_asc"
	SortCitationsDesc SortOrder = "citations_desc"
	SortCitationsAsc  SortOrder = "citations_asc"
)

// Valid reports whether the sort order is one of the supported values.
func (o SortOrder) Valid() bool {
	switch o {
	case SortRelevance, SortYearDesc, SortYearAsc, SortCitationsDesc, SortCitationsAsc:
		return true
	default:
		return false
	}
}

// Dedup removes duplicate publications by case-insensitive exact title
// match. The first occurrence in traversal order wins. Publications with an
// empty or missing title are dropped entirely: title is the admission key.
// Running Dedup on its own output is a no-op.
func Dedup(publications []EnrichedPublication) []EnrichedPublication {
	seen := make(map[string]struct{}, len(publications))
	out := make([]EnrichedPublication, 0, len(publications))

	for _, p := range publications {
		key := p.NormalizedTitle()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Sort orders the deduplicated set. Sorting is stable: ties retain their
// prior relative order, so relevance ordering survives within equal keys.
// Unparseable year and citation fields compare as zero.
func Sort(publications []EnrichedPublication, order SortOrder) {
	switch order {
	case SortYearDesc:
		sort.SliceStable(publications, func(i, j int) bool {
			return domain.NumericOrZero(publications[i].Year) > domain.NumericOrZero(publications[j].Year)
		})
	case SortYearAsc:
		sort.SliceStable(publications, func(i, j int) bool {
			return domain.NumericOrZero(publications[i].Year) < domain.NumericOrZero(publications[j].Year)
		})
	case SortCitationsDesc:
		sort.SliceStable(publications, func(i, j int) bool {
			return domain.NumericOrZero(publications[i].Citations) > domain.NumericOrZero(publications[j].Citations)
		})
	case SortCitationsAsc:
		sort.SliceStable(publications, func(i, j int) bool {
			return domain.NumericOrZero(publications[i].Citations) < domain.NumericOrZero(publications[j].Citations)
		})
	case SortRelevance:
		// No-op: preserve fuzzy-match or filter order.
	}
}
