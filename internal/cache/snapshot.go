// Package cache holds the per-session in-memory snapshot of researchers and
// publications and derives the facet domains the filter engine offers.
//
// The snapshot is fetched once per session through the bulk data reader and
// is immutable afterwards: every pipeline stage operates on filtered views,
// never mutating the canonical collections. A failed fetch leaves any prior
// snapshot untouched so the user can retry.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Facet domain fallbacks when no publication carries a parseable value.
const (
	// DefaultYearMin is the lower year bound when no year parses.
	DefaultYearMin = 1950

	// DefaultCitationMax is the upper citation bound when no count parses.
	DefaultCitationMax = 1000
)

// BulkReader is the full-collection read contract this cache consumes. The
// storage layer implements it with full-table-scan semantics; filtering
// happens downstream, in memory.
type BulkReader interface {
	ListAllResearchers(ctx context.Context) ([]domain.Researcher, error)
	ListAllPublications(ctx context.Context) ([]domain.Publication, error)
}

// Snapshot is the frozen session dataset plus its derived facet domain.
type Snapshot struct {
	// Researchers is the canonical researcher collection.
	Researchers []domain.Researcher

	// Publications is the canonical publication collection.
	Publications []domain.Publication

	// LoadedAt records when the bulk fetch completed.
	LoadedAt time.Time

	facets FacetDomain
}

// FacetDomain describes the value space the facet filters draw from,
// derived from the full cached publication set.
type FacetDomain struct {
	// Journals is the sorted, deduplicated list of non-blank journal names.
	Journals []string

	// Keywords is the sorted, deduplicated keyword vocabulary.
	Keywords []string

	// YearMin and YearMax bound the parseable publication years.
	YearMin int
	YearMax int

	// CitationMin and CitationMax bound the parseable citation counts.
	CitationMin int
	CitationMax int
}

// FacetDomain returns the facet domain derived at load time.
func (s *Snapshot) FacetDomain() FacetDomain {
	return s.facets
}

// ResearcherByID returns the researcher with the given identifier, or nil.
func (s *Snapshot) ResearcherByID(id string) *domain.Researcher {
	for i := range s.Researchers {
		if s.Researchers[i].ID == id {
			return &s.Researchers[i]
		}
	}
	return nil
}

// Cache owns the session snapshot. Load is write-once: concurrent and
// repeated calls after a successful fetch return the same snapshot. Before
// the first successful fetch callers see ErrFetchFailure-wrapped errors and
// retry by resubmitting.
type Cache struct {
	reader BulkReader
	logger zerolog.Logger

	mu   sync.Mutex
	snap *Snapshot
}

// New creates a Cache backed by the given bulk reader.
func New(reader BulkReader, logger zerolog.Logger) *Cache {
	return &Cache{
		reader: reader,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

// Snapshot returns the session snapshot, performing the one bulk fetch on
// first use. On fetch failure the prior snapshot (if any) is preserved and
// the error surfaces as a FetchError.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil {
		return c.snap, nil
	}
	return c.loadLocked(ctx)
}

// Reload discards the current snapshot and fetches a fresh one. A failed
// reload keeps the previous snapshot usable.
func (c *Cache) Reload(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap, err := c.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Loaded reports whether a snapshot is available without triggering a fetch.
func (c *Cache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap != nil
}

func (c *Cache) loadLocked(ctx context.Context) (*Snapshot, error) {
	researchers, err := c.reader.ListAllResearchers(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("bulk researcher fetch failed")
		return nil, domain.NewFetchError("researchers", err)
	}

	publications, err := c.reader.ListAllPublications(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("bulk publication fetch failed")
		return nil, domain.NewFetchError("publications", err)
	}

	snap := &Snapshot{
		Researchers:  researchers,
		Publications: publications,
		LoadedAt:     time.Now().UTC(),
		facets:       deriveFacets(publications, time.Now().Year()),
	}
	c.snap = snap

	c.logger.Info().
		Int("researchers", len(researchers)).
		Int("publications", len(publications)).
		Int("journals", len(snap.facets.Journals)).
		Int("keywords", len(snap.facets.Keywords)).
		Msg("session snapshot loaded")

	return snap, nil
}

// deriveFacets computes the facet domain from the full publication set.
// The derivation is pure and idempotent over the same inputs.
func deriveFacets(publications []domain.Publication, currentYear int) FacetDomain {
	journalSet := make(map[string]struct{})
	keywordSet := make(map[string]struct{})

	yearMin, yearMax := 0, 0
	haveYear := false
	citationMax := 0
	haveCitations := false

	for i := range publications {
		p := &publications[i]

		if j := p.Journal; j != "" {
			journalSet[j] = struct{}{}
		}

		for _, kw := range p.Keywords.Tokens() {
			keywordSet[kw] = struct{}{}
		}

		if year, ok := domain.ParseNumeric(p.Year); ok {
			if !haveYear {
				yearMin, yearMax = year, year
				haveYear = true
			} else {
				if year < yearMin {
					yearMin = year
				}
				if year > yearMax {
					yearMax = year
				}
			}
		}

		if count, ok := domain.ParseNumeric(p.Citations); ok {
			haveCitations = true
			if count > citationMax {
				citationMax = count
			}
		}
	}

	if !haveYear {
		yearMin, yearMax = DefaultYearMin, currentYear
	}
	if !haveCitations {
		citationMax = DefaultCitationMax
	}

	journals := make([]string, 0, len(journalSet))
	for j := range journalSet {
		journals = append(journals, j)
	}
	sort.Strings(journals)

	keywords := make([]string, 0, len(keywordSet))
	for k := range keywordSet {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	return FacetDomain{
		Journals:    journals,
		Keywords:    keywords,
		YearMin:     yearMin,
		YearMax:     yearMax,
		CitationMin: 0,
		CitationMax: citationMax,
	}
}
