package search

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/domain"
)

// State tracks a single search invocation through its lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateLoading     State = "loading"
	StateSuccess     State = "success"
	StateEmptyResult State = "empty_result"
	StateFailure     State = "failure"
)

// Request describes one search invocation.
type Request struct {
	// Query is the free-text query. Empty means facet/department browsing.
	Query string

	// DepartmentID restricts researcher candidates (and publications to
	// those researchers' subcollections) when non-empty.
	DepartmentID string

	// Filters is the structured facet selection, synchronously passed so
	// the engine never reads mutable shared filter state mid-invocation.
	Filters FilterSet

	// Sort selects the result ordering. Zero value means relevance.
	Sort SortOrder
}

// Result is the outcome of a successful pipeline run. Page is always reset
// to 1 and CollapseAbstracts instructs the presentation layer to close any
// expanded abstract panels.
type Result struct {
	Researchers  []ScoredResearcher
	Publications []EnrichedPublication

	// ActiveFilters is the display record of the facets that constrained
	// this invocation.
	ActiveFilters []domain.ActiveFilter

	// Page is the pagination reset target, always 1.
	Page int

	// CollapseAbstracts is always true on success.
	CollapseAbstracts bool

	// Empty reports a successful run with zero researchers and zero
	// publications.
	Empty bool

	// Duration is the pipeline execution time.
	Duration time.Duration
}

// Session is the explicit per-user search context: the identity descriptor,
// the write-once data cache, and the invocation state. It replaces the
// ambient mutable globals of a browser session with a value passed into
// every stage. Sessions are not safe for concurrent invocations; racing
// invocations are last-write-wins on the caller's displayed result, which is
// a documented limitation.
type Session struct {
	identity domain.Identity
	cache    *cache.Cache
	logger   zerolog.Logger
	state    State
}

// NewSession creates a session for the given identity over the given cache.
func NewSession(identity domain.Identity, dataCache *cache.Cache, logger zerolog.Logger) *Session {
	return &Session{
		identity: identity,
		cache:    dataCache,
		logger: logger.With().
			Str("component", "search-session").
			Str("user_id", identity.UID).
			Logger(),
		state: StateIdle,
	}
}

// Identity returns the session's identity descriptor.
func (s *Session) Identity() domain.Identity {
	return s.identity
}

// State returns the state the most recent invocation ended in.
func (s *Session) State() State {
	return s.state
}

// FilterSet returns an unrestricted filter set over the session's facet
// domain. It requires a loaded snapshot.
func (s *Session) FilterSet(ctx context.Context) (FilterSet, error) {
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return FilterSet{}, err
	}
	return NewFilterSet(snap.FacetDomain()), nil
}

// Run executes one synchronous pipeline invocation:
//
//	Validating -> Loading -> facet filter -> identity filter -> fuzzy match
//	-> cross-reference -> dedup -> sort -> {Success | EmptyResult}
//
// An invocation with an empty query, no department, and no active filters is
// rejected before any fetch with ErrInputRejected. Bulk-fetch failures
// surface as ErrFetchFailure and leave prior cached data untouched. An empty
// outcome returns the result with Empty set alongside ErrEmptyResult.
func (s *Session) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	s.state = StateValidating
	query := strings.TrimSpace(req.Query)
	if query == "" && req.DepartmentID == "" && !req.Filters.AnyActive() {
		s.state = StateFailure
		return nil, domain.ErrInputRejected
	}

	s.state = StateLoading
	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		s.state = StateFailure
		return nil, err
	}

	// Facet filtering over the full cached publication set.
	publications := req.Filters.Apply(snap.Publications)

	// Candidate researchers: everyone but the session user, optionally
	// narrowed to one department.
	researchers := ExcludeIdentity(snap.Researchers, s.identity)
	if req.DepartmentID != "" {
		researchers = filterByDepartment(researchers, req.DepartmentID)
		publications = filterByOwners(publications, researchers)
	}

	var scoredResearchers []ScoredResearcher
	var scoredPublications []ScoredPublication
	if query != "" {
		scoredResearchers = MatchResearchers(researchers, query)
		scoredPublications = MatchPublications(publications, query)
	} else {
		scoredResearchers = passthroughResearchers(researchers)
		scoredPublications = passthroughPublications(publications)
	}

	enriched := CrossReference(scoredPublications, snap.Researchers)
	enriched = Dedup(enriched)
	Sort(enriched, req.Sort)

	result := &Result{
		Researchers:       scoredResearchers,
		Publications:      enriched,
		ActiveFilters:     req.Filters.Active(),
		Page:              1,
		CollapseAbstracts: true,
		Duration:          time.Since(start),
	}

	if len(result.Researchers) == 0 && len(result.Publications) == 0 {
		s.state = StateEmptyResult
		result.Empty = true
		s.logger.Debug().
			Str("query", query).
			Str("department", req.DepartmentID).
			Msg("search produced no results")
		return result, domain.ErrEmptyResult
	}

	s.state = StateSuccess
	s.logger.Debug().
		Str("query", query).
		Str("department", req.DepartmentID).
		Int("researchers", len(result.Researchers)).
		Int("publications", len(result.Publications)).
		Dur("duration", result.Duration).
		Msg("search completed")
	return result, nil
}

// Reset returns the session to the idle state after an invocation's outcome
// has been surfaced.
func (s *Session) Reset() {
	s.state = StateIdle
}

func filterByDepartment(researchers []domain.Researcher, departmentID string) []domain.Researcher {
	out := make([]domain.Researcher, 0, len(researchers))
	for _, r := range researchers {
		if r.DepartmentID == departmentID {
			out = append(out, r)
		}
	}
	return out
}

func filterByOwners(publications []domain.Publication, owners []domain.Researcher) []domain.Publication {
	ids := make(map[string]struct{}, len(owners))
	for _, r := range owners {
		ids[r.ID] = struct{}{}
	}

	out := make([]domain.Publication, 0, len(publications))
	for _, p := range publications {
		if _, ok := ids[p.OwnerID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func passthroughResearchers(researchers []domain.Researcher) []ScoredResearcher {
	out := make([]ScoredResearcher, len(researchers))
	for i, r := range researchers {
		out[i] = ScoredResearcher{Researcher: r}
	}
	return out
}

func passthroughPublications(publications []domain.Publication) []ScoredPublication {
	out := make([]ScoredPublication, len(publications))
	for i, p := range publications {
		out[i] = ScoredPublication{Publication: p}
	}
	return out
}
