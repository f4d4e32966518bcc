package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/domain"
)

// pipelineReader serves a fixed dataset for pipeline tests.
type pipelineReader struct {
	researchers  []domain.Researcher
	publications []domain.Publication
	err          error
	fetches      int
}

func (r *pipelineReader) ListAllResearchers(ctx context.Context) ([]domain.Researcher, error) {
	r.fetches++
	if r.err != nil {
		return nil, r.err
	}
	return r.researchers, nil
}

func (r *pipelineReader) ListAllPublications(ctx context.Context) ([]domain.Publication, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.publications, nil
}

func pipelineDataset() *pipelineReader {
	return &pipelineReader{
		researchers: []domain.Researcher{
			{ID: "me", Name: "Current User", DepartmentID: "cs", Email: "me@uni.edu"},
			{ID: "r1", Name: "Alice Chen", DepartmentID: "cs"},
			{ID: "r2", Name: "Bob Okafor", DepartmentID: "bio"},
		},
		publications: []domain.Publication{
			{ID: "p1", OwnerID: "r1", Title: "Machine Learning Basics", Authors: "Alice Chen, Bob Okafor", Year: "2020", Citations: "40", Journal: "JMLR"},
			{ID: "p2", OwnerID: "r2", Title: "Machine learning basics", Authors: "Bob Okafor", Year: "2019", Citations: "10", Journal: "Nature"},
			{ID: "p3", OwnerID: "r2", Title: "Wetland Ecology", Authors: "Bob Okafor", Year: "2018", Citations: "3", Journal: "Nature"},
		},
	}
}

func newTestSession(t *testing.T, reader cache.BulkReader) *Session {
	t.Helper()
	identity := domain.Identity{UID: "me", Email: "me@uni.edu", FirstName: "Current", LastName: "User"}
	return NewSession(identity, cache.New(reader, zerolog.Nop()), zerolog.Nop())
}

func TestSession_RunRejectsEmptyInvocation(t *testing.T) {
	t.Parallel()

	reader := pipelineDataset()
	s := newTestSession(t, reader)

	filters, err := emptyFilters(s)
	require.NoError(t, err)

	_, err = s.Run(context.Background(), Request{Query: "   ", Filters: filters})
	assert.True(t, errors.Is(err, domain.ErrInputRejected))
	assert.Equal(t, StateFailure, s.State())

	// Validation happens before any further fetch: only the filter-domain
	// load has touched the reader.
	assert.Equal(t, 1, reader.fetches)
}

func TestSession_RunQuerySearch(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)

	result, err := s.Run(context.Background(), Request{Query: "machine learning", Filters: filters})
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, s.State())

	// Case-differing duplicate titles collapse to the first encountered.
	require.Len(t, result.Publications, 1)
	assert.Equal(t, "p1", result.Publications[0].ID)

	// Cross-referenced co-authors come from the whole snapshot.
	require.Len(t, result.Publications[0].Researchers, 2)

	assert.Equal(t, 1, result.Page)
	assert.True(t, result.CollapseAbstracts)
	assert.False(t, result.Empty)
}

func TestSession_RunExcludesOwnIdentity(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)

	result, err := s.Run(context.Background(), Request{Query: "current user", Filters: filters})
	// The only researcher matching the query is the session user, and no
	// publication matches.
	assert.True(t, errors.Is(err, domain.ErrEmptyResult))
	require.NotNil(t, result)
	assert.True(t, result.Empty)
	assert.Empty(t, result.Researchers)
	assert.Equal(t, StateEmptyResult, s.State())
}

func TestSession_RunDepartmentBrowse(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)

	result, err := s.Run(context.Background(), Request{DepartmentID: "bio", Filters: filters})
	require.NoError(t, err)

	require.Len(t, result.Researchers, 1)
	assert.Equal(t, "r2", result.Researchers[0].Researcher.ID)

	// Publications narrow to the department's researchers.
	ids := make([]string, len(result.Publications))
	for i, p := range result.Publications {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p2", "p3"}, ids)
}

func TestSession_RunFacetOnlyInvocation(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)
	filters.Journals = []string{"Nature"}

	result, err := s.Run(context.Background(), Request{Filters: filters, Sort: SortCitationsDesc})
	require.NoError(t, err)

	ids := make([]string, len(result.Publications))
	for i, p := range result.Publications {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"p2", "p3"}, ids)
	require.Len(t, result.ActiveFilters, 1)
	assert.Equal(t, domain.FilterKindJournal, result.ActiveFilters[0].Kind)
}

func TestSession_RunSortAppliedAfterDedup(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)

	result, err := s.Run(context.Background(), Request{Query: "machine learning", Filters: filters, Sort: SortYearAsc})
	require.NoError(t, err)

	// The duplicate p2 was removed before sorting; only p1 remains.
	require.Len(t, result.Publications, 1)
	assert.Equal(t, "p1", result.Publications[0].ID)
}

func TestSession_RunFetchFailure(t *testing.T) {
	t.Parallel()

	reader := &pipelineReader{err: errors.New("backend down")}
	s := newTestSession(t, reader)

	// Filters built without a snapshot: facet-domain defaults unavailable,
	// so drive the invocation with a query.
	_, err := s.Run(context.Background(), Request{Query: "machine learning"})
	assert.True(t, errors.Is(err, domain.ErrFetchFailure))
	assert.Equal(t, StateFailure, s.State())

	// The collaborator recovers; the same session retries successfully.
	data := pipelineDataset()
	reader.err = nil
	reader.researchers = data.researchers
	reader.publications = data.publications

	result, err := s.Run(context.Background(), Request{Query: "machine learning"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Publications)
}

func TestSession_Reset(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, pipelineDataset())
	filters, err := emptyFilters(s)
	require.NoError(t, err)

	_, _ = s.Run(context.Background(), Request{Query: "machine learning", Filters: filters})
	require.Equal(t, StateSuccess, s.State())

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
}

func TestProfileURL(t *testing.T) {
	t.Parallel()

	url, err := ProfileURL("abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://scholar.google.com/citations?user=abc123", url)

	_, err = ProfileURL("")
	assert.True(t, errors.Is(err, domain.ErrNavigationRejected))

	_, err = ProfileURL("   ")
	assert.True(t, errors.Is(err, domain.ErrNavigationRejected))
}

// emptyFilters builds the unrestricted filter set for the session, loading
// the snapshot as a side effect.
func emptyFilters(s *Session) (FilterSet, error) {
	return s.FilterSet(context.Background())
}
