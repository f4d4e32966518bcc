package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/domain"
)

func enriched(id, title, year, citations string) EnrichedPublication {
	return EnrichedPublication{
		Publication: domain.Publication{ID: id, Title: title, Year: year, Citations: citations},
	}
}

func TestDedup_CaseInsensitiveFirstWins(t *testing.T) {
	t.Parallel()

	// Case-differing duplicate titles collapse to the first encountered.
	pubs := []EnrichedPublication{
		enriched("p1", "A", "2020", "5"),
		enriched("p2", "a", "2019", "9"),
	}

	got := Dedup(pubs)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "2020", got[0].Year)
	assert.Equal(t, "5", got[0].Citations)
}

func TestDedup_EmptyTitlesDropped(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p1", "", "2020", "1"),
		enriched("p2", "   ", "2021", "2"),
		enriched("p3", "Kept", "2022", "3"),
	}

	got := Dedup(pubs)
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)
}

func TestDedup_Idempotent(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p1", "Alpha", "2020", "1"),
		enriched("p2", "ALPHA ", "2019", "2"),
		enriched("p3", "Beta", "2018", "3"),
	}

	once := Dedup(pubs)
	twice := Dedup(once)
	assert.Equal(t, once, twice)
}

func TestSort_YearOrders(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p1", "A", "2010", "0"),
		enriched("p2", "B", "2020", "0"),
		enriched("p3", "C", "2015", "0"),
	}

	Sort(pubs, SortYearDesc)
	assert.Equal(t, []string{"p2", "p3", "p1"}, idsOf(pubs))

	Sort(pubs, SortYearAsc)
	assert.Equal(t, []string{"p1", "p3", "p2"}, idsOf(pubs))
}

func TestSort_CitationsReversal(t *testing.T) {
	t.Parallel()

	// With no ties, citations_desc and citations_asc are exact reverses.
	pubs := []EnrichedPublication{
		enriched("p1", "A", "2020", "3"),
		enriched("p2", "B", "2020", "11"),
		enriched("p3", "C", "2020", "7"),
	}

	Sort(pubs, SortCitationsDesc)
	desc := idsOf(pubs)

	Sort(pubs, SortCitationsAsc)
	asc := idsOf(pubs)

	for i := range desc {
		assert.Equal(t, desc[i], asc[len(asc)-1-i])
	}
}

func TestSort_UnparseableComparesAsZero(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p1", "A", "2020", "unknown"),
		enriched("p2", "B", "2020", "4"),
	}

	Sort(pubs, SortCitationsDesc)
	assert.Equal(t, []string{"p2", "p1"}, idsOf(pubs))
}

func TestSort_StableOnTies(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p1", "A", "2020", "5"),
		enriched("p2", "B", "2020", "5"),
		enriched("p3", "C", "2020", "5"),
	}

	Sort(pubs, SortCitationsDesc)
	assert.Equal(t, []string{"p1", "p2", "p3"}, idsOf(pubs))
}

func TestSort_RelevanceIsNoOp(t *testing.T) {
	t.Parallel()

	pubs := []EnrichedPublication{
		enriched("p2", "B", "2020", "1"),
		enriched("p1", "A", "2010", "9"),
	}

	Sort(pubs, SortRelevance)
	assert.Equal(t, []string{"p2", "p1"}, idsOf(pubs))
}

func TestSortOrder_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortRelevance.Valid())
	assert.True(t, SortYearDesc.Valid())
	assert.True(t, SortCitationsAsc.Valid())
	assert.False(t, SortOrder("alphabetical").Valid())
	assert.False(t, SortOrder("").Valid())
}

func idsOf(pubs []EnrichedPublication) []string {
	ids := make([]string, len(pubs))
	for i, p := range pubs {
		ids[i] = p.ID
	}
	return ids
}
