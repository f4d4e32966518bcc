package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/domain"
)

func TestMatchPublications_ThresholdScenario(t *testing.T) {
	t.Parallel()

	// Query "machine learning" at the 30%-dissimilarity threshold retains
	// only the matching title.
	publications := []domain.Publication{
		{ID: "p1", Title: "Machine Learning Basics"},
		{ID: "p2", Title: "Unrelated Topic"},
	}

	got := MatchPublications(publications, "machine learning")
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].Publication.ID)
	assert.GreaterOrEqual(t, got[0].Score, MatchThreshold)
}

func TestMatchPublications_MatchesAbstractAndKeywords(t *testing.T) {
	t.Parallel()

	publications := []domain.Publication{
		{ID: "p1", Title: "A Study", Abstract: "We apply reinforcement learning to robot control."},
		{ID: "p2", Title: "Another Study", Keywords: domain.KeywordsFromString("reinforcement learning, control")},
		{ID: "p3", Title: "Chemistry of Polymers"},
	}

	got := MatchPublications(publications, "reinforcement learning")
	require.Len(t, got, 2)

	ids := []string{got[0].Publication.ID, got[1].Publication.ID}
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
}

func TestMatchPublications_ApproximateMatch(t *testing.T) {
	t.Parallel()

	// A one-character typo still clears the threshold.
	publications := []domain.Publication{
		{ID: "p1", Title: "Quantum Computing Advances"},
	}

	got := MatchPublications(publications, "quantom computing")
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].Publication.ID)
}

func TestMatchPublications_ShortQueryMatchesNothing(t *testing.T) {
	t.Parallel()

	publications := []domain.Publication{{ID: "p1", Title: "X"}}
	assert.Empty(t, MatchPublications(publications, "x"))
	assert.Empty(t, MatchPublications(publications, " "))
}

func TestMatchPublications_DescendingRelevance(t *testing.T) {
	t.Parallel()

	publications := []domain.Publication{
		{ID: "weaker", Title: "Deep learning for imags"},
		{ID: "exact", Title: "Deep Learning for Images"},
	}

	got := MatchPublications(publications, "deep learning for images")
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].Publication.ID)
	assert.Equal(t, "weaker", got[1].Publication.ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestMatchResearchers(t *testing.T) {
	t.Parallel()

	researchers := []domain.Researcher{
		{ID: "r1", Name: "Maria Gonzalez"},
		{ID: "r2", FirstName: "Mario", LastName: "Rossi"},
		{ID: "r3", Name: "Wei Zhang"},
	}

	t.Run("full name match", func(t *testing.T) {
		t.Parallel()
		got := MatchResearchers(researchers, "maria gonzalez")
		require.NotEmpty(t, got)
		assert.Equal(t, "r1", got[0].Researcher.ID)
	})

	t.Run("typo tolerated", func(t *testing.T) {
		t.Parallel()
		got := MatchResearchers(researchers, "maria gonzales")
		require.NotEmpty(t, got)
		assert.Equal(t, "r1", got[0].Researcher.ID)
	})

	t.Run("single name field", func(t *testing.T) {
		t.Parallel()
		got := MatchResearchers(researchers, "rossi")
		require.NotEmpty(t, got)
		assert.Equal(t, "r2", got[0].Researcher.ID)
	})

	t.Run("no match below threshold", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, MatchResearchers(researchers, "completely different person"))
	})

	t.Run("short query rejected", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, MatchResearchers(researchers, "m"))
	})
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		text  string
		min   float64
		max   float64
	}{
		{name: "exact", query: "genomics", text: "Genomics", min: 1, max: 1},
		{name: "containment", query: "neural networks", text: "Graph Neural Networks at Scale", min: 1, max: 1},
		{name: "window match in long text", query: "protein folding", text: "Advances in protien folding prediction using deep models", min: 0.8, max: 1},
		{name: "unrelated", query: "astronomy", text: "Soil Chemistry", min: 0, max: 0.4},
		{name: "empty text", query: "anything", text: "", min: 0, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := similarity(tt.query, tt.text)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestEditSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, editSimilarity("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, editSimilarity("abc", "xyz"), 1e-9)
	// One edit over four runes.
	assert.InDelta(t, 0.75, editSimilarity("abcd", "abce"), 1e-9)
	assert.Equal(t, 0.0, editSimilarity("", ""))
}
