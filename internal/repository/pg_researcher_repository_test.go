package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Helper to create a valid researcher for testing.
func newTestResearcher() *domain.Researcher {
	now := time.Now().UTC()
	return &domain.Researcher{
		ID:               "res-001",
		Name:             "Maria Rivera",
		FirstName:        "Maria",
		LastName:         "Rivera",
		DepartmentID:     "dept-cs",
		Email:            "maria.rivera@example.edu",
		Affiliation:      "Example University",
		PhotoURL:         "https://example.edu/photos/maria.jpg",
		Interests:        []string{"machine learning", "robotics"},
		PublicationCount: 12,
		CitationCount:    340,
		ScholarID:        "sch-maria",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func researcherRows(researchers ...*domain.Researcher) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "name", "first_name", "last_name", "department_id", "email",
		"affiliation", "photo_url", "interests", "publication_count", "citation_count",
		"scholar_id", "created_at", "updated_at",
	})
	for _, r := range researchers {
		interestsJSON, _ := json.Marshal(r.Interests)
		rows.AddRow(
			r.ID, r.Name, r.FirstName, r.LastName, r.DepartmentID, r.Email,
			r.Affiliation, r.PhotoURL, interestsJSON, r.PublicationCount, r.CitationCount,
			r.ScholarID, r.CreatedAt, r.UpdatedAt,
		)
	}
	return rows
}

func TestNewPgResearcherRepository(t *testing.T) {
	t.Run("creates repository with nil db", func(t *testing.T) {
		repo := NewPgResearcherRepository(nil)
		assert.NotNil(t, repo)
		assert.Nil(t, repo.db)
	})

	t.Run("creates repository with mock db", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestPgResearcherRepository_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("lists all researchers", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		r1 := newTestResearcher()
		r2 := newTestResearcher()
		r2.ID = "res-002"
		r2.Name = "James Okafor"

		mock.ExpectQuery("SELECT .* FROM researchers\\s+ORDER BY id").
			WillReturnRows(researcherRows(r1, r2))

		results, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, "res-001", results[0].ID)
		assert.Equal(t, "res-002", results[1].ID)
		assert.Equal(t, []string{"machine learning", "robotics"}, results[0].Interests)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for no rows", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)

		mock.ExpectQuery("SELECT .* FROM researchers\\s+ORDER BY id").
			WillReturnRows(researcherRows())

		results, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, results, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)

		mock.ExpectQuery("SELECT .* FROM researchers").
			WillReturnError(errors.New("connection refused"))

		results, err := repo.ListAll(ctx)
		assert.Nil(t, results)
		assert.ErrorContains(t, err, "failed to list researchers")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgResearcherRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns researcher when found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		researcher := newTestResearcher()

		mock.ExpectQuery("SELECT .* FROM researchers\\s+WHERE id = \\$1").
			WithArgs(researcher.ID).
			WillReturnRows(researcherRows(researcher))

		result, err := repo.GetByID(ctx, researcher.ID)
		require.NoError(t, err)
		assert.Equal(t, researcher.ID, result.ID)
		assert.Equal(t, researcher.Name, result.Name)
		assert.Equal(t, researcher.ScholarID, result.ScholarID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns validation error for empty id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		result, err := repo.GetByID(ctx, "")

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "id", validationErr.Field)
	})

	t.Run("returns not found error when not exists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)

		mock.ExpectQuery("SELECT .* FROM researchers\\s+WHERE id = \\$1").
			WithArgs("nonexistent").
			WillReturnError(pgx.ErrNoRows)

		result, err := repo.GetByID(ctx, "nonexistent")
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgResearcherRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts researcher successfully", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		researcher := newTestResearcher()

		mock.ExpectQuery("INSERT INTO researchers").
			WithArgs(
				researcher.ID, researcher.Name, researcher.FirstName, researcher.LastName,
				researcher.DepartmentID, researcher.Email, researcher.Affiliation,
				researcher.PhotoURL, pgxmock.AnyArg(), researcher.PublicationCount,
				researcher.CitationCount, researcher.ScholarID, pgxmock.AnyArg(),
			).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(researcher.CreatedAt, researcher.UpdatedAt))

		result, err := repo.Upsert(ctx, researcher)
		require.NoError(t, err)
		assert.Equal(t, researcher.ID, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns validation error for nil researcher", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		result, err := repo.Upsert(ctx, nil)

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "researcher", validationErr.Field)
	})

	t.Run("returns validation error for missing id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgResearcherRepository(mock)
		researcher := newTestResearcher()
		researcher.ID = ""

		result, err := repo.Upsert(ctx, researcher)

		assert.Nil(t, result)
		var validationErr *domain.ValidationError
		assert.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "id", validationErr.Field)
	})
}

func TestResearcherScanDest(t *testing.T) {
	t.Run("destinations returns correct number of pointers", func(t *testing.T) {
		var dest researcherScanDest
		dests := dest.destinations()
		assert.Len(t, dests, 14)
	})

	t.Run("finalize handles interests JSON", func(t *testing.T) {
		dest := researcherScanDest{
			researcher:    domain.Researcher{ID: "res-001"},
			interestsJSON: []byte(`["nlp","vision"]`),
		}

		result, err := dest.finalize()
		require.NoError(t, err)
		assert.Equal(t, []string{"nlp", "vision"}, result.Interests)
	})

	t.Run("finalize returns error for invalid interests JSON", func(t *testing.T) {
		dest := researcherScanDest{
			interestsJSON: []byte(`{invalid json`),
		}

		result, err := dest.finalize()
		assert.Nil(t, result)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal interests")
	})
}
