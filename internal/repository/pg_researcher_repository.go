package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Compile-time interface verification.
var _ ResearcherRepository = (*PgResearcherRepository)(nil)

// PgResearcherRepository is a PostgreSQL implementation of ResearcherRepository.
type PgResearcherRepository struct {
	db DBTX
}

// NewPgResearcherRepository creates a new PostgreSQL researcher repository.
func NewPgResearcherRepository(db DBTX) *PgResearcherRepository {
	return &PgResearcherRepository{db: db}
}

const researcherColumns = `id, name, first_name, last_name, department_id, email,
		affiliation, photo_url, interests, publication_count, citation_count,
		scholar_id, created_at, updated_at`

// ListAll retrieves every researcher in the directory.
func (r *PgResearcherRepository) ListAll(ctx context.Context) ([]domain.Researcher, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM researchers
		ORDER BY id`, researcherColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list researchers: %w", err)
	}
	defer rows.Close()

	var researchers []domain.Researcher
	for rows.Next() {
		researcher, err := scanResearcherFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan researcher: %w", err)
		}
		researchers = append(researchers, *researcher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating researchers: %w", err)
	}

	return researchers, nil
}

// GetByID retrieves a researcher by identifier.
func (r *PgResearcherRepository) GetByID(ctx context.Context, id string) (*domain.Researcher, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "researcher ID is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM researchers
		WHERE id = $1`, researcherColumns)

	row := r.db.QueryRow(ctx, query, id)
	researcher, err := scanResearcher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("researcher", id)
		}
		return nil, fmt.Errorf("failed to get researcher: %w", err)
	}

	return researcher, nil
}

// Upsert inserts a new researcher or updates an existing one by ID.
func (r *PgResearcherRepository) Upsert(ctx context.Context, researcher *domain.Researcher) (*domain.Researcher, error) {
	if researcher == nil {
		return nil, domain.NewValidationError("researcher", "researcher cannot be nil")
	}
	if researcher.ID == "" {
		return nil, domain.NewValidationError("id", "researcher ID is required")
	}

	interestsJSON, err := json.Marshal(researcher.Interests)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interests: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO researchers (
			id, name, first_name, last_name, department_id, email,
			affiliation, photo_url, interests, publication_count, citation_count,
			scholar_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			department_id = EXCLUDED.department_id,
			email = EXCLUDED.email,
			affiliation = EXCLUDED.affiliation,
			photo_url = EXCLUDED.photo_url,
			interests = EXCLUDED.interests,
			publication_count = EXCLUDED.publication_count,
			citation_count = EXCLUDED.citation_count,
			scholar_id = EXCLUDED.scholar_id,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		researcher.ID,
		researcher.Name,
		researcher.FirstName,
		researcher.LastName,
		researcher.DepartmentID,
		researcher.Email,
		researcher.Affiliation,
		researcher.PhotoURL,
		interestsJSON,
		researcher.PublicationCount,
		researcher.CitationCount,
		researcher.ScholarID,
		now,
	).Scan(&researcher.CreatedAt, &researcher.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert researcher: %w", err)
	}

	return researcher, nil
}

// researcherScanDest holds the destination pointers for scanning a Researcher row.
type researcherScanDest struct {
	researcher    domain.Researcher
	interestsJSON []byte
}

// destinations returns the slice of pointers for Scan operations.
func (d *researcherScanDest) destinations() []interface{} {
	return []interface{}{
		&d.researcher.ID, &d.researcher.Name, &d.researcher.FirstName, &d.researcher.LastName,
		&d.researcher.DepartmentID, &d.researcher.Email, &d.researcher.Affiliation,
		&d.researcher.PhotoURL, &d.interestsJSON, &d.researcher.PublicationCount,
		&d.researcher.CitationCount, &d.researcher.ScholarID,
		&d.researcher.CreatedAt, &d.researcher.UpdatedAt,
	}
}

// finalize performs post-scan processing: unmarshals JSON fields.
func (d *researcherScanDest) finalize() (*domain.Researcher, error) {
	if len(d.interestsJSON) > 0 {
		if err := json.Unmarshal(d.interestsJSON, &d.researcher.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
	}
	return &d.researcher, nil
}

// scanResearcher scans a single row into a Researcher.
func scanResearcher(row pgx.Row) (*domain.Researcher, error) {
	var dest researcherScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanResearcherFromRows scans the current row from pgx.Rows into a Researcher.
func scanResearcherFromRows(rows pgx.Rows) (*domain.Researcher, error) {
	var dest researcherScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
