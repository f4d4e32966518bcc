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
var _ PublicationRepository = (*PgPublicationRepository)(nil)

// PgPublicationRepository is a PostgreSQL implementation of PublicationRepository.
type PgPublicationRepository struct {
	db DBTX
}

// NewPgPublicationRepository creates a new PostgreSQL publication repository.
func NewPgPublicationRepository(db DBTX) *PgPublicationRepository {
	return &PgPublicationRepository{db: db}
}

const publicationColumns = `owner_id, id, title, authors, year, citations, journal,
		doi, abstract, keywords, open_access, pub_type, url, download_url,
		created_at, updated_at`

// ListAll retrieves every publication across all researchers.
func (r *PgPublicationRepository) ListAll(ctx context.Context) ([]domain.Publication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM publications
		ORDER BY owner_id, id`, publicationColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()

	return collectPublications(rows)
}

// ListByOwner retrieves all publications owned by a researcher.
func (r *PgPublicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Publication, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "owner ID is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM publications
		WHERE owner_id = $1
		ORDER BY id`, publicationColumns)

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications by owner: %w", err)
	}
	defer rows.Close()

	return collectPublications(rows)
}

// GetByID retrieves a single publication by its composite key.
func (r *PgPublicationRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Publication, error) {
	if ownerID == "" {
		return nil, domain.NewValidationError("owner_id", "owner ID is required")
	}
	if id == "" {
		return nil, domain.NewValidationError("id", "publication ID is required")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM publications
		WHERE owner_id = $1 AND id = $2`, publicationColumns)

	row := r.db.QueryRow(ctx, query, ownerID, id)
	publication, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("publication", fmt.Sprintf("%s/%s", ownerID, id))
		}
		return nil, fmt.Errorf("failed to get publication: %w", err)
	}

	return publication, nil
}

// Upsert inserts a new publication or updates an existing one by its composite key.
func (r *PgPublicationRepository) Upsert(ctx context.Context, publication *domain.Publication) (*domain.Publication, error) {
	if publication == nil {
		return nil, domain.NewValidationError("publication", "publication cannot be nil")
	}
	if publication.OwnerID == "" {
		return nil, domain.NewValidationError("owner_id", "owner ID is required")
	}
	if publication.ID == "" {
		return nil, domain.NewValidationError("id", "publication ID is required")
	}

	keywordsJSON, err := json.Marshal(publication.Keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keywords: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO publications (
			owner_id, id, title, authors, year, citations, journal,
			doi, abstract, keywords, open_access, pub_type, url, download_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15
		)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			title = EXCLUDED.title,
			authors = EXCLUDED.authors,
			year = EXCLUDED.year,
			citations = EXCLUDED.citations,
			journal = EXCLUDED.journal,
			doi = EXCLUDED.doi,
			abstract = EXCLUDED.abstract,
			keywords = EXCLUDED.keywords,
			open_access = EXCLUDED.open_access,
			pub_type = EXCLUDED.pub_type,
			url = EXCLUDED.url,
			download_url = EXCLUDED.download_url,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err = r.db.QueryRow(ctx, query,
		publication.OwnerID,
		publication.ID,
		publication.Title,
		publication.Authors,
		publication.Year,
		publication.Citations,
		publication.Journal,
		publication.DOI,
		publication.Abstract,
		keywordsJSON,
		publication.OpenAccess,
		publication.PubType,
		publication.URL,
		publication.DownloadURL,
		now,
	).Scan(&publication.CreatedAt, &publication.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert publication: %w", err)
	}

	return publication, nil
}

// publicationScanDest holds the destination pointers for scanning a Publication row.
type publicationScanDest struct {
	publication  domain.Publication
	keywordsJSON []byte
}

// destinations returns the slice of pointers for Scan operations.
func (d *publicationScanDest) destinations() []interface{} {
	return []interface{}{
		&d.publication.OwnerID, &d.publication.ID, &d.publication.Title, &d.publication.Authors,
		&d.publication.Year, &d.publication.Citations, &d.publication.Journal,
		&d.publication.DOI, &d.publication.Abstract, &d.keywordsJSON,
		&d.publication.OpenAccess, &d.publication.PubType, &d.publication.URL,
		&d.publication.DownloadURL, &d.publication.CreatedAt, &d.publication.UpdatedAt,
	}
}

// finalize performs post-scan processing: unmarshals the keyword field,
// preserving whether the source stored a delimited string or a list.
func (d *publicationScanDest) finalize() (*domain.Publication, error) {
	if len(d.keywordsJSON) > 0 {
		if err := json.Unmarshal(d.keywordsJSON, &d.publication.Keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
		}
	}
	return &d.publication, nil
}

// scanPublication scans a single row into a Publication.
func scanPublication(row pgx.Row) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanPublicationFromRows scans the current row from pgx.Rows into a Publication.
func scanPublicationFromRows(rows pgx.Rows) (*domain.Publication, error) {
	var dest publicationScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// collectPublications drains rows into a publication slice.
func collectPublications(rows pgx.Rows) ([]domain.Publication, error) {
	var publications []domain.Publication
	for rows.Next() {
		publication, err := scanPublicationFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		publications = append(publications, *publication)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating publications: %w", err)
	}

	return publications, nil
}
