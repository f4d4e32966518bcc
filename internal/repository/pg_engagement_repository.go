package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Compile-time interface verification.
var _ EngagementRepository = (*PgEngagementRepository)(nil)

// PgEngagementRepository is a PostgreSQL implementation of EngagementRepository.
type PgEngagementRepository struct {
	db DBTX
}

// NewPgEngagementRepository creates a new PostgreSQL engagement repository.
func NewPgEngagementRepository(db DBTX) *PgEngagementRepository {
	return &PgEngagementRepository{db: db}
}

func validateEngagementKey(userID, ownerID, publicationID string) error {
	if userID == "" {
		return domain.NewValidationError("user_id", "user ID is required")
	}
	if ownerID == "" {
		return domain.NewValidationError("owner_id", "owner ID is required")
	}
	if publicationID == "" {
		return domain.NewValidationError("publication_id", "publication ID is required")
	}
	return nil
}

// AddBookmark records a bookmark for the user on a publication.
func (r *PgEngagementRepository) AddBookmark(ctx context.Context, userID, ownerID, publicationID string) error {
	if err := validateEngagementKey(userID, ownerID, publicationID); err != nil {
		return err
	}

	query := `
		INSERT INTO bookmarks (user_id, owner_id, publication_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, owner_id, publication_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, userID, ownerID, publicationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	return nil
}

// RemoveBookmark removes a bookmark.
func (r *PgEngagementRepository) RemoveBookmark(ctx context.Context, userID, ownerID, publicationID string) error {
	if err := validateEngagementKey(userID, ownerID, publicationID); err != nil {
		return err
	}

	query := `
		DELETE FROM bookmarks
		WHERE user_id = $1 AND owner_id = $2 AND publication_id = $3`

	result, err := r.db.Exec(ctx, query, userID, ownerID, publicationID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("bookmark", fmt.Sprintf("%s/%s", ownerID, publicationID))
	}

	return nil
}

// ListBookmarks returns the composite keys of the user's bookmarked publications.
func (r *PgEngagementRepository) ListBookmarks(ctx context.Context, userID string) ([]domain.PublicationRef, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "user ID is required")
	}

	query := `
		SELECT owner_id, publication_id
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var refs []domain.PublicationRef
	for rows.Next() {
		var ref domain.PublicationRef
		if err := rows.Scan(&ref.OwnerID, &ref.PublicationID); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}

	return refs, nil
}

// AddLike records a like for the user on a publication.
func (r *PgEngagementRepository) AddLike(ctx context.Context, userID, ownerID, publicationID string) error {
	if err := validateEngagementKey(userID, ownerID, publicationID); err != nil {
		return err
	}

	query := `
		INSERT INTO likes (user_id, owner_id, publication_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, owner_id, publication_id) DO NOTHING`

	if _, err := r.db.Exec(ctx, query, userID, ownerID, publicationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add like: %w", err)
	}

	return nil
}

// RemoveLike removes a like.
func (r *PgEngagementRepository) RemoveLike(ctx context.Context, userID, ownerID, publicationID string) error {
	if err := validateEngagementKey(userID, ownerID, publicationID); err != nil {
		return err
	}

	query := `
		DELETE FROM likes
		WHERE user_id = $1 AND owner_id = $2 AND publication_id = $3`

	result, err := r.db.Exec(ctx, query, userID, ownerID, publicationID)
	if err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("like", fmt.Sprintf("%s/%s", ownerID, publicationID))
	}

	return nil
}

// LikeCount returns the number of likes on a publication.
func (r *PgEngagementRepository) LikeCount(ctx context.Context, ownerID, publicationID string) (int64, error) {
	if ownerID == "" {
		return 0, domain.NewValidationError("owner_id", "owner ID is required")
	}
	if publicationID == "" {
		return 0, domain.NewValidationError("publication_id", "publication ID is required")
	}

	query := `
		SELECT COUNT(*)
		FROM likes
		WHERE owner_id = $1 AND publication_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, ownerID, publicationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}
