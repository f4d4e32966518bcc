package repository

import (
	"context"

	"github.com/helixir/scholar-directory/internal/domain"
)

// ResearcherRepository handles researcher directory persistence.
// The search pipeline never queries this repository directly; it reads the
// full collection once per session through the snapshot cache.
type ResearcherRepository interface {
	// ListAll retrieves every researcher in the directory.
	// Results are ordered by researcher ID for deterministic snapshots.
	ListAll(ctx context.Context) ([]domain.Researcher, error)

	// GetByID retrieves a researcher by identifier.
	// Returns domain.ErrNotFound if no matching researcher exists.
	GetByID(ctx context.Context, id string) (*domain.Researcher, error)

	// Upsert inserts a new researcher or updates an existing one by ID.
	// Returns the stored researcher with its storage timestamps populated.
	// Returns domain.ErrInvalidInput if the researcher has no ID.
	Upsert(ctx context.Context, researcher *domain.Researcher) (*domain.Researcher, error)
}

// PublicationRepository handles publication persistence. Publications are
// keyed by (owner_id, id): the ID is unique only within the owning
// researcher's subcollection.
type PublicationRepository interface {
	// ListAll retrieves every publication across all researchers.
	// Results are ordered by (owner_id, id) for deterministic snapshots.
	ListAll(ctx context.Context) ([]domain.Publication, error)

	// ListByOwner retrieves all publications owned by a researcher.
	// Returns an empty slice when the researcher has no publications.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Publication, error)

	// GetByID retrieves a single publication by its composite key.
	// Returns domain.ErrNotFound if no matching publication exists.
	GetByID(ctx context.Context, ownerID, id string) (*domain.Publication, error)

	// Upsert inserts a new publication or updates an existing one by its
	// composite key. Returns domain.ErrInvalidInput if owner ID or ID is missing.
	Upsert(ctx context.Context, publication *domain.Publication) (*domain.Publication, error)
}

// DepartmentRepository handles the department directory.
type DepartmentRepository interface {
	// List retrieves all departments ordered by name.
	List(ctx context.Context) ([]domain.Department, error)

	// GetByID retrieves a department by identifier.
	// Returns domain.ErrNotFound if no matching department exists.
	GetByID(ctx context.Context, id string) (*domain.Department, error)
}

// EngagementRepository handles per-user bookmarks and likes on publications.
type EngagementRepository interface {
	// AddBookmark records a bookmark for the user on a publication.
	// Adding an existing bookmark is a no-op.
	AddBookmark(ctx context.Context, userID, ownerID, publicationID string) error

	// RemoveBookmark removes a bookmark.
	// Returns domain.ErrNotFound if the bookmark does not exist.
	RemoveBookmark(ctx context.Context, userID, ownerID, publicationID string) error

	// ListBookmarks returns the composite keys of the user's bookmarked
	// publications, most recent first.
	ListBookmarks(ctx context.Context, userID string) ([]domain.PublicationRef, error)

	// AddLike records a like for the user on a publication.
	// Adding an existing like is a no-op.
	AddLike(ctx context.Context, userID, ownerID, publicationID string) error

	// RemoveLike removes a like.
	// Returns domain.ErrNotFound if the like does not exist.
	RemoveLike(ctx context.Context, userID, ownerID, publicationID string) error

	// LikeCount returns the number of likes on a publication.
	LikeCount(ctx context.Context, ownerID, publicationID string) (int64, error)
}
