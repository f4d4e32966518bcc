// Package repository provides data access interfaces and implementations
// for the Scholar Directory Service.
//
// # Overview
//
// This package defines repository interfaces and their PostgreSQL implementations
// following the repository pattern to abstract data persistence from business logic.
//
// # Repository Interfaces
//
// The package provides the following repository interfaces:
//
//   - ResearcherRepository: Manages researcher directory records
//   - PublicationRepository: Manages publication records owned by researchers
//   - DepartmentRepository: Manages the department directory
//   - EngagementRepository: Manages per-user bookmarks and likes
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use by multiple goroutines.
// The underlying pgxpool handles connection pooling and synchronization.
//
// # Error Handling
//
// All methods return domain-specific errors from the domain package.
// Wrap database errors with context using fmt.Errorf with %w verb.
// Common errors include:
//
//   - domain.ErrNotFound: Resource does not exist
//   - domain.ErrInvalidInput: Invalid parameters provided
//
// # Transactions
//
// Use the DBTX interface to support both pool and transaction contexts.
// Pass transaction from database.DB.WithTransaction for atomic operations.
//
// # Usage Pattern
//
// Repositories are typically created at application startup and passed to services:
//
//	db, _ := database.New(ctx, cfg, logger)
//	researcherRepo := repository.NewPgResearcherRepository(db)
//	publicationRepo := repository.NewPgPublicationRepository(db)
//	departmentRepo := repository.NewPgDepartmentRepository(db)
package repository

import (
	"context"

	"github.com/helixir/scholar-directory/internal/database"
	"github.com/helixir/scholar-directory/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction contexts.
// This allows repositories to work with both direct pool connections and transactions.
//
// # Constructor Pattern
//
// Repository implementations follow a constructor pattern that accepts DBTX:
//
//	type PgResearcherRepository struct {
//	    db DBTX
//	}
//
//	func NewPgResearcherRepository(db DBTX) *PgResearcherRepository {
//	    return &PgResearcherRepository{db: db}
//	}
//
// This design enables:
//   - Direct usage with a connection pool for standard operations
//   - Transaction support by passing a transaction (pgx.Tx) instead
//   - Easy testing with mock implementations of DBTX
type DBTX = database.DBTX

// SnapshotReader bundles the researcher and publication repositories behind
// the full-collection read contract the session cache consumes.
type SnapshotReader struct {
	researchers  ResearcherRepository
	publications PublicationRepository
}

// NewSnapshotReader creates a SnapshotReader over the given repositories.
func NewSnapshotReader(researchers ResearcherRepository, publications PublicationRepository) *SnapshotReader {
	return &SnapshotReader{researchers: researchers, publications: publications}
}

// ListAllResearchers returns every researcher in the directory.
func (s *SnapshotReader) ListAllResearchers(ctx context.Context) ([]domain.Researcher, error) {
	return s.researchers.ListAll(ctx)
}

// ListAllPublications returns every publication across all researchers.
func (s *SnapshotReader) ListAllPublications(ctx context.Context) ([]domain.Publication, error) {
	return s.publications.ListAll(ctx)
}
