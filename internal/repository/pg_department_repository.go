package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/helixir/scholar-directory/internal/domain"
)

// Compile-time interface verification.
var _ DepartmentRepository = (*PgDepartmentRepository)(nil)

// PgDepartmentRepository is a PostgreSQL implementation of DepartmentRepository.
type PgDepartmentRepository struct {
	db DBTX
}

// NewPgDepartmentRepository creates a new PostgreSQL department repository.
func NewPgDepartmentRepository(db DBTX) *PgDepartmentRepository {
	return &PgDepartmentRepository{db: db}
}

// List retrieves all departments ordered by name.
func (r *PgDepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	query := `
		SELECT id, name
		FROM departments
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}

	return departments, nil
}

// GetByID retrieves a department by identifier.
func (r *PgDepartmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	if id == "" {
		return nil, domain.NewValidationError("id", "department ID is required")
	}

	query := `
		SELECT id, name
		FROM departments
		WHERE id = $1`

	var dept domain.Department
	err := r.db.QueryRow(ctx, query, id).Scan(&dept.ID, &dept.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("department", id)
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &dept, nil
}
