package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type ProgramRepository interface {
	Create(ctx context.Context, program *domain.LoyaltyProgram) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyProgram, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, params domain.PaginationParams) ([]domain.LoyaltyProgram, int64, error)
	Update(ctx context.Context, program *domain.LoyaltyProgram) error
}

type programRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *domain.LoyaltyProgram) error {
	query := `
		INSERT INTO loyalty_programs (id, business_id, name, description, points_per_visit, card_prefix, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		program.ID, program.BusinessID, program.Name, program.Description,
		program.PointsPerVisit, program.CardPrefix, program.IsActive,
	).Scan(&program.CreatedAt, &program.UpdatedAt)
}

func (r *programRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyProgram, error) {
	var program domain.LoyaltyProgram
	query := `SELECT * FROM loyalty_programs WHERE id = $1`

	err := r.db.GetContext(ctx, &program, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, params domain.PaginationParams) ([]domain.LoyaltyProgram, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM loyalty_programs WHERE business_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, businessID); err != nil {
		return nil, 0, err
	}

	var programs []domain.LoyaltyProgram
	query := `
		SELECT * FROM loyalty_programs
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &programs, query, businessID, params.PageSize, params.Offset())
	return programs, total, err
}

func (r *programRepository) Update(ctx context.Context, program *domain.LoyaltyProgram) error {
	query := `
		UPDATE loyalty_programs
		SET name = $2, description = $3, points_per_visit = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query,
		program.ID, program.Name, program.Description, program.PointsPerVisit, program.IsActive)
	return err
}
