package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	SetLogoPath(ctx context.Context, id uuid.UUID, logoPath *string) error
}

type businessRepository struct {
	db DBTX
}

func NewBusinessRepository(db DBTX) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	query := `
		INSERT INTO businesses (id, owner_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		business.ID, business.OwnerID, business.Name, business.Description,
	).Scan(&business.CreatedAt, &business.UpdatedAt)
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	var business domain.Business
	query := `SELECT * FROM businesses WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &business, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	var business domain.Business
	query := `SELECT * FROM businesses WHERE owner_id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &business, query, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) Update(ctx context.Context, business *domain.Business) error {
	query := `
		UPDATE businesses
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	_, err := r.db.ExecContext(ctx, query, business.ID, business.Name, business.Description)
	return err
}

func (r *businessRepository) SetLogoPath(ctx context.Context, id uuid.UUID, logoPath *string) error {
	query := `UPDATE businesses SET logo_path = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, logoPath)
	return err
}
