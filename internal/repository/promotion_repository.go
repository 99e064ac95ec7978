package repository

import (
	"context"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type PromotionRepository interface {
	Create(ctx context.Context, promo *domain.Promotion) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error)
	// ListCurrentForCustomer returns running promotions from businesses the
	// customer holds an ACTIVE enrollment with.
	ListCurrentForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error)
}

type promotionRepository struct {
	db DBTX
}

func NewPromotionRepository(db DBTX) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promo *domain.Promotion) error {
	query := `
		INSERT INTO promotions (id, business_id, program_id, title, description, promo_code, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		promo.ID, promo.BusinessID, promo.ProgramID, promo.Title,
		promo.Description, promo.PromoCode, promo.StartsAt, promo.EndsAt,
	).Scan(&promo.CreatedAt)
}

func (r *promotionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM promotions WHERE business_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, businessID); err != nil {
		return nil, 0, err
	}

	var promotions []domain.Promotion
	query := `
		SELECT * FROM promotions
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &promotions, query, businessID, params.PageSize, params.Offset())
	return promotions, total, err
}

func (r *promotionRepository) ListCurrentForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error) {
	params.Validate()

	where := `
		FROM promotions p
		WHERE p.starts_at <= NOW() AND p.ends_at > NOW()
		  AND p.business_id IN (
			SELECT business_id FROM program_enrollments
			WHERE customer_id = $1 AND status = $2)`

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) `+where, customerID, domain.EnrollmentActive); err != nil {
		return nil, 0, err
	}

	var promotions []domain.Promotion
	query := `SELECT p.* ` + where + `
		ORDER BY p.created_at DESC
		LIMIT $3 OFFSET $4`
	err := r.db.SelectContext(ctx, &promotions, query, customerID, domain.EnrollmentActive, params.PageSize, params.Offset())
	return promotions, total, err
}
