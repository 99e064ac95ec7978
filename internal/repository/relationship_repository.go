package repository

import (
	"context"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type RelationshipRepository interface {
	// Upsert records the outcome of an approval decision for the pair,
	// overwriting any previous status.
	Upsert(ctx context.Context, customerID, businessID uuid.UUID, status domain.RelationshipStatus) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerBusinessRelationship, error)
	CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type relationshipRepository struct {
	db DBTX
}

func NewRelationshipRepository(db DBTX) RelationshipRepository {
	return &relationshipRepository{db: db}
}

func (r *relationshipRepository) Upsert(ctx context.Context, customerID, businessID uuid.UUID, status domain.RelationshipStatus) error {
	query := `
		INSERT INTO customer_business_relationships (customer_id, business_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, business_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, customerID, businessID, status)
	return err
}

func (r *relationshipRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerBusinessRelationship, error) {
	var relationships []domain.CustomerBusinessRelationship
	query := `
		SELECT * FROM customer_business_relationships
		WHERE customer_id = $1
		ORDER BY updated_at DESC`
	err := r.db.SelectContext(ctx, &relationships, query, customerID)
	return relationships, err
}

func (r *relationshipRepository) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM customer_business_relationships WHERE business_id = $1 AND status = $2`
	err := r.db.GetContext(ctx, &count, query, businessID, domain.RelationshipActive)
	return count, err
}
