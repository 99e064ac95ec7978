package repository

import (
	"context"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type PointsRepository interface {
	Create(ctx context.Context, tx *domain.PointTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error)
	ListByCard(ctx context.Context, cardID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error)
	SumEarnedByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type pointsRepository struct {
	db DBTX
}

func NewPointsRepository(db DBTX) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Create(ctx context.Context, tx *domain.PointTransaction) error {
	query := `
		INSERT INTO point_transactions (id, card_id, customer_id, business_id, program_id, type, points, balance_after, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		tx.ID, tx.CardID, tx.CustomerID, tx.BusinessID, tx.ProgramID,
		tx.Type, tx.Points, tx.BalanceAfter, tx.Note,
	).Scan(&tx.CreatedAt)
}

func (r *pointsRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM point_transactions WHERE customer_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, customerID); err != nil {
		return nil, 0, err
	}

	var transactions []domain.PointTransaction
	query := `
		SELECT * FROM point_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &transactions, query, customerID, params.PageSize, params.Offset())
	return transactions, total, err
}

func (r *pointsRepository) ListByCard(ctx context.Context, cardID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM point_transactions WHERE card_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, cardID); err != nil {
		return nil, 0, err
	}

	var transactions []domain.PointTransaction
	query := `
		SELECT * FROM point_transactions
		WHERE card_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &transactions, query, cardID, params.PageSize, params.Offset())
	return transactions, total, err
}

func (r *pointsRepository) SumEarnedByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(points), 0) FROM point_transactions WHERE business_id = $1 AND type = $2`
	err := r.db.GetContext(ctx, &sum, query, businessID, domain.TransactionEarn)
	return sum, err
}
