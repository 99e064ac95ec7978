package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

var ErrInsufficientBalance = errors.New("insufficient points balance")

type CardRepository interface {
	// CreateIfAbsent inserts the card unless one already exists for the same
	// (customer, program) pair; reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, card *domain.LoyaltyCard) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyCard, error)
	GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.LoyaltyCard, error)
	GetByNumber(ctx context.Context, cardNumber string) (*domain.LoyaltyCard, error)
	AddPoints(ctx context.Context, id uuid.UUID, points int, tier domain.CardTier, multiplier float64) error
	// DeductPoints fails with ErrInsufficientBalance when the card holds fewer
	// points than requested.
	DeductPoints(ctx context.Context, id uuid.UUID, points int) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.LoyaltyCard, error)
	CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type cardRepository struct {
	db DBTX
}

func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) CreateIfAbsent(ctx context.Context, card *domain.LoyaltyCard) (bool, error) {
	query := `
		INSERT INTO loyalty_cards (id, customer_id, program_id, business_id, card_number, status, points, tier, points_multiplier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (customer_id, program_id) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		card.ID, card.CustomerID, card.ProgramID, card.BusinessID, card.CardNumber,
		card.Status, card.Points, card.Tier, card.PointsMultiplier,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *cardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyCard, error) {
	var card domain.LoyaltyCard
	query := `SELECT * FROM loyalty_cards WHERE id = $1`

	err := r.db.GetContext(ctx, &card, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.LoyaltyCard, error) {
	var card domain.LoyaltyCard
	query := `SELECT * FROM loyalty_cards WHERE customer_id = $1 AND program_id = $2`

	err := r.db.GetContext(ctx, &card, query, customerID, programID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) GetByNumber(ctx context.Context, cardNumber string) (*domain.LoyaltyCard, error) {
	var card domain.LoyaltyCard
	query := `SELECT * FROM loyalty_cards WHERE card_number = $1`

	err := r.db.GetContext(ctx, &card, query, cardNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) AddPoints(ctx context.Context, id uuid.UUID, points int, tier domain.CardTier, multiplier float64) error {
	query := `
		UPDATE loyalty_cards
		SET points = points + $2, tier = $3, points_multiplier = $4, updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, points, tier, multiplier)
	return err
}

func (r *cardRepository) DeductPoints(ctx context.Context, id uuid.UUID, points int) error {
	query := `
		UPDATE loyalty_cards
		SET points = points - $2, updated_at = NOW()
		WHERE id = $1 AND points >= $2`

	result, err := r.db.ExecContext(ctx, query, id, points)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

func (r *cardRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.LoyaltyCard, error) {
	var cards []domain.LoyaltyCard
	query := `SELECT * FROM loyalty_cards WHERE customer_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &cards, query, customerID)
	return cards, err
}

func (r *cardRepository) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM loyalty_cards WHERE business_id = $1 AND status = $2`
	err := r.db.GetContext(ctx, &count, query, businessID, domain.CardActive)
	return count, err
}
