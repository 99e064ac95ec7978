package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type ApprovalRepository interface {
	Create(ctx context.Context, req *domain.ApprovalRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error)
	// ClaimPending flips a PENDING, unexpired request to the given terminal
	// status and returns the claimed row, or nil when the request does not
	// exist, was already processed, or has expired. This conditional UPDATE is
	// the sole guard against double processing under concurrent submissions.
	ClaimPending(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) (*domain.ApprovalRequest, error)
	ListPendingByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ApprovalRequest, error)
	HasPending(ctx context.Context, customerID, entityID uuid.UUID, reqType domain.ApprovalType) (bool, error)
	CountPendingByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type approvalRepository struct {
	db DBTX
}

func NewApprovalRepository(db DBTX) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, req *domain.ApprovalRequest) error {
	query := `
		INSERT INTO approval_requests (id, notification_id, customer_id, business_id, request_type, entity_id, status, data, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING requested_at`

	return r.db.QueryRowxContext(ctx, query,
		req.ID, req.NotificationID, req.CustomerID, req.BusinessID,
		req.RequestType, req.EntityID, req.Status, req.Data, req.ExpiresAt,
	).Scan(&req.RequestedAt)
}

func (r *approvalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest
	query := `SELECT * FROM approval_requests WHERE id = $1`

	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *approvalRepository) ClaimPending(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) (*domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest
	query := `
		UPDATE approval_requests
		SET status = $2, responded_at = NOW()
		WHERE id = $1 AND status = $3 AND expires_at > NOW()
		RETURNING *`

	err := r.db.GetContext(ctx, &req, query, id, status, domain.ApprovalPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *approvalRepository) ListPendingByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ApprovalRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var requests []domain.ApprovalRequest
	query := `
		SELECT * FROM approval_requests
		WHERE customer_id = $1 AND status = $2 AND expires_at > NOW()
		ORDER BY requested_at DESC
		LIMIT $3`
	err := r.db.SelectContext(ctx, &requests, query, customerID, domain.ApprovalPending, limit)
	return requests, err
}

func (r *approvalRepository) HasPending(ctx context.Context, customerID, entityID uuid.UUID, reqType domain.ApprovalType) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM approval_requests
			WHERE customer_id = $1 AND entity_id = $2 AND request_type = $3
			  AND status = $4 AND expires_at > NOW())`
	err := r.db.GetContext(ctx, &exists, query, customerID, entityID, reqType, domain.ApprovalPending)
	return exists, err
}

func (r *approvalRepository) CountPendingByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM approval_requests WHERE business_id = $1 AND status = $2 AND expires_at > NOW()`
	err := r.db.GetContext(ctx, &count, query, businessID, domain.ApprovalPending)
	return count, err
}
