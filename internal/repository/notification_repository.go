package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	// CreateDeduped inserts the notification unless one with the same dedupe
	// key exists already. Reports whether a row was inserted.
	CreateDeduped(ctx context.Context, notif *domain.Notification, dedupeKey string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error
	MarkActionTaken(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, customerID uuid.UUID) (int64, error)
	DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error
}

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, customer_id, business_id, audience, type, title, message, data,
		requires_action, action_taken, is_read, dedupe_key`

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.CustomerID, notif.BusinessID, notif.Audience, notif.Type,
		notif.Title, notif.Message, notif.Data, notif.RequiresAction,
		notif.ActionTaken, notif.IsRead, notif.DedupeKey,
	).Scan(&notif.CreatedAt)
}

func (r *notificationRepository) CreateDeduped(ctx context.Context, notif *domain.Notification, dedupeKey string) (bool, error) {
	notif.DedupeKey = &dedupeKey
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (dedupe_key) WHERE dedupe_key IS NOT NULL DO NOTHING
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.CustomerID, notif.BusinessID, notif.Audience, notif.Type,
		notif.Title, notif.Message, notif.Data, notif.RequiresAction,
		notif.ActionTaken, notif.IsRead, notif.DedupeKey,
	).Scan(&notif.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	return r.list(ctx, "customer_id", customerID, domain.AudienceCustomer, filter, params)
}

func (r *notificationRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	return r.list(ctx, "business_id", businessID, domain.AudienceBusiness, filter, params)
}

// list composes the optional filters as bind parameters; the column name is
// one of two fixed identifiers, never caller input.
func (r *notificationRepository) list(ctx context.Context, column string, recipientID uuid.UUID, audience domain.Audience, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	where := ` WHERE ` + column + ` = $1 AND audience = $2`
	args := []interface{}{recipientID, audience}

	if filter.UnreadOnly {
		where += ` AND is_read = false`
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where += ` AND type = $3`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications`+where, args...); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`SELECT * FROM notifications%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, limitPos, limitPos+1)

	var notifications []domain.Notification
	args = append(args, params.PageSize, params.Offset())
	err := r.db.SelectContext(ctx, &notifications, query, args...)
	return notifications, total, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE customer_id = $1 AND audience = $2 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, customerID, domain.AudienceCustomer)
	return err
}

func (r *notificationRepository) MarkActionTaken(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET action_taken = true, is_read = true, read_at = COALESCE(read_at, NOW()) WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE customer_id = $1 AND audience = $2 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, customerID, domain.AudienceCustomer)
	return count, err
}

func (r *notificationRepository) DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error {
	query := `DELETE FROM notifications WHERE customer_id = $1 AND audience = $2`
	_, err := r.db.ExecContext(ctx, query, customerID, domain.AudienceCustomer)
	return err
}
