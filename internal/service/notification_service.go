package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/repository"
)

// NotificationService is the read/update surface over stored notifications.
// List reads favor availability: any backend fault degrades to an empty result
// so polling clients never see an error for a transient outage.
type NotificationService interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64)
	ListForBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error
	GetUnreadCount(ctx context.Context, customerID uuid.UUID) (int64, error)
	ClearAll(ctx context.Context, customerID uuid.UUID) error
}

type notificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notifRepo: notifRepo}
}

func (s *notificationService) Create(ctx context.Context, notif *domain.Notification) error {
	return s.notifRepo.Create(ctx, notif)
}

func (s *notificationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notifRepo.GetByID(ctx, id)
}

func (s *notificationService) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64) {
	notifications, total, err := s.notifRepo.ListByCustomer(ctx, customerID, filter, params)
	if err != nil {
		log.Printf("notification list degraded to empty for customer %s: %v", customerID, err)
		return []domain.Notification{}, 0
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, total
}

func (s *notificationService) ListForBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64) {
	notifications, total, err := s.notifRepo.ListByBusiness(ctx, businessID, filter, params)
	if err != nil {
		log.Printf("notification list degraded to empty for business %s: %v", businessID, err)
		return []domain.Notification{}, 0
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, total
}

// MarkAsRead is idempotent: marking an already-read notification is a no-op,
// and the original read_at stamp is preserved.
func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, customerID)
}

func (s *notificationService) GetUnreadCount(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, customerID)
}

func (s *notificationService) ClearAll(ctx context.Context, customerID uuid.UUID) error {
	return s.notifRepo.DeleteAllForCustomer(ctx, customerID)
}
