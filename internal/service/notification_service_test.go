package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"loyalty-platform/internal/domain"
)

func TestListForCustomer_DegradesToEmptyOnFailure(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	svc := NewNotificationService(notifRepo)

	customerID := uuid.New()
	params := domain.DefaultPagination()

	notifRepo.On("ListByCustomer", mock.Anything, customerID, mock.Anything, params).
		Return(nil, int64(0), errors.New("connection refused")).Once()

	notifications, total := svc.ListForCustomer(context.Background(), customerID, domain.NotificationFilter{}, params)

	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
	assert.Zero(t, total)
}

func TestListForCustomer_ReturnsRows(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	svc := NewNotificationService(notifRepo)

	customerID := uuid.New()
	params := domain.DefaultPagination()
	rows := []domain.Notification{
		{ID: uuid.New(), Type: domain.NotifPointsAdded},
		{ID: uuid.New(), Type: domain.NotifPromoCode},
	}

	notifRepo.On("ListByCustomer", mock.Anything, customerID, mock.Anything, params).
		Return(rows, int64(2), nil).Once()

	notifications, total := svc.ListForCustomer(context.Background(), customerID, domain.NotificationFilter{}, params)

	assert.Len(t, notifications, 2)
	assert.Equal(t, int64(2), total)
}

func TestListForBusiness_DegradesToEmptyOnFailure(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	svc := NewNotificationService(notifRepo)

	businessID := uuid.New()
	params := domain.DefaultPagination()

	notifRepo.On("ListByBusiness", mock.Anything, businessID, mock.Anything, params).
		Return(nil, int64(0), errors.New("timeout")).Once()

	notifications, total := svc.ListForBusiness(context.Background(), businessID, domain.NotificationFilter{}, params)

	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
	assert.Zero(t, total)
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	notifRepo := new(mockNotificationRepo)
	svc := NewNotificationService(notifRepo)

	notifID := uuid.New()

	// the repo no-ops on an already-read row; the service surfaces success both times
	notifRepo.On("MarkAsRead", mock.Anything, notifID).Return(nil).Twice()

	assert.NoError(t, svc.MarkAsRead(context.Background(), notifID))
	assert.NoError(t, svc.MarkAsRead(context.Background(), notifID))
	notifRepo.AssertExpectations(t)
}
