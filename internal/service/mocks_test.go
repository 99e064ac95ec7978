package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"loyalty-platform/internal/domain"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockBusinessRepo struct {
	mock.Mock
}

func (m *mockBusinessRepo) Create(ctx context.Context, business *domain.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *mockBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepo) Update(ctx context.Context, business *domain.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *mockBusinessRepo) SetLogoPath(ctx context.Context, id uuid.UUID, logoPath *string) error {
	args := m.Called(ctx, id, logoPath)
	return args.Error(0)
}

type mockProgramRepo struct {
	mock.Mock
}

func (m *mockProgramRepo) Create(ctx context.Context, program *domain.LoyaltyProgram) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *mockProgramRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyProgram, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyProgram), args.Error(1)
}

func (m *mockProgramRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, params domain.PaginationParams) ([]domain.LoyaltyProgram, int64, error) {
	args := m.Called(ctx, businessID, params)
	return args.Get(0).([]domain.LoyaltyProgram), args.Get(1).(int64), args.Error(2)
}

func (m *mockProgramRepo) Update(ctx context.Context, program *domain.LoyaltyProgram) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notif *domain.Notification) error {
	args := m.Called(ctx, notif)
	return args.Error(0)
}

func (m *mockNotificationRepo) CreateDeduped(ctx context.Context, notif *domain.Notification, dedupeKey string) (bool, error) {
	args := m.Called(ctx, notif, dedupeKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *mockNotificationRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, customerID, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, filter domain.NotificationFilter, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, businessID, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllAsRead(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkActionTaken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) DeleteAllForCustomer(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

type mockApprovalRepo struct {
	mock.Mock
}

func (m *mockApprovalRepo) Create(ctx context.Context, req *domain.ApprovalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockApprovalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *mockApprovalRepo) ClaimPending(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *mockApprovalRepo) ListPendingByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

func (m *mockApprovalRepo) HasPending(ctx context.Context, customerID, entityID uuid.UUID, reqType domain.ApprovalType) (bool, error) {
	args := m.Called(ctx, customerID, entityID, reqType)
	return args.Bool(0), args.Error(1)
}

func (m *mockApprovalRepo) CountPendingByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockEnrollmentRepo struct {
	mock.Mock
}

func (m *mockEnrollmentRepo) Upsert(ctx context.Context, enrollment *domain.ProgramEnrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *mockEnrollmentRepo) GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.ProgramEnrollment, error) {
	args := m.Called(ctx, customerID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProgramEnrollment), args.Error(1)
}

func (m *mockEnrollmentRepo) AddPoints(ctx context.Context, id uuid.UUID, earned int) error {
	args := m.Called(ctx, id, earned)
	return args.Error(0)
}

func (m *mockEnrollmentRepo) DeductPoints(ctx context.Context, id uuid.UUID, points int) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

func (m *mockEnrollmentRepo) ListActiveCustomerIDs(ctx context.Context, businessID uuid.UUID, programID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, businessID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockEnrollmentRepo) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCardRepo struct {
	mock.Mock
}

func (m *mockCardRepo) CreateIfAbsent(ctx context.Context, card *domain.LoyaltyCard) (bool, error) {
	args := m.Called(ctx, card)
	return args.Bool(0), args.Error(1)
}

func (m *mockCardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyCard), args.Error(1)
}

func (m *mockCardRepo) GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.LoyaltyCard, error) {
	args := m.Called(ctx, customerID, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyCard), args.Error(1)
}

func (m *mockCardRepo) GetByNumber(ctx context.Context, cardNumber string) (*domain.LoyaltyCard, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyCard), args.Error(1)
}

func (m *mockCardRepo) AddPoints(ctx context.Context, id uuid.UUID, points int, tier domain.CardTier, multiplier float64) error {
	args := m.Called(ctx, id, points, tier, multiplier)
	return args.Error(0)
}

func (m *mockCardRepo) DeductPoints(ctx context.Context, id uuid.UUID, points int) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

func (m *mockCardRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.LoyaltyCard, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoyaltyCard), args.Error(1)
}

func (m *mockCardRepo) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRelationshipRepo struct {
	mock.Mock
}

func (m *mockRelationshipRepo) Upsert(ctx context.Context, customerID, businessID uuid.UUID, status domain.RelationshipStatus) error {
	args := m.Called(ctx, customerID, businessID, status)
	return args.Error(0)
}

func (m *mockRelationshipRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.CustomerBusinessRelationship, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerBusinessRelationship), args.Error(1)
}

func (m *mockRelationshipRepo) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockPointsRepo struct {
	mock.Mock
}

func (m *mockPointsRepo) Create(ctx context.Context, tx *domain.PointTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockPointsRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PointTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockPointsRepo) ListByCard(ctx context.Context, cardID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	args := m.Called(ctx, cardID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PointTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *mockPointsRepo) SumEarnedByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditLogRepo struct {
	mock.Mock
}

func (m *mockAuditLogRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditLogRepo) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	args := m.Called(ctx, toEmail, fullName)
	return args.Error(0)
}

func (m *mockEmailService) SendEnrollmentInvitation(ctx context.Context, toEmail, customerName, businessName, programName string) error {
	args := m.Called(ctx, toEmail, customerName, businessName, programName)
	return args.Error(0)
}

func (m *mockEmailService) SendDecisionEmail(ctx context.Context, toEmail, customerName, businessName, programName string, approved bool) error {
	args := m.Called(ctx, toEmail, customerName, businessName, programName, approved)
	return args.Error(0)
}
