package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"loyalty-platform/internal/config"
	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

type approvalFixture struct {
	users         *mockUserRepo
	businesses    *mockBusinessRepo
	programs      *mockProgramRepo
	notifications *mockNotificationRepo
	approvals     *mockApprovalRepo
	enrollments   *mockEnrollmentRepo
	cards         *mockCardRepo
	relationships *mockRelationshipRepo
	points        *mockPointsRepo
	auditLogs     *mockAuditLogRepo
	email         *mockEmailService
	svc           ApprovalService
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		users:         new(mockUserRepo),
		businesses:    new(mockBusinessRepo),
		programs:      new(mockProgramRepo),
		notifications: new(mockNotificationRepo),
		approvals:     new(mockApprovalRepo),
		enrollments:   new(mockEnrollmentRepo),
		cards:         new(mockCardRepo),
		relationships: new(mockRelationshipRepo),
		points:        new(mockPointsRepo),
		auditLogs:     new(mockAuditLogRepo),
		email:         new(mockEmailService),
	}

	repos := &repository.Repositories{
		User:         f.users,
		Business:     f.businesses,
		Program:      f.programs,
		Notification: f.notifications,
		Approval:     f.approvals,
		Enrollment:   f.enrollments,
		Card:         f.cards,
		Relationship: f.relationships,
		Points:       f.points,
		AuditLog:     f.auditLogs,
	}

	cfg := &config.Config{ApprovalExpiry: 7 * 24 * time.Hour}
	f.svc = NewApprovalService(repos, f.email, events.NewBus(), cfg)
	return f
}

// allowAsyncSideEffects covers the decision email goroutine and the audit
// write, which run outside the transaction and outside the assertions.
func (f *approvalFixture) allowAsyncSideEffects() {
	f.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.users.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func enrollmentRequest(customerID, businessID, programID uuid.UUID) *domain.ApprovalRequest {
	return &domain.ApprovalRequest{
		ID:             uuid.New(),
		NotificationID: uuid.New(),
		CustomerID:     customerID,
		BusinessID:     businessID,
		RequestType:    domain.ApprovalEnrollment,
		EntityID:       programID,
		Status:         domain.ApprovalApproved,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
}

func TestProcess_ApproveEnrollment(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	customerID := uuid.New()
	businessID := uuid.New()
	programID := uuid.New()
	caller := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}
	req := enrollmentRequest(customerID, businessID, programID)
	program := &domain.LoyaltyProgram{ID: programID, BusinessID: businessID, Name: "Coffee Club", CardPrefix: "CAFE", IsActive: true}

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalApproved).Return(req, nil).Once()
	f.programs.On("GetByID", mock.Anything, programID).Return(program, nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(&domain.Business{ID: businessID, Name: "Brew Bros"}, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(&domain.User{ID: customerID, FullName: "Ada"}, nil)
	f.notifications.On("MarkActionTaken", mock.Anything, req.NotificationID).Return(nil).Once()
	f.relationships.On("Upsert", mock.Anything, customerID, businessID, domain.RelationshipActive).Return(nil).Once()
	f.enrollments.On("Upsert", mock.Anything, mock.MatchedBy(func(e *domain.ProgramEnrollment) bool {
		return e.CustomerID == customerID && e.ProgramID == programID && e.Status == domain.EnrollmentActive
	})).Return(nil).Once()

	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCustomerResponse && n.Audience == domain.AudienceBusiness
	})).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifEnrollmentSuccess && n.Audience == domain.AudienceCustomer
	})).Return(nil).Once()

	f.cards.On("GetByCustomerProgram", mock.Anything, customerID, programID).Return(nil, nil).Once()
	f.cards.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(c *domain.LoyaltyCard) bool {
		return c.CustomerID == customerID && c.Tier == domain.TierBronze && c.CardNumber != ""
	})).Return(true, nil).Once()
	f.notifications.On("CreateDeduped", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCardCreated
	}), "card_created:"+customerID.String()+":"+programID.String()).Return(true, nil).Once()

	f.allowAsyncSideEffects()

	cardID, err := f.svc.Process(ctx, req.ID, caller, true)

	assert.NoError(t, err)
	assert.NotNil(t, cardID)
	f.approvals.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
	f.enrollments.AssertExpectations(t)
	f.cards.AssertExpectations(t)
	f.relationships.AssertExpectations(t)
}

func TestProcess_RejectEnrollment(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	customerID := uuid.New()
	businessID := uuid.New()
	programID := uuid.New()
	caller := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}
	req := enrollmentRequest(customerID, businessID, programID)
	req.Status = domain.ApprovalRejected

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalRejected).Return(req, nil).Once()
	f.programs.On("GetByID", mock.Anything, programID).Return(&domain.LoyaltyProgram{ID: programID, Name: "Coffee Club"}, nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(&domain.Business{ID: businessID, Name: "Brew Bros"}, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(&domain.User{ID: customerID, FullName: "Ada"}, nil)
	f.notifications.On("MarkActionTaken", mock.Anything, req.NotificationID).Return(nil).Once()
	f.relationships.On("Upsert", mock.Anything, customerID, businessID, domain.RelationshipDeclined).Return(nil).Once()

	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifCustomerResponse
	})).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifEnrollmentDeclined
	})).Return(nil).Once()

	f.allowAsyncSideEffects()

	cardID, err := f.svc.Process(ctx, req.ID, caller, false)

	assert.NoError(t, err)
	assert.Nil(t, cardID)
	f.enrollments.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.cards.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	f.relationships.AssertExpectations(t)
}

func TestProcess_AlreadyProcessed(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	requestID := uuid.New()
	caller := &domain.User{ID: uuid.New(), Role: string(domain.RoleCustomer)}

	f.approvals.On("ClaimPending", mock.Anything, requestID, domain.ApprovalApproved).Return(nil, nil).Once()

	cardID, err := f.svc.Process(ctx, requestID, caller, true)

	assert.ErrorIs(t, err, ErrApprovalNotFound)
	assert.Nil(t, cardID)
	f.notifications.AssertNotCalled(t, "MarkActionTaken", mock.Anything, mock.Anything)
}

func TestProcess_WrongCustomer(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	req := enrollmentRequest(uuid.New(), uuid.New(), uuid.New())
	stranger := &domain.User{ID: uuid.New(), Role: string(domain.RoleCustomer)}

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalApproved).Return(req, nil).Once()

	cardID, err := f.svc.Process(ctx, req.ID, stranger, true)

	assert.ErrorIs(t, err, ErrNotRequestOwner)
	assert.Nil(t, cardID)
	f.relationships.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_ApproveReusesExistingCard(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	customerID := uuid.New()
	businessID := uuid.New()
	programID := uuid.New()
	caller := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}
	req := enrollmentRequest(customerID, businessID, programID)
	existing := &domain.LoyaltyCard{ID: uuid.New(), CustomerID: customerID, ProgramID: programID, CardNumber: "CAFE-240101-120000-0042"}

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalApproved).Return(req, nil).Once()
	f.programs.On("GetByID", mock.Anything, programID).Return(&domain.LoyaltyProgram{ID: programID, Name: "Coffee Club"}, nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(&domain.Business{ID: businessID, Name: "Brew Bros"}, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(&domain.User{ID: customerID, FullName: "Ada"}, nil)
	f.notifications.On("MarkActionTaken", mock.Anything, req.NotificationID).Return(nil).Once()
	f.relationships.On("Upsert", mock.Anything, customerID, businessID, domain.RelationshipActive).Return(nil).Once()
	f.enrollments.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.cards.On("GetByCustomerProgram", mock.Anything, customerID, programID).Return(existing, nil).Once()
	// dedupe key already consumed on the first approval
	f.notifications.On("CreateDeduped", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()

	f.allowAsyncSideEffects()

	cardID, err := f.svc.Process(ctx, req.ID, caller, true)

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, *cardID)
	f.cards.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestProcess_ApproveDeduction(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	customerID := uuid.New()
	businessID := uuid.New()
	programID := uuid.New()
	cardID := uuid.New()
	caller := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}

	payload, _ := json.Marshal(domain.DeductionPayload{Points: 75})
	req := &domain.ApprovalRequest{
		ID:             uuid.New(),
		NotificationID: uuid.New(),
		CustomerID:     customerID,
		BusinessID:     businessID,
		RequestType:    domain.ApprovalPointsDeduction,
		EntityID:       cardID,
		Data:           payload,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	card := &domain.LoyaltyCard{ID: cardID, CustomerID: customerID, BusinessID: businessID, ProgramID: programID, Points: 200}
	enrollment := &domain.ProgramEnrollment{ID: uuid.New(), CustomerID: customerID, ProgramID: programID, Status: domain.EnrollmentActive}

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalApproved).Return(req, nil).Once()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card, nil)
	f.programs.On("GetByID", mock.Anything, programID).Return(&domain.LoyaltyProgram{ID: programID, Name: "Coffee Club"}, nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(&domain.Business{ID: businessID, Name: "Brew Bros"}, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(&domain.User{ID: customerID, FullName: "Ada"}, nil)
	f.notifications.On("MarkActionTaken", mock.Anything, req.NotificationID).Return(nil).Once()
	f.relationships.On("Upsert", mock.Anything, customerID, businessID, domain.RelationshipActive).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

	f.cards.On("DeductPoints", mock.Anything, cardID, 75).Return(nil).Once()
	f.enrollments.On("GetByCustomerProgram", mock.Anything, customerID, programID).Return(enrollment, nil).Once()
	f.enrollments.On("DeductPoints", mock.Anything, enrollment.ID, 75).Return(nil).Once()
	f.points.On("Create", mock.Anything, mock.MatchedBy(func(tx *domain.PointTransaction) bool {
		return tx.Type == domain.TransactionDeduct && tx.Points == 75 && tx.BalanceAfter == 125
	})).Return(nil).Once()

	f.allowAsyncSideEffects()

	gotCardID, err := f.svc.Process(ctx, req.ID, caller, true)

	assert.NoError(t, err)
	assert.Equal(t, cardID, *gotCardID)
	f.cards.AssertExpectations(t)
	f.points.AssertExpectations(t)
}

func TestProcess_DeductionInsufficientBalance(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	customerID := uuid.New()
	businessID := uuid.New()
	cardID := uuid.New()
	caller := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}

	payload, _ := json.Marshal(domain.DeductionPayload{Points: 500})
	req := &domain.ApprovalRequest{
		ID:             uuid.New(),
		NotificationID: uuid.New(),
		CustomerID:     customerID,
		BusinessID:     businessID,
		RequestType:    domain.ApprovalPointsDeduction,
		EntityID:       cardID,
		Data:           payload,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
	card := &domain.LoyaltyCard{ID: cardID, CustomerID: customerID, BusinessID: businessID, ProgramID: uuid.New(), Points: 10}

	f.approvals.On("ClaimPending", mock.Anything, req.ID, domain.ApprovalApproved).Return(req, nil).Once()
	f.cards.On("GetByID", mock.Anything, cardID).Return(card, nil)
	f.programs.On("GetByID", mock.Anything, mock.Anything).Return(nil, nil)
	f.businesses.On("GetByID", mock.Anything, businessID).Return(nil, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(nil, nil)
	f.notifications.On("MarkActionTaken", mock.Anything, req.NotificationID).Return(nil).Once()
	f.relationships.On("Upsert", mock.Anything, customerID, businessID, domain.RelationshipActive).Return(nil).Once()
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.cards.On("DeductPoints", mock.Anything, cardID, 500).Return(repository.ErrInsufficientBalance).Once()

	gotCardID, err := f.svc.Process(ctx, req.ID, caller, true)

	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
	assert.Nil(t, gotCardID)
	f.points.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestEnrollment_Conflicts(t *testing.T) {
	f := newApprovalFixture()
	ctx := context.Background()

	ownerID := uuid.New()
	customerID := uuid.New()
	businessID := uuid.New()
	programID := uuid.New()
	business := &domain.Business{ID: businessID, OwnerID: ownerID, Name: "Brew Bros"}
	program := &domain.LoyaltyProgram{ID: programID, BusinessID: businessID, Name: "Coffee Club", IsActive: true}
	customer := &domain.User{ID: customerID, Role: string(domain.RoleCustomer)}
	input := domain.EnrollmentRequestInput{ProgramID: programID, CustomerID: customerID}

	f.businesses.On("GetByOwnerID", mock.Anything, ownerID).Return(business, nil)
	f.programs.On("GetByID", mock.Anything, programID).Return(program, nil)
	f.users.On("GetByID", mock.Anything, customerID).Return(customer, nil)

	t.Run("already enrolled", func(t *testing.T) {
		f.enrollments.On("GetByCustomerProgram", mock.Anything, customerID, programID).
			Return(&domain.ProgramEnrollment{Status: domain.EnrollmentActive}, nil).Once()

		req, err := f.svc.RequestEnrollment(ctx, ownerID, input)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		assert.Nil(t, req)
	})

	t.Run("request already pending", func(t *testing.T) {
		f.enrollments.On("GetByCustomerProgram", mock.Anything, customerID, programID).Return(nil, nil).Once()
		f.approvals.On("HasPending", mock.Anything, customerID, programID, domain.ApprovalEnrollment).Return(true, nil).Once()

		req, err := f.svc.RequestEnrollment(ctx, ownerID, input)
		assert.ErrorIs(t, err, ErrRequestInFlight)
		assert.Nil(t, req)
	})

	t.Run("success creates notification and request together", func(t *testing.T) {
		f.enrollments.On("GetByCustomerProgram", mock.Anything, customerID, programID).Return(nil, nil).Once()
		f.approvals.On("HasPending", mock.Anything, customerID, programID, domain.ApprovalEnrollment).Return(false, nil).Once()
		f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.Type == domain.NotifEnrollmentRequest && n.RequiresAction
		})).Return(nil).Once()
		f.approvals.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ApprovalRequest) bool {
			return r.Status == domain.ApprovalPending && r.EntityID == programID
		})).Return(nil).Once()
		f.email.On("SendEnrollmentInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
		f.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

		req, err := f.svc.RequestEnrollment(ctx, ownerID, input)
		assert.NoError(t, err)
		assert.NotNil(t, req)
		assert.Equal(t, domain.ApprovalPending, req.Status)
		f.approvals.AssertExpectations(t)
	})
}
