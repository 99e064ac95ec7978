package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"loyalty-platform/internal/config"
	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

var (
	// ErrApprovalNotFound covers a missing id, an already-processed request and
	// an expired one alike; the caller cannot tell them apart and should not.
	ErrApprovalNotFound = errors.New("approval request not found or already processed")
	ErrNotRequestOwner  = errors.New("approval request is not addressed to you")
	ErrAlreadyEnrolled  = errors.New("customer already has an active enrollment in this program")
	ErrRequestInFlight  = errors.New("a pending request already exists for this customer and entity")
	ErrProgramNotFound  = errors.New("loyalty program not found")
	ErrProgramInactive  = errors.New("loyalty program is not active")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCardNotFound     = errors.New("loyalty card not found")
	ErrBusinessNotFound = errors.New("no business registered for this account")
)

type ApprovalService interface {
	RequestEnrollment(ctx context.Context, callerID uuid.UUID, input domain.EnrollmentRequestInput) (*domain.ApprovalRequest, error)
	RequestPointsDeduction(ctx context.Context, callerID uuid.UUID, input domain.DeductionRequestInput) (*domain.ApprovalRequest, error)
	// ListPending degrades to an empty slice on any backend fault.
	ListPending(ctx context.Context, customerID uuid.UUID) []domain.ApprovalRequest
	// Process resolves a PENDING request. On an approved enrollment it returns
	// the loyalty card id; otherwise nil.
	Process(ctx context.Context, requestID uuid.UUID, caller *domain.User, approve bool) (*uuid.UUID, error)
}

type approvalService struct {
	repos        *repository.Repositories
	emailService EmailService
	bus          *events.Bus
	cfg          *config.Config
}

func NewApprovalService(repos *repository.Repositories, emailService EmailService, bus *events.Bus, cfg *config.Config) ApprovalService {
	return &approvalService{
		repos:        repos,
		emailService: emailService,
		bus:          bus,
		cfg:          cfg,
	}
}

func (s *approvalService) RequestEnrollment(ctx context.Context, callerID uuid.UUID, input domain.EnrollmentRequestInput) (*domain.ApprovalRequest, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	program, err := s.repos.Program.GetByID(ctx, input.ProgramID)
	if err != nil {
		return nil, err
	}
	if program == nil || program.BusinessID != business.ID {
		return nil, ErrProgramNotFound
	}
	if !program.IsActive {
		return nil, ErrProgramInactive
	}

	customer, err := s.repos.User.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Role != string(domain.RoleCustomer) {
		return nil, ErrCustomerNotFound
	}

	enrollment, err := s.repos.Enrollment.GetByCustomerProgram(ctx, customer.ID, program.ID)
	if err != nil {
		return nil, err
	}
	if enrollment != nil && enrollment.Status == domain.EnrollmentActive {
		return nil, ErrAlreadyEnrolled
	}

	pending, err := s.repos.Approval.HasPending(ctx, customer.ID, program.ID, domain.ApprovalEnrollment)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestInFlight
	}

	req, err := s.createRequest(ctx, requestSpec{
		customerID:  customer.ID,
		business:    business,
		requestType: domain.ApprovalEnrollment,
		entityID:    program.ID,
		notifType:   domain.NotifEnrollmentRequest,
		title:       "Loyalty Program Invitation",
		message:     fmt.Sprintf("%s invited you to join %q", business.Name, program.Name),
	})
	if err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailService.SendEnrollmentInvitation(context.Background(), customer.Email, customer.FullName, business.Name, program.Name); err != nil {
			log.Printf("Failed to send enrollment invitation: %v", err)
		}
	}()

	s.logAudit(ctx, callerID, "REQUEST_ENROLLMENT", "APPROVAL_REQUEST", req.ID,
		nil, json.RawMessage(`{"status":"PENDING"}`))

	return req, nil
}

func (s *approvalService) RequestPointsDeduction(ctx context.Context, callerID uuid.UUID, input domain.DeductionRequestInput) (*domain.ApprovalRequest, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	card, err := s.repos.Card.GetByID(ctx, input.CardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.BusinessID != business.ID {
		return nil, ErrCardNotFound
	}
	if card.Points < input.Points {
		return nil, repository.ErrInsufficientBalance
	}

	pending, err := s.repos.Approval.HasPending(ctx, card.CustomerID, card.ID, domain.ApprovalPointsDeduction)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrRequestInFlight
	}

	payload, err := json.Marshal(domain.DeductionPayload{Points: input.Points, Reason: input.Reason})
	if err != nil {
		return nil, err
	}

	return s.createRequest(ctx, requestSpec{
		customerID:  card.CustomerID,
		business:    business,
		requestType: domain.ApprovalPointsDeduction,
		entityID:    card.ID,
		data:        payload,
		notifType:   domain.NotifPointsDeductionRequest,
		title:       "Points Deduction Request",
		message:     fmt.Sprintf("%s requests to deduct %d points from your card %s", business.Name, input.Points, card.CardNumber),
	})
}

type requestSpec struct {
	customerID  uuid.UUID
	business    *domain.Business
	requestType domain.ApprovalType
	entityID    uuid.UUID
	data        json.RawMessage
	notifType   domain.NotificationType
	title       string
	message     string
}

// createRequest inserts the action-requiring notification and its approval
// request in one transaction, keeping the 1:1 invariant between them.
func (s *approvalService) createRequest(ctx context.Context, spec requestSpec) (*domain.ApprovalRequest, error) {
	notifID := uuid.New()
	reqID := uuid.New()
	expiresAt := time.Now().Add(s.cfg.ApprovalExpiry)

	dataMap := map[string]string{
		"approval_request_id": reqID.String(),
		"business_id":         spec.business.ID.String(),
		"entity_id":           spec.entityID.String(),
	}
	notifData, _ := json.Marshal(dataMap)

	req := &domain.ApprovalRequest{
		ID:             reqID,
		NotificationID: notifID,
		CustomerID:     spec.customerID,
		BusinessID:     spec.business.ID,
		RequestType:    spec.requestType,
		EntityID:       spec.entityID,
		Status:         domain.ApprovalPending,
		Data:           spec.data,
		ExpiresAt:      expiresAt,
	}

	err := s.repos.WithinTx(ctx, func(tx *repository.Repositories) error {
		notif := &domain.Notification{
			ID:             notifID,
			CustomerID:     &spec.customerID,
			BusinessID:     &spec.business.ID,
			Audience:       domain.AudienceCustomer,
			Type:           spec.notifType,
			Title:          spec.title,
			Message:        spec.message,
			Data:           notifData,
			RequiresAction: true,
			ExpiresAt:      &expiresAt,
		}
		if err := tx.Notification.Create(ctx, notif); err != nil {
			return err
		}
		return tx.Approval.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	return req, nil
}

func (s *approvalService) ListPending(ctx context.Context, customerID uuid.UUID) []domain.ApprovalRequest {
	requests, err := s.repos.Approval.ListPendingByCustomer(ctx, customerID, 50)
	if err != nil {
		log.Printf("pending approvals degraded to empty for customer %s: %v", customerID, err)
		return []domain.ApprovalRequest{}
	}
	if requests == nil {
		return []domain.ApprovalRequest{}
	}

	for i := range requests {
		if business, err := s.repos.Business.GetByID(ctx, requests[i].BusinessID); err == nil {
			requests[i].Business = business
		}
		if requests[i].RequestType == domain.ApprovalEnrollment {
			if program, err := s.repos.Program.GetByID(ctx, requests[i].EntityID); err == nil {
				requests[i].Program = program
			}
		}
	}

	return requests
}

func (s *approvalService) Process(ctx context.Context, requestID uuid.UUID, caller *domain.User, approve bool) (*uuid.UUID, error) {
	status := domain.ApprovalRejected
	if approve {
		status = domain.ApprovalApproved
	}

	var cardID *uuid.UUID
	var claimed *domain.ApprovalRequest

	err := s.repos.WithinTx(ctx, func(tx *repository.Repositories) error {
		req, err := tx.Approval.ClaimPending(ctx, requestID, status)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrApprovalNotFound
		}
		if req.CustomerID != caller.ID && !caller.IsAdmin() {
			// rolls back the claim
			return ErrNotRequestOwner
		}
		claimed = req

		names := s.lookupNames(ctx, tx, req)

		if err := tx.Notification.MarkActionTaken(ctx, req.NotificationID); err != nil {
			return err
		}

		if err := s.notifyBusiness(ctx, tx, req, names, approve); err != nil {
			return err
		}

		relStatus := domain.RelationshipDeclined
		if approve {
			relStatus = domain.RelationshipActive
		}
		if err := tx.Relationship.Upsert(ctx, req.CustomerID, req.BusinessID, relStatus); err != nil {
			return err
		}

		if err := s.notifyCustomer(ctx, tx, req, names, approve); err != nil {
			return err
		}

		if !approve {
			return nil
		}

		switch req.RequestType {
		case domain.ApprovalEnrollment:
			cardID, err = s.applyEnrollment(ctx, tx, req, names)
		case domain.ApprovalPointsDeduction:
			cardID, err = s.applyDeduction(ctx, tx, req, names)
		default:
			err = fmt.Errorf("unknown request type %q", req.RequestType)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterProcess(ctx, claimed, approve)

	return cardID, nil
}

type displayNames struct {
	program  string
	business string
	customer string
}

// lookupNames fetches human-readable names for message composition. Lookups
// that fail degrade to placeholders instead of failing the transaction.
func (s *approvalService) lookupNames(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest) displayNames {
	names := displayNames{
		program:  "a loyalty program",
		business: "the business",
		customer: "a customer",
	}

	programID := req.EntityID
	if req.RequestType == domain.ApprovalPointsDeduction {
		if card, err := tx.Card.GetByID(ctx, req.EntityID); err == nil && card != nil {
			programID = card.ProgramID
		}
	}
	if program, err := tx.Program.GetByID(ctx, programID); err == nil && program != nil {
		names.program = program.Name
	}
	if business, err := tx.Business.GetByID(ctx, req.BusinessID); err == nil && business != nil {
		names.business = business.Name
	}
	if customer, err := tx.User.GetByID(ctx, req.CustomerID); err == nil && customer != nil {
		names.customer = customer.FullName
	}

	return names
}

func (s *approvalService) notifyBusiness(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest, names displayNames, approve bool) error {
	decision := "declined"
	if approve {
		decision = "approved"
	}

	data, _ := json.Marshal(map[string]string{
		"approval_request_id": req.ID.String(),
		"customer_id":         req.CustomerID.String(),
		"decision":            decision,
	})

	return tx.Notification.Create(ctx, &domain.Notification{
		ID:         uuid.New(),
		CustomerID: &req.CustomerID,
		BusinessID: &req.BusinessID,
		Audience:   domain.AudienceBusiness,
		Type:       domain.NotifCustomerResponse,
		Title:      "Customer Response",
		Message:    fmt.Sprintf("%s %s your %s request", names.customer, decision, requestLabel(req.RequestType)),
		Data:       data,
	})
}

func (s *approvalService) notifyCustomer(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest, names displayNames, approve bool) error {
	notif := &domain.Notification{
		ID:         uuid.New(),
		CustomerID: &req.CustomerID,
		BusinessID: &req.BusinessID,
		Audience:   domain.AudienceCustomer,
	}

	switch {
	case req.RequestType == domain.ApprovalEnrollment && approve:
		notif.Type = domain.NotifEnrollmentSuccess
		notif.Title = "Enrollment Confirmed"
		notif.Message = fmt.Sprintf("You joined %q by %s", names.program, names.business)
	case req.RequestType == domain.ApprovalEnrollment:
		notif.Type = domain.NotifEnrollmentDeclined
		notif.Title = "Invitation Declined"
		notif.Message = fmt.Sprintf("You declined the invitation to %q from %s", names.program, names.business)
	case approve:
		notif.Type = domain.NotifPointsDeducted
		notif.Title = "Points Deducted"
		notif.Message = fmt.Sprintf("You approved the points deduction requested by %s", names.business)
	default:
		notif.Type = domain.NotifCustomerResponse
		notif.Title = "Deduction Declined"
		notif.Message = fmt.Sprintf("You declined the points deduction requested by %s", names.business)
	}

	data, _ := json.Marshal(map[string]string{"approval_request_id": req.ID.String()})
	notif.Data = data

	return tx.Notification.Create(ctx, notif)
}

func (s *approvalService) applyEnrollment(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest, names displayNames) (*uuid.UUID, error) {
	enrollment := &domain.ProgramEnrollment{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		ProgramID:  req.EntityID,
		BusinessID: req.BusinessID,
		Status:     domain.EnrollmentActive,
	}
	if err := tx.Enrollment.Upsert(ctx, enrollment); err != nil {
		return nil, err
	}

	card, err := s.getOrCreateCard(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(map[string]string{
		"card_id":     card.ID.String(),
		"card_number": card.CardNumber,
		"program_id":  req.EntityID.String(),
	})
	dedupeKey := fmt.Sprintf("card_created:%s:%s", req.CustomerID, req.EntityID)
	if _, err := tx.Notification.CreateDeduped(ctx, &domain.Notification{
		ID:         uuid.New(),
		CustomerID: &req.CustomerID,
		BusinessID: &req.BusinessID,
		Audience:   domain.AudienceCustomer,
		Type:       domain.NotifCardCreated,
		Title:      "Loyalty Card Ready",
		Message:    fmt.Sprintf("Your card for %q is ready: %s", names.program, card.CardNumber),
		Data:       data,
	}, dedupeKey); err != nil {
		return nil, err
	}

	return &card.ID, nil
}

func (s *approvalService) getOrCreateCard(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest) (*domain.LoyaltyCard, error) {
	card, err := tx.Card.GetByCustomerProgram(ctx, req.CustomerID, req.EntityID)
	if err != nil {
		return nil, err
	}
	if card != nil {
		return card, nil
	}

	prefix := ""
	if program, err := tx.Program.GetByID(ctx, req.EntityID); err == nil && program != nil {
		prefix = program.CardPrefix
	}

	card = &domain.LoyaltyCard{
		ID:               uuid.New(),
		CustomerID:       req.CustomerID,
		ProgramID:        req.EntityID,
		BusinessID:       req.BusinessID,
		CardNumber:       domain.NewCardNumber(prefix, time.Now()),
		Status:           domain.CardActive,
		Tier:             domain.TierBronze,
		PointsMultiplier: domain.MultiplierForTier(domain.TierBronze),
	}

	inserted, err := tx.Card.CreateIfAbsent(ctx, card)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// lost a race with a concurrent approval for the same pair
		return tx.Card.GetByCustomerProgram(ctx, req.CustomerID, req.EntityID)
	}
	return card, nil
}

func (s *approvalService) applyDeduction(ctx context.Context, tx *repository.Repositories, req *domain.ApprovalRequest, names displayNames) (*uuid.UUID, error) {
	var payload domain.DeductionPayload
	if err := json.Unmarshal(req.Data, &payload); err != nil {
		return nil, fmt.Errorf("invalid deduction payload: %w", err)
	}
	if payload.Points <= 0 {
		return nil, errors.New("deduction amount must be positive")
	}

	card, err := tx.Card.GetByID(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	if err := tx.Card.DeductPoints(ctx, card.ID, payload.Points); err != nil {
		return nil, err
	}

	if enrollment, err := tx.Enrollment.GetByCustomerProgram(ctx, card.CustomerID, card.ProgramID); err != nil {
		return nil, err
	} else if enrollment != nil {
		if err := tx.Enrollment.DeductPoints(ctx, enrollment.ID, payload.Points); err != nil {
			return nil, err
		}
	}

	ledger := &domain.PointTransaction{
		ID:           uuid.New(),
		CardID:       card.ID,
		CustomerID:   card.CustomerID,
		BusinessID:   card.BusinessID,
		ProgramID:    card.ProgramID,
		Type:         domain.TransactionDeduct,
		Points:       payload.Points,
		BalanceAfter: card.Points - payload.Points,
		Note:         payload.Reason,
	}
	if err := tx.Points.Create(ctx, ledger); err != nil {
		return nil, err
	}

	return &card.ID, nil
}

// afterProcess handles the side effects that must not join the transaction:
// bus events, the decision email and the audit trail.
func (s *approvalService) afterProcess(ctx context.Context, req *domain.ApprovalRequest, approve bool) {
	if req == nil {
		return
	}

	topic := events.TopicEnrollmentDecided
	if req.RequestType == domain.ApprovalPointsDeduction {
		topic = events.TopicPointsDeducted
	}
	s.bus.Publish(events.Event{
		Topic:      topic,
		CustomerID: req.CustomerID,
		BusinessID: req.BusinessID,
		ProgramID:  req.EntityID,
		Approved:   approve,
	})

	if req.RequestType == domain.ApprovalEnrollment {
		go s.sendDecisionEmail(req, approve)
	}

	newStatus := domain.ApprovalRejected
	if approve {
		newStatus = domain.ApprovalApproved
	}
	action := "REJECT_APPROVAL_REQUEST"
	if approve {
		action = "APPROVE_APPROVAL_REQUEST"
	}
	s.logAudit(ctx, req.CustomerID, action, "APPROVAL_REQUEST", req.ID,
		json.RawMessage(`{"status":"PENDING"}`),
		json.RawMessage(fmt.Sprintf(`{"status":%q}`, newStatus)))
}

func (s *approvalService) sendDecisionEmail(req *domain.ApprovalRequest, approve bool) {
	ctx := context.Background()

	customer, err := s.repos.User.GetByID(ctx, req.CustomerID)
	if err != nil || customer == nil {
		return
	}

	names := s.lookupNames(ctx, s.repos, req)
	if err := s.emailService.SendDecisionEmail(ctx, customer.Email, customer.FullName, names.business, names.program, approve); err != nil {
		log.Printf("Failed to send decision email: %v", err)
	}
}

func (s *approvalService) logAudit(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValue, newValue json.RawMessage) {
	audit := &domain.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		OldValue:   oldValue,
		NewValue:   newValue,
	}
	if err := s.repos.AuditLog.Create(ctx, audit); err != nil {
		log.Printf("Failed to write audit log: %v", err)
	}
}

func requestLabel(t domain.ApprovalType) string {
	switch t {
	case domain.ApprovalEnrollment:
		return "enrollment"
	case domain.ApprovalPointsDeduction:
		return "points deduction"
	default:
		return string(t)
	}
}
