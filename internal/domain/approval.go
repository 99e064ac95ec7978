package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApprovalRequest is a pending yes/no decision a customer must make about a
// business-initiated action. Terminal once status leaves PENDING.
type ApprovalRequest struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	NotificationID uuid.UUID       `json:"notification_id" db:"notification_id"`
	CustomerID     uuid.UUID       `json:"customer_id" db:"customer_id"`
	BusinessID     uuid.UUID       `json:"business_id" db:"business_id"`
	RequestType    ApprovalType    `json:"request_type" db:"request_type"`
	EntityID       uuid.UUID       `json:"entity_id" db:"entity_id"`
	Status         ApprovalStatus  `json:"status" db:"status"`
	Data           json.RawMessage `json:"data,omitempty" db:"data"`
	RequestedAt    time.Time       `json:"requested_at" db:"requested_at"`
	RespondedAt    *time.Time      `json:"responded_at,omitempty" db:"responded_at"`
	ExpiresAt      time.Time       `json:"expires_at" db:"expires_at"`

	Business *Business       `json:"business,omitempty" db:"-"`
	Program  *LoyaltyProgram `json:"program,omitempty" db:"-"`
}

type ApprovalType string

const (
	ApprovalEnrollment      ApprovalType = "ENROLLMENT"
	ApprovalPointsDeduction ApprovalType = "POINTS_DEDUCTION"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

type EnrollmentRequestInput struct {
	ProgramID  uuid.UUID `json:"program_id" validate:"required"`
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
}

type DeductionRequestInput struct {
	CardID uuid.UUID `json:"card_id" validate:"required"`
	Points int       `json:"points" validate:"required,min=1"`
	Reason *string   `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// DeductionPayload rides in ApprovalRequest.Data for POINTS_DEDUCTION requests.
type DeductionPayload struct {
	Points int     `json:"points"`
	Reason *string `json:"reason,omitempty"`
}
