package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	CustomerID     *uuid.UUID       `json:"customer_id,omitempty" db:"customer_id"`
	BusinessID     *uuid.UUID       `json:"business_id,omitempty" db:"business_id"`
	Audience       Audience         `json:"audience" db:"audience"`
	Type           NotificationType `json:"type" db:"type"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	Data           json.RawMessage  `json:"data,omitempty" db:"data"`
	RequiresAction bool             `json:"requires_action" db:"requires_action"`
	ActionTaken    bool             `json:"action_taken" db:"action_taken"`
	IsRead         bool             `json:"is_read" db:"is_read"`
	DedupeKey      *string          `json:"-" db:"dedupe_key"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	ReadAt         *time.Time       `json:"read_at,omitempty" db:"read_at"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty" db:"expires_at"`
}

type Audience string

const (
	AudienceCustomer Audience = "CUSTOMER"
	AudienceBusiness Audience = "BUSINESS"
)

type NotificationType string

const (
	NotifEnrollmentRequest       NotificationType = "ENROLLMENT_REQUEST"
	NotifEnrollmentSuccess       NotificationType = "ENROLLMENT_SUCCESS"
	NotifEnrollmentDeclined      NotificationType = "ENROLLMENT_DECLINED"
	NotifPointsAdded             NotificationType = "POINTS_ADDED"
	NotifPointsDeducted          NotificationType = "POINTS_DEDUCTED"
	NotifPointsDeductionRequest  NotificationType = "POINTS_DEDUCTION_REQUEST"
	NotifPromoCode               NotificationType = "PROMO_CODE"
	NotifQRScanned               NotificationType = "QR_SCANNED"
	NotifCardCreated             NotificationType = "CARD_CREATED"
	NotifCustomerResponse        NotificationType = "CUSTOMER_RESPONSE"
)

type NotificationFilter struct {
	UnreadOnly bool
	Type       *NotificationType
}
