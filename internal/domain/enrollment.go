package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgramEnrollment records a customer's participation in one loyalty program.
// At most one row exists per (customer_id, program_id); an approved enrollment
// request reactivates a non-ACTIVE row instead of duplicating it.
type ProgramEnrollment struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	CustomerID        uuid.UUID        `json:"customer_id" db:"customer_id"`
	ProgramID         uuid.UUID        `json:"program_id" db:"program_id"`
	BusinessID        uuid.UUID        `json:"business_id" db:"business_id"`
	Status            EnrollmentStatus `json:"status" db:"status"`
	CurrentPoints     int              `json:"current_points" db:"current_points"`
	TotalPointsEarned int              `json:"total_points_earned" db:"total_points_earned"`
	EnrolledAt        time.Time        `json:"enrolled_at" db:"enrolled_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "ACTIVE"
	EnrollmentInactive EnrollmentStatus = "INACTIVE"
)

// CustomerBusinessRelationship is upserted on every approval decision,
// recording the outcome regardless of whether an enrollment was created.
type CustomerBusinessRelationship struct {
	CustomerID uuid.UUID          `json:"customer_id" db:"customer_id"`
	BusinessID uuid.UUID          `json:"business_id" db:"business_id"`
	Status     RelationshipStatus `json:"status" db:"status"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" db:"updated_at"`

	Business *Business `json:"business,omitempty" db:"-"`
}

type RelationshipStatus string

const (
	RelationshipActive   RelationshipStatus = "ACTIVE"
	RelationshipDeclined RelationshipStatus = "DECLINED"
)
