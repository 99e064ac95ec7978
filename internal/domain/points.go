package domain

import (
	"time"

	"github.com/google/uuid"
)

type PointTransaction struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	CardID       uuid.UUID       `json:"card_id" db:"card_id"`
	CustomerID   uuid.UUID       `json:"customer_id" db:"customer_id"`
	BusinessID   uuid.UUID       `json:"business_id" db:"business_id"`
	ProgramID    uuid.UUID       `json:"program_id" db:"program_id"`
	Type         TransactionType `json:"type" db:"type"`
	Points       int             `json:"points" db:"points"`
	BalanceAfter int             `json:"balance_after" db:"balance_after"`
	Note         *string         `json:"note,omitempty" db:"note"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type TransactionType string

const (
	TransactionEarn   TransactionType = "EARN"
	TransactionDeduct TransactionType = "DEDUCT"
)

type AwardPointsInput struct {
	CardNumber string  `json:"card_number" validate:"required"`
	Points     int     `json:"points" validate:"required,min=1"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=500"`
}
