package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoyaltyProgram struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	BusinessID     uuid.UUID  `json:"business_id" db:"business_id"`
	Name           string     `json:"name" db:"name"`
	Description    *string    `json:"description,omitempty" db:"description"`
	PointsPerVisit int        `json:"points_per_visit" db:"points_per_visit"`
	CardPrefix     string     `json:"card_prefix" db:"card_prefix"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProgramInput struct {
	Name           string  `json:"name" validate:"required,min=2"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PointsPerVisit int     `json:"points_per_visit" validate:"omitempty,min=1"`
	CardPrefix     string  `json:"card_prefix" validate:"omitempty,min=2,max=6"`
}

type UpdateProgramInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PointsPerVisit *int    `json:"points_per_visit,omitempty" validate:"omitempty,min=1"`
	IsActive       *bool   `json:"is_active,omitempty"`
}
