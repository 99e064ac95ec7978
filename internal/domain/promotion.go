package domain

import (
	"time"

	"github.com/google/uuid"
)

type Promotion struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BusinessID  uuid.UUID  `json:"business_id" db:"business_id"`
	ProgramID   *uuid.UUID `json:"program_id,omitempty" db:"program_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	PromoCode   string     `json:"promo_code" db:"promo_code"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time  `json:"ends_at" db:"ends_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (p *Promotion) IsCurrent(now time.Time) bool {
	return !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

type CreatePromotionInput struct {
	ProgramID   *uuid.UUID `json:"program_id,omitempty"`
	Title       string     `json:"title" validate:"required,min=2"`
	Description string     `json:"description" validate:"required"`
	PromoCode   string     `json:"promo_code" validate:"required,min=3,max=32"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      time.Time  `json:"ends_at" validate:"required"`
}
