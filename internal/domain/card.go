package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// LoyaltyCard is created lazily the first time an enrollment is approved and
// reused on subsequent approvals for the same (customer, program) pair.
type LoyaltyCard struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CustomerID       uuid.UUID  `json:"customer_id" db:"customer_id"`
	ProgramID        uuid.UUID  `json:"program_id" db:"program_id"`
	BusinessID       uuid.UUID  `json:"business_id" db:"business_id"`
	CardNumber       string     `json:"card_number" db:"card_number"`
	Status           CardStatus `json:"status" db:"status"`
	Points           int        `json:"points" db:"points"`
	Tier             CardTier   `json:"tier" db:"tier"`
	PointsMultiplier float64    `json:"points_multiplier" db:"points_multiplier"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

type CardStatus string

const (
	CardActive  CardStatus = "ACTIVE"
	CardBlocked CardStatus = "BLOCKED"
)

type CardTier string

const (
	TierBronze   CardTier = "bronze"
	TierSilver   CardTier = "silver"
	TierGold     CardTier = "gold"
	TierPlatinum CardTier = "platinum"
)

const (
	silverThreshold   = 500
	goldThreshold     = 2000
	platinumThreshold = 5000
)

// TierForTotal maps lifetime earned points to a tier.
func TierForTotal(totalEarned int) CardTier {
	switch {
	case totalEarned >= platinumThreshold:
		return TierPlatinum
	case totalEarned >= goldThreshold:
		return TierGold
	case totalEarned >= silverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// MultiplierForTier returns the earn multiplier applied when awarding points.
func MultiplierForTier(tier CardTier) float64 {
	switch tier {
	case TierPlatinum:
		return 2.0
	case TierGold:
		return 1.5
	case TierSilver:
		return 1.25
	default:
		return 1.0
	}
}

// NewCardNumber generates a card number as <prefix>-yyMMdd-HHmmss-<4 digits>.
// Uniqueness is enforced by the database; collisions within the same second
// are retried by the caller.
func NewCardNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "LYL"
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("060102-150405"), rand.Intn(10000))
}
