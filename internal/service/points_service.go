package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

var (
	ErrCardInactive       = errors.New("loyalty card is not active")
	ErrEnrollmentInactive = errors.New("customer is not actively enrolled in this program")
	ErrAccessDenied       = errors.New("you do not have access to this resource")
)

type PointsService interface {
	AwardPoints(ctx context.Context, callerID uuid.UUID, input domain.AwardPointsInput) (*domain.PointTransaction, error)
	HistoryForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error)
	HistoryForCard(ctx context.Context, caller *domain.User, cardID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error)
}

type pointsService struct {
	repos *repository.Repositories
	bus   *events.Bus
}

func NewPointsService(repos *repository.Repositories, bus *events.Bus) PointsService {
	return &pointsService{repos: repos, bus: bus}
}

// AwardPoints credits a card after a visit. The tier multiplier in effect
// before the award is applied to the base amount, then the tier is recomputed
// from the new lifetime total.
func (s *pointsService) AwardPoints(ctx context.Context, callerID uuid.UUID, input domain.AwardPointsInput) (*domain.PointTransaction, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	card, err := s.repos.Card.GetByNumber(ctx, input.CardNumber)
	if err != nil {
		return nil, err
	}
	if card == nil || card.BusinessID != business.ID {
		return nil, ErrCardNotFound
	}
	if card.Status != domain.CardActive {
		return nil, ErrCardInactive
	}

	enrollment, err := s.repos.Enrollment.GetByCustomerProgram(ctx, card.CustomerID, card.ProgramID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil || enrollment.Status != domain.EnrollmentActive {
		return nil, ErrEnrollmentInactive
	}

	earned := int(float64(input.Points) * card.PointsMultiplier)
	newTotal := enrollment.TotalPointsEarned + earned
	newTier := domain.TierForTotal(newTotal)
	newMultiplier := domain.MultiplierForTier(newTier)

	ledger := &domain.PointTransaction{
		ID:           uuid.New(),
		CardID:       card.ID,
		CustomerID:   card.CustomerID,
		BusinessID:   card.BusinessID,
		ProgramID:    card.ProgramID,
		Type:         domain.TransactionEarn,
		Points:       earned,
		BalanceAfter: card.Points + earned,
		Note:         input.Note,
	}

	err = s.repos.WithinTx(ctx, func(tx *repository.Repositories) error {
		if err := tx.Card.AddPoints(ctx, card.ID, earned, newTier, newMultiplier); err != nil {
			return err
		}
		if err := tx.Enrollment.AddPoints(ctx, enrollment.ID, earned); err != nil {
			return err
		}
		if err := tx.Points.Create(ctx, ledger); err != nil {
			return err
		}

		data, _ := json.Marshal(map[string]interface{}{
			"card_id": card.ID.String(),
			"points":  earned,
			"balance": ledger.BalanceAfter,
			"tier":    string(newTier),
		})
		if err := tx.Notification.Create(ctx, &domain.Notification{
			ID:         uuid.New(),
			CustomerID: &card.CustomerID,
			BusinessID: &card.BusinessID,
			Audience:   domain.AudienceCustomer,
			Type:       domain.NotifPointsAdded,
			Title:      "Points Added",
			Message:    fmt.Sprintf("You earned %d points at %s. New balance: %d", earned, business.Name, ledger.BalanceAfter),
			Data:       data,
		}); err != nil {
			return err
		}

		scanData, _ := json.Marshal(map[string]string{
			"card_id":     card.ID.String(),
			"customer_id": card.CustomerID.String(),
		})
		return tx.Notification.Create(ctx, &domain.Notification{
			ID:         uuid.New(),
			CustomerID: &card.CustomerID,
			BusinessID: &card.BusinessID,
			Audience:   domain.AudienceBusiness,
			Type:       domain.NotifQRScanned,
			Title:      "Card Scanned",
			Message:    fmt.Sprintf("Card %s scanned, %d points awarded", card.CardNumber, earned),
			Data:       scanData,
		})
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Topic:      events.TopicPointsAwarded,
		CustomerID: card.CustomerID,
		BusinessID: card.BusinessID,
		ProgramID:  card.ProgramID,
		Points:     earned,
	})

	return ledger, nil
}

func (s *pointsService) HistoryForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	return s.repos.Points.ListByCustomer(ctx, customerID, params)
}

func (s *pointsService) HistoryForCard(ctx context.Context, caller *domain.User, cardID uuid.UUID, params domain.PaginationParams) ([]domain.PointTransaction, int64, error) {
	card, err := s.repos.Card.GetByID(ctx, cardID)
	if err != nil {
		return nil, 0, err
	}
	if card == nil {
		return nil, 0, ErrCardNotFound
	}

	if card.CustomerID != caller.ID && !caller.IsAdmin() {
		business, err := s.repos.Business.GetByOwnerID(ctx, caller.ID)
		if err != nil {
			return nil, 0, err
		}
		if business == nil || business.ID != card.BusinessID {
			return nil, 0, ErrAccessDenied
		}
	}

	return s.repos.Points.ListByCard(ctx, cardID, params)
}
