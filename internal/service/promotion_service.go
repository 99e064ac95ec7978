package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

var ErrPromotionWindow = errors.New("promotion must end after it starts")

type PromotionService interface {
	Create(ctx context.Context, callerID uuid.UUID, input domain.CreatePromotionInput) (*domain.Promotion, error)
	ListForBusiness(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error)
	// ListForCustomer degrades to an empty page on any backend fault.
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64)
}

type promotionService struct {
	repos *repository.Repositories
	bus   *events.Bus
}

func NewPromotionService(repos *repository.Repositories, bus *events.Bus) PromotionService {
	return &promotionService{repos: repos, bus: bus}
}

// Create stores the promotion and fans a PROMO_CODE notification out to every
// actively enrolled customer. Fan-out runs after the insert; a partial fan-out
// leaves the promotion in place and is surfaced only in the logs.
func (s *promotionService) Create(ctx context.Context, callerID uuid.UUID, input domain.CreatePromotionInput) (*domain.Promotion, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	if !input.EndsAt.After(input.StartsAt) {
		return nil, ErrPromotionWindow
	}

	if input.ProgramID != nil {
		program, err := s.repos.Program.GetByID(ctx, *input.ProgramID)
		if err != nil {
			return nil, err
		}
		if program == nil || program.BusinessID != business.ID {
			return nil, ErrProgramNotFound
		}
	}

	promo := &domain.Promotion{
		ID:          uuid.New(),
		BusinessID:  business.ID,
		ProgramID:   input.ProgramID,
		Title:       input.Title,
		Description: input.Description,
		PromoCode:   input.PromoCode,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	if err := s.repos.Promotion.Create(ctx, promo); err != nil {
		return nil, err
	}

	customerIDs, err := s.repos.Enrollment.ListActiveCustomerIDs(ctx, business.ID, input.ProgramID)
	if err != nil {
		log.Printf("promo fan-out skipped for promotion %s: %v", promo.ID, err)
		return promo, nil
	}

	data, _ := json.Marshal(map[string]string{
		"promotion_id": promo.ID.String(),
		"promo_code":   promo.PromoCode,
	})
	expiresAt := promo.EndsAt
	for _, customerID := range customerIDs {
		cid := customerID
		notif := &domain.Notification{
			ID:         uuid.New(),
			CustomerID: &cid,
			BusinessID: &business.ID,
			Audience:   domain.AudienceCustomer,
			Type:       domain.NotifPromoCode,
			Title:      promo.Title,
			Message:    fmt.Sprintf("%s: use code %s before %s", business.Name, promo.PromoCode, promo.EndsAt.Format("Jan 2, 2006")),
			Data:       data,
			ExpiresAt:  &expiresAt,
		}
		if err := s.repos.Notification.Create(ctx, notif); err != nil {
			log.Printf("promo notification failed for customer %s: %v", cid, err)
		}
	}

	s.bus.Publish(events.Event{
		Topic:      events.TopicPromotionCreated,
		BusinessID: business.ID,
	})

	return promo, nil
}

func (s *promotionService) ListForBusiness(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}
	if business == nil {
		return nil, 0, ErrBusinessNotFound
	}
	return s.repos.Promotion.ListByBusiness(ctx, business.ID, params)
}

func (s *promotionService) ListForCustomer(ctx context.Context, customerID uuid.UUID, params domain.PaginationParams) ([]domain.Promotion, int64) {
	promos, total, err := s.repos.Promotion.ListCurrentForCustomer(ctx, customerID, params)
	if err != nil {
		log.Printf("promotion list degraded to empty for customer %s: %v", customerID, err)
		return []domain.Promotion{}, 0
	}
	if promos == nil {
		promos = []domain.Promotion{}
	}
	return promos, total
}
