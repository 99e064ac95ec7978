package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/repository"
)

// CustomerService serves the customer-facing read surface: cards and business
// relationships. Listings degrade to empty slices on backend faults so the
// customer home screen stays up.
type CustomerService interface {
	ListCards(ctx context.Context, customerID uuid.UUID) []domain.LoyaltyCard
	ListRelationships(ctx context.Context, customerID uuid.UUID) []domain.CustomerBusinessRelationship
	GetCard(ctx context.Context, caller *domain.User, cardID uuid.UUID) (*domain.LoyaltyCard, error)
}

type customerService struct {
	repos *repository.Repositories
}

func NewCustomerService(repos *repository.Repositories) CustomerService {
	return &customerService{repos: repos}
}

func (s *customerService) ListCards(ctx context.Context, customerID uuid.UUID) []domain.LoyaltyCard {
	cards, err := s.repos.Card.ListByCustomer(ctx, customerID)
	if err != nil {
		log.Printf("card list degraded to empty for customer %s: %v", customerID, err)
		return []domain.LoyaltyCard{}
	}
	if cards == nil {
		return []domain.LoyaltyCard{}
	}
	return cards
}

func (s *customerService) ListRelationships(ctx context.Context, customerID uuid.UUID) []domain.CustomerBusinessRelationship {
	rels, err := s.repos.Relationship.ListByCustomer(ctx, customerID)
	if err != nil {
		log.Printf("relationship list degraded to empty for customer %s: %v", customerID, err)
		return []domain.CustomerBusinessRelationship{}
	}
	if rels == nil {
		return []domain.CustomerBusinessRelationship{}
	}
	return rels
}

func (s *customerService) GetCard(ctx context.Context, caller *domain.User, cardID uuid.UUID) (*domain.LoyaltyCard, error) {
	card, err := s.repos.Card.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if card.CustomerID != caller.ID && !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}
	return card, nil
}
