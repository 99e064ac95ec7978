package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/repository"
)

type ProgramService interface {
	Create(ctx context.Context, callerID uuid.UUID, input domain.CreateProgramInput) (*domain.LoyaltyProgram, error)
	Update(ctx context.Context, callerID uuid.UUID, programID uuid.UUID, input domain.UpdateProgramInput) (*domain.LoyaltyProgram, error)
	GetByID(ctx context.Context, programID uuid.UUID) (*domain.LoyaltyProgram, error)
	ListForBusiness(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) ([]domain.LoyaltyProgram, int64, error)
	UpdateBusiness(ctx context.Context, callerID uuid.UUID, input domain.UpdateBusinessInput) (*domain.Business, error)
	GetBusiness(ctx context.Context, callerID uuid.UUID) (*domain.Business, error)
}

type programService struct {
	repos *repository.Repositories
}

func NewProgramService(repos *repository.Repositories) ProgramService {
	return &programService{repos: repos}
}

const defaultCardPrefix = "LYL"

func (s *programService) Create(ctx context.Context, callerID uuid.UUID, input domain.CreateProgramInput) (*domain.LoyaltyProgram, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	prefix := strings.ToUpper(strings.TrimSpace(input.CardPrefix))
	if prefix == "" {
		prefix = defaultCardPrefix
	}
	pointsPerVisit := input.PointsPerVisit
	if pointsPerVisit <= 0 {
		pointsPerVisit = 10
	}

	program := &domain.LoyaltyProgram{
		ID:             uuid.New(),
		BusinessID:     business.ID,
		Name:           input.Name,
		Description:    input.Description,
		PointsPerVisit: pointsPerVisit,
		CardPrefix:     prefix,
		IsActive:       true,
	}
	if err := s.repos.Program.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Update(ctx context.Context, callerID uuid.UUID, programID uuid.UUID, input domain.UpdateProgramInput) (*domain.LoyaltyProgram, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	program, err := s.repos.Program.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil || program.BusinessID != business.ID {
		return nil, ErrProgramNotFound
	}

	if input.Name != nil {
		program.Name = *input.Name
	}
	if input.Description != nil {
		program.Description = input.Description
	}
	if input.PointsPerVisit != nil {
		program.PointsPerVisit = *input.PointsPerVisit
	}
	if input.IsActive != nil {
		program.IsActive = *input.IsActive
	}

	if err := s.repos.Program.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) GetByID(ctx context.Context, programID uuid.UUID) (*domain.LoyaltyProgram, error) {
	program, err := s.repos.Program.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	return program, nil
}

func (s *programService) ListForBusiness(ctx context.Context, callerID uuid.UUID, params domain.PaginationParams) ([]domain.LoyaltyProgram, int64, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}
	if business == nil {
		return nil, 0, ErrBusinessNotFound
	}
	return s.repos.Program.ListByBusiness(ctx, business.ID, params)
}

func (s *programService) UpdateBusiness(ctx context.Context, callerID uuid.UUID, input domain.UpdateBusinessInput) (*domain.Business, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	if input.Name != nil {
		business.Name = *input.Name
	}
	if input.Description != nil {
		business.Description = input.Description
	}

	if err := s.repos.Business.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *programService) GetBusiness(ctx context.Context, callerID uuid.UUID) (*domain.Business, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}
