package service

import (
	"context"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
	"loyalty-platform/internal/repository"
)

type AuditService interface {
	GetRecentActivities(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditService(auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		auditRepo: auditRepo,
	}
}

func (s *auditService) GetRecentActivities(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.auditRepo.ListRecentByUser(ctx, userID, limit)
}
