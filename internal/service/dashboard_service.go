package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

type BusinessStats struct {
	ActiveCustomers   int64 `json:"active_customers"`
	ActiveCards       int64 `json:"active_cards"`
	TotalPointsIssued int64 `json:"total_points_issued"`
	PendingApprovals  int64 `json:"pending_approvals"`
}

type DashboardService interface {
	GetBusinessStats(ctx context.Context, callerID uuid.UUID) (*BusinessStats, error)
	// StartInvalidation consumes bus events and drops cached stats for the
	// affected business. Returns when the bus closes or ctx is cancelled.
	StartInvalidation(ctx context.Context)
}

type dashboardService struct {
	repos *repository.Repositories
	redis *redis.Client
	bus   *events.Bus
}

func NewDashboardService(repos *repository.Repositories, redisClient *redis.Client, bus *events.Bus) DashboardService {
	return &dashboardService{
		repos: repos,
		redis: redisClient,
		bus:   bus,
	}
}

func statsCacheKey(businessID uuid.UUID) string {
	return fmt.Sprintf("dashboard:stats:%s", businessID)
}

func (s *dashboardService) GetBusinessStats(ctx context.Context, callerID uuid.UUID) (*BusinessStats, error) {
	business, err := s.repos.Business.GetByOwnerID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}

	cacheKey := statsCacheKey(business.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats BusinessStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	activeCustomers, err := s.repos.Enrollment.CountActiveByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	activeCards, err := s.repos.Card.CountActiveByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	pointsIssued, err := s.repos.Points.SumEarnedByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	pendingApprovals, err := s.repos.Approval.CountPendingByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	stats := &BusinessStats{
		ActiveCustomers:   activeCustomers,
		ActiveCards:       activeCards,
		TotalPointsIssued: pointsIssued,
		PendingApprovals:  pendingApprovals,
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, time.Minute).Err()
		}
	}

	return stats, nil
}

func (s *dashboardService) StartInvalidation(ctx context.Context) {
	if s.redis == nil || s.bus == nil {
		return
	}

	ch := s.bus.Subscribe(
		events.TopicPointsAwarded,
		events.TopicPointsDeducted,
		events.TopicEnrollmentDecided,
		events.TopicPromotionCreated,
	)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			_ = s.redis.Del(context.Background(), statsCacheKey(ev.BusinessID)).Err()
		}
	}
}
