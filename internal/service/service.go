package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"loyalty-platform/internal/config"
	"loyalty-platform/internal/events"
	"loyalty-platform/internal/repository"
)

type Services struct {
	Auth         AuthService
	Email        EmailService
	Notification NotificationService
	Approval     ApprovalService
	Points       PointsService
	Promotion    PromotionService
	Program      ProgramService
	Customer     CustomerService
	Dashboard    DashboardService
	Media        MediaService
	Audit        AuditService
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, bus *events.Bus, cfg *config.Config) *Services {
	emailService := NewEmailService(cfg)
	authService := NewAuthService(repos.User, repos.Session, repos.Business, emailService, cfg)
	notificationService := NewNotificationService(repos.Notification)
	approvalService := NewApprovalService(repos, emailService, bus, cfg)
	pointsService := NewPointsService(repos, bus)
	promotionService := NewPromotionService(repos, bus)
	programService := NewProgramService(repos)
	customerService := NewCustomerService(repos)
	dashboardService := NewDashboardService(repos, redisClient, bus)
	mediaService := NewMediaService(repos, minioClient, cfg)
	auditService := NewAuditService(repos.AuditLog)

	return &Services{
		Auth:         authService,
		Email:        emailService,
		Notification: notificationService,
		Approval:     approvalService,
		Points:       pointsService,
		Promotion:    promotionService,
		Program:      programService,
		Customer:     customerService,
		Dashboard:    dashboardService,
		Media:        mediaService,
		Audit:        auditService,
	}
}
