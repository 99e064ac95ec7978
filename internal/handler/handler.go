package handler

import "loyalty-platform/internal/service"

type Handlers struct {
	Auth         *AuthHandler
	Notification *NotificationHandler
	Approval     *ApprovalHandler
	Program      *ProgramHandler
	Points       *PointsHandler
	Promotion    *PromotionHandler
	Customer     *CustomerHandler
	Dashboard    *DashboardHandler
	Media        *MediaHandler
	Audit        *AuditHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Notification: NewNotificationHandler(services.Notification, services.Program),
		Approval:     NewApprovalHandler(services.Approval),
		Program:      NewProgramHandler(services.Program, services.Media),
		Points:       NewPointsHandler(services.Points),
		Promotion:    NewPromotionHandler(services.Promotion),
		Customer:     NewCustomerHandler(services.Customer),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Media:        NewMediaHandler(services.Media),
		Audit:        NewAuditHandler(services.Audit),
	}
}
