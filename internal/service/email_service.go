package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"loyalty-platform/internal/config"
)

type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
	SendEnrollmentInvitation(ctx context.Context, toEmail, customerName, businessName, programName string) error
	SendDecisionEmail(ctx context.Context, toEmail, customerName, businessName, programName string, approved bool) error
}

type emailService struct {
	client *resend.Client
	cfg    *config.Config
}

func NewEmailService(cfg *config.Config) EmailService {
	return &emailService{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

var emailTemplate = template.Must(template.New("email").Parse(`
<div style="font-family:sans-serif;max-width:560px;margin:0 auto">
  <h2 style="color:{{.Color}}">{{.Title}}</h2>
  <p>Hi {{.Name}},</p>
  <p>{{.Body}}</p>
  {{if .Link}}<p><a href="{{.Link}}">{{.LinkLabel}}</a></p>{{end}}
</div>`))

type emailData struct {
	Title     string
	Name      string
	Body      string
	Link      string
	LinkLabel string
	Color     string
}

func (s *emailService) sendEmail(toEmail, subject string, data emailData) error {
	if data.Color == "" {
		data.Color = "#10b981"
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Loyalty Platform <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}

func (s *emailService) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	return s.sendEmail(toEmail, "Welcome to Loyalty Platform", emailData{
		Title:     "Welcome!",
		Name:      fullName,
		Body:      "Your account is ready. Sign in to start collecting points.",
		Link:      fmt.Sprintf("https://%s/login", s.cfg.Domain),
		LinkLabel: "Sign in",
	})
}

func (s *emailService) SendEnrollmentInvitation(ctx context.Context, toEmail, customerName, businessName, programName string) error {
	return s.sendEmail(toEmail, fmt.Sprintf("%s invited you to %s", businessName, programName), emailData{
		Title:     "Loyalty Program Invitation",
		Name:      customerName,
		Body:      fmt.Sprintf("%s invited you to join their loyalty program %q. Open the app to accept or decline.", businessName, programName),
		Link:      fmt.Sprintf("https://%s/notifications", s.cfg.Domain),
		LinkLabel: "Review invitation",
	})
}

func (s *emailService) SendDecisionEmail(ctx context.Context, toEmail, customerName, businessName, programName string, approved bool) error {
	if approved {
		return s.sendEmail(toEmail, fmt.Sprintf("You joined %s", programName), emailData{
			Title: "Enrollment confirmed",
			Name:  customerName,
			Body:  fmt.Sprintf("You are now enrolled in %q by %s. Your loyalty card is ready.", programName, businessName),
		})
	}

	return s.sendEmail(toEmail, fmt.Sprintf("Invitation from %s declined", businessName), emailData{
		Title: "Invitation declined",
		Name:  customerName,
		Body:  fmt.Sprintf("You declined the invitation to %q from %s.", programName, businessName),
		Color: "#ef4444",
	})
}
