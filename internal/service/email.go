package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/allertrack/backend/config"
	"github.com/pageza/allertrack/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	resetTTL     string
	logger       *slog.Logger
}

// Ensure EmailService implements Mailer
var _ Mailer = (*EmailService)(nil)

func NewEmailService(cfg *config.Config, logger *slog.Logger) *EmailService {
	s := &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     cfg.EmailFromName,
		resetTTL:     cfg.ResetTokenTTL.String(),
		logger:       logger,
	}
	if !cfg.SMTPConfigured() {
		logger.Warn("SMTP not configured, emails will be logged instead of sent")
	}
	return s
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// If SMTP is not configured, log the email instead
	if s.smtpHost == "" || s.smtpPort == "" {
		// The body carries live reset links, so it is never logged.
		s.logger.Info("email not sent, SMTP not configured", "to", to, "subject", subject)
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) SendPasswordReset(_ context.Context, user *models.User, link string) error {
	body, err := s.buildResetEmailBody(user, link)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s password reset", s.fromName)
	return s.SendEmail(user.Email, subject, body)
}

var resetEmailTemplate = template.Must(template.New("reset").Parse(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Reset your password</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2>Hello {{.Name}},</h2>
	<p>We received a request to reset the password for your account.</p>

	<div style="text-align: center; margin: 30px 0;">
		<a href="{{.Link}}" style="background-color: #2E7D32; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">
			Reset Password
		</a>
	</div>

	<p style="color: #666; font-size: 14px;">If the button above doesn't work, copy and paste this link into your browser:</p>
	<p style="background-color: #eee; padding: 10px; border-radius: 5px; word-break: break-all; font-size: 12px;">{{.Link}}</p>

	<p style="color: #666; font-size: 12px;">
		This link expires in {{.TTL}} and can be used once. If you didn't ask for a reset, you can ignore this email.
	</p>
</body>
</html>
`))

// buildResetEmailBody renders the reset email. The username is user input
// and is escaped by the template.
func (s *EmailService) buildResetEmailBody(user *models.User, link string) (string, error) {
	var buf bytes.Buffer
	err := resetEmailTemplate.Execute(&buf, struct {
		Name, Link, TTL string
	}{
		Name: cases.Title(language.English).String(user.Username),
		Link: link,
		TTL:  s.resetTTL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render reset email: %w", err)
	}
	return buf.String(), nil
}
