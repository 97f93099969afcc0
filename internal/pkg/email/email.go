package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvitation(to, invitationLink, role string, expiresAt time.Time) error
	SendNewEmployeeRegistered(to, employeeName, employeeEmail string, registeredAt time.Time) error
	SendContactMessage(to string, msg ContactMessage) error
}

type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type invitationEmailData struct {
	InvitationLink string
	Role           string
	ExpiresAt      string
}

func (s *emailServiceImpl) SendInvitation(to, invitationLink, role string, expiresAt time.Time) error {
	data := invitationEmailData{
		InvitationLink: invitationLink,
		Role:           role,
		ExpiresAt:      expiresAt.Format("02 Jan 2006 15:04 MST"),
	}
	body, err := s.render("invitation.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(to, "You're invited to join the team", body)
}

type registrationEmailData struct {
	EmployeeName  string
	EmployeeEmail string
	RegisteredAt  string
}

func (s *emailServiceImpl) SendNewEmployeeRegistered(to, employeeName, employeeEmail string, registeredAt time.Time) error {
	body, err := s.render("new_registration.html", registrationEmailData{
		EmployeeName:  employeeName,
		EmployeeEmail: employeeEmail,
		RegisteredAt:  registeredAt.Format("02 Jan 2006 15:04 MST"),
	})
	if err != nil {
		return err
	}
	return s.sendHTML(to, fmt.Sprintf("New employee registered: %s", employeeName), body)
}

func (s *emailServiceImpl) SendContactMessage(to string, msg ContactMessage) error {
	body, err := s.render("contact.html", msg)
	if err != nil {
		return err
	}
	return s.sendHTML(to, fmt.Sprintf("[Contact] %s", msg.Subject), body)
}

func (s *emailServiceImpl) render(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// 1s, 2s, 4s
		if attempt < maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<(attempt-1)))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
