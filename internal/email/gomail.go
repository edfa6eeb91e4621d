package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

type gomailService struct {
	dialer *gomail.Dialer
	cfg    Config
}

// NewGomailService creates an SMTP-backed email service
func NewGomailService(cfg Config) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

func (s *gomailService) SendVerification(ctx context.Context, email, token string) error {
	body := fmt.Sprintf(
		"Welcome to NewsAI!<br><br>Please verify your email address by clicking "+
			"<a href=\"%s/verify?token=%s\">this link</a>.",
		s.cfg.BaseURL, token,
	)
	return s.send(email, "Verify your NewsAI account", body)
}

func (s *gomailService) SendPasswordReset(ctx context.Context, email, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your NewsAI account.<br><br>"+
			"<a href=\"%s/reset?token=%s\">Reset your password</a>. "+
			"If you did not request this, you can ignore this mail.",
		s.cfg.BaseURL, token,
	)
	return s.send(email, "Reset your NewsAI password", body)
}

func (s *gomailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hi %s,<br><br>your NewsAI account is ready. Enjoy the reading!", name)
	return s.send(email, "Welcome to NewsAI", body)
}

func (s *gomailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
