package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailSender sends mail over SMTP.
type GomailSender struct {
	config Config
	dialer *gomail.Dialer
}

func NewGomailSender(config Config) (*GomailSender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	return &GomailSender{
		config: config,
		dialer: gomail.NewDialer(
			config.SMTPHost,
			config.SMTPPort,
			config.Username,
			config.Password,
		),
	}, nil
}

func (s *GomailSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromEmail, s.config.FromName))
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTMLBody)

	return s.dialer.DialAndSend(m)
}
