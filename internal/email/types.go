package email

import "fmt"

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Sender hands a rendered message to the mail transport.
// Send returning nil means the transport accepted the message, not that
// the recipient received it.
type Sender interface {
	Send(email *Email) error
}

// Config for the SMTP transport.
type Config struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
