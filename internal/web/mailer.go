package web

import (
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/Zachkp/quantum-portfolio/internal/config"
)

var (
	// ErrMailNotConfigured is returned when SMTP credentials are missing.
	ErrMailNotConfigured = errors.New("SMTP credentials not configured")
	// ErrInvalidReplyTo is returned when the visitor's address does not parse.
	ErrInvalidReplyTo = errors.New("invalid reply-to address")
)

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(name, email, message string) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg  config.SMTP
	send sendFunc
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(name, email, message string) error {
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return ErrMailNotConfigured
	}
	to := m.cfg.ToEmail
	if to == "" {
		to = m.cfg.User
	}

	replyTo, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReplyTo, err)
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, composeMessage(m.cfg.User, to, name, replyTo, message)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

// headerBreaks turns line breaks in visitor input into spaces so a value
// can never start a header line of its own.
var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func composeMessage(from, to, name string, replyTo *mail.Address, message string) []byte {
	name = headerBreaks.Replace(name)
	email := replyTo.Address
	subject := mime.QEncoding.Encode("utf-8", "Portfolio Contact: "+name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, email, message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + replyTo.String() + "\r\n" +
		"\r\n" +
		body + "\r\n")
}
