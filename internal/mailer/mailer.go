package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"busgo/internal/config"
)

// Sender delivers outbound notification mail. Booking and payment flows
// treat a false result as degraded success, never as a rollback trigger.
type Sender interface {
	Send(to, subject, body string) (bool, error)
}

// SMTPSender sends plain-auth SMTP mail through the configured relay.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPSender(env config.Env) *SMTPSender {
	return &SMTPSender{
		host: env.SMTPHost,
		port: env.SMTPPort,
		user: env.SMTPUser,
		pass: env.SMTPPass,
		from: env.MailFrom,
	}
}

func (s *SMTPSender) Send(to, subject, body string) (bool, error) {
	if s.host == "" {
		return false, fmt.Errorf("smtp host not configured")
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return false, err
	}
	return true, nil
}
