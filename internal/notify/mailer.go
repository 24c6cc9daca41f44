package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"garagelog/internal/config"
)

// Mailer sends reminder emails over SMTP. DryRun logs instead of sending.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	dryRun   bool
	log      *zap.SugaredLogger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer builds a Mailer from config.
func NewMailer(cfg config.Config, log *zap.SugaredLogger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.FromAddress,
		dryRun:   cfg.DryRun,
		log:      log,
		send:     smtp.SendMail,
	}
}

// Send delivers one message to the given recipients.
func (m *Mailer) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if m.dryRun {
		m.log.Infow("dry-run: would send email", "to", to, "subject", subject)
		return nil
	}
	if m.host == "" {
		return errors.New("SMTP_HOST is not configured")
	}

	msg := buildMessage(m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := m.send(addr, auth, m.from, to, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
