package infra

import (
	"fmt"
	"net/smtp"

	"stockpro/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipt e-mails through SMTP, guarded by a circuit breaker so a
// dead mail server fails fast instead of tying up workers.
type Mailer struct {
	from     string
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		from:     cfg.SMTPUser,
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker("smtp", DefaultCBConfig()),
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Breaker exposes the circuit breaker for the health endpoint.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// SendReceipt mails a PDF receipt to the customer.
func (m *Mailer) SendReceipt(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error { return e.Send(m.addr, auth) })
}
