package mailer

import (
	"fmt"
	"log"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Config holds SMTP delivery settings. A fallback host/port pair may be given
// for a second delivery attempt when the primary relay refuses the message.
type Config struct {
	Host         string
	Port         string
	FallbackHost string
	FallbackPort string
	Username     string
	Password     string
	From         string
}

// Mailer sends email over SMTP with LOGIN authentication.
type Mailer struct {
	cfg Config
}

// New creates a Mailer from the given config.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP delivery is configured at all.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != ""
}

// Send delivers a single HTML email. The primary relay is tried first, then
// the fallback relay if one is configured; there is no further retry.
func (m *Mailer) Send(to, subject, html string) error {
	if !m.Enabled() {
		return fmt.Errorf("SMTP is not configured")
	}

	message := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		html

	auth := sasl.NewLoginClient(m.cfg.Username, m.cfg.Password)

	addrs := []string{m.cfg.Host + ":" + m.cfg.Port}
	if m.cfg.FallbackHost != "" {
		addrs = append(addrs, m.cfg.FallbackHost+":"+m.cfg.FallbackPort)
	}

	var err error
	for _, addr := range addrs {
		reader := strings.NewReader(message)
		err = smtp.SendMail(addr, auth, m.cfg.From, []string{to}, reader)
		if err == nil {
			return nil
		}
		log.Printf("WARN: Failed to send email via %s: %v", addr, err)
	}
	return fmt.Errorf("failed to send email to %s: %w", to, err)
}
