// Package mailer submits composed emails to an external SMTP service
// over implicit TLS. One attempt per call; the caller decides what a
// failure means.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"github.com/galaxyfolio/backend/internal/config"
	"github.com/galaxyfolio/backend/internal/contact"
)

// SMTPMailer relays messages through a fixed mail-submission endpoint
// using credentials from configuration. Credentials are never logged.
type SMTPMailer struct {
	cfg *config.SMTPConfig
	log *slog.Logger
}

// New creates an SMTP mailer from the given configuration
func New(cfg *config.SMTPConfig, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send submits the email and returns the generated message identifier.
// The whole exchange is bounded by the configured timeout or the
// request context deadline, whichever is sooner, so a slow mail
// provider cannot hold the HTTP request open indefinitely.
func (m *SMTPMailer) Send(ctx context.Context, email *contact.Email) (string, error) {
	messageID := m.newMessageID()
	raw, err := buildMessage(email, messageID, time.Now())
	if err != nil {
		return "", fmt.Errorf("build message: %w", err)
	}

	dialer := &net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.cfg.Addr())
	if err != nil {
		return "", fmt.Errorf("connect to mail server: %w", err)
	}

	deadline := time.Now().Add(m.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return "", fmt.Errorf("set connection deadline: %w", err)
	}

	// Port 465 is implicit TLS: the handshake happens before any SMTP
	// traffic, so credentials never cross the wire in the clear.
	tlsConn := tls.Client(conn, &tls.Config{ServerName: m.cfg.Host})

	client := smtp.NewClient(tlsConn)
	defer client.Close()

	if err := client.Auth(sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)); err != nil {
		return "", fmt.Errorf("smtp authentication: %w", err)
	}

	if err := client.SendMail(m.cfg.From, []string{m.cfg.To}, bytes.NewReader(raw)); err != nil {
		return "", fmt.Errorf("smtp submission: %w", err)
	}

	if err := client.Quit(); err != nil {
		// The message was accepted; a failed QUIT is not a delivery failure.
		m.log.Debug("smtp quit failed", "error", err)
	}

	m.log.Info("message submitted", "message_id", messageID, "to", m.cfg.To)
	return messageID, nil
}

// newMessageID generates a provider message identifier. SMTP itself
// returns none, so the relay mints one and stamps it into the
// Message-Id header, the way nodemailer and friends do.
func (m *SMTPMailer) newMessageID() string {
	domain := m.cfg.Host
	if i := strings.LastIndex(m.cfg.From, "@"); i >= 0 && i < len(m.cfg.From)-1 {
		domain = m.cfg.From[i+1:]
	}
	return uuid.NewString() + "@" + domain
}
